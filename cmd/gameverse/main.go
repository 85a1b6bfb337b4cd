package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gameversehub/gameverse/internal/config"
	"github.com/gameversehub/gameverse/internal/igdb"
	"github.com/gameversehub/gameverse/internal/logging"
	"github.com/gameversehub/gameverse/internal/server"
	"github.com/gameversehub/gameverse/internal/store"
	"github.com/gameversehub/gameverse/internal/tracing"
	"github.com/gameversehub/gameverse/internal/trivia"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging)

	ctx := context.Background()
	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(ctx) }()

	if !cfg.IGDB.Valid() {
		logging.Warn("IGDB credentials not configured; games endpoints will return 503")
	}

	userStore, err := store.Open(cfg.DBPath)
	if err != nil {
		logging.Error("failed to open user store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = userStore.Close() }()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logging.Error("invalid redis URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() { _ = redisClient.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logging.Warn("redis unreachable; lookup cache disabled", "error", err)
			redisClient = nil
		}
		cancel()
	}

	tokens := igdb.NewTokenCache(cfg.IGDB)
	gameClient := igdb.NewClient(cfg.IGDB, tokens)
	triviaClient := trivia.NewClient()

	srv := server.New(server.Options{
		Games:       gameClient,
		Trivia:      triviaClient,
		Users:       userStore,
		Redis:       redisClient,
		CORSOrigins: cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logging.Info("gameverse API listening", "addr", cfg.Addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logging.Error("server error", "error", err)
			os.Exit(1)
		}

	case sig := <-shutdown:
		logging.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn("graceful shutdown failed", "error", err)
			if err := httpServer.Close(); err != nil {
				logging.Error("could not stop server", "error", err)
			}
		}
	}

	logging.Info("shutdown complete")
}
