// Package server is the HTTP layer: it translates external requests
// into calls on the provider clients and the user-data store, enforces
// parameter bounds, and maps the error taxonomy to status codes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gameversehub/gameverse/internal/igdb"
	"github.com/gameversehub/gameverse/internal/store"
	"github.com/gameversehub/gameverse/internal/trivia"
)

// GameProvider is the game-metadata client surface the server needs.
type GameProvider interface {
	Search(ctx context.Context, q igdb.SearchQuery) ([]igdb.GameSummary, error)
	GetByID(ctx context.Context, id int64) (*igdb.GameDetail, error)
	Genres(ctx context.Context) ([]igdb.NamedRef, error)
	Platforms(ctx context.Context) ([]igdb.NamedRef, error)
}

// TriviaProvider is the trivia client surface the server needs.
type TriviaProvider interface {
	Questions(ctx context.Context, f trivia.QuestionFilter) ([]trivia.Question, error)
	Categories(ctx context.Context) ([]trivia.Category, error)
	SessionToken(ctx context.Context) (string, error)
}

// UserStore is the persistence surface for per-user data.
type UserStore interface {
	Favorites(ctx context.Context, userID string) ([]store.Favorite, error)
	AddFavorite(ctx context.Context, userID string, f store.Favorite) error
	RemoveFavorite(ctx context.Context, userID string, gameID int64) error
	AddSearch(ctx context.Context, userID, term string) error
	Searches(ctx context.Context, userID string) ([]store.SearchEntry, error)
	AddQuizResult(ctx context.Context, userID string, r store.QuizResult) error
	QuizResults(ctx context.Context, userID string) ([]store.QuizResult, error)
}

// Server handles HTTP requests.
type Server struct {
	games  GameProvider
	trivia TriviaProvider
	users  UserStore
	cache  *lookupCache
	router chi.Router
}

// Options configures a Server.
type Options struct {
	Games       GameProvider
	Trivia      TriviaProvider
	Users       UserStore
	Redis       *redis.Client // optional lookup cache
	CORSOrigins []string
}

// New creates the HTTP server around the given collaborators.
func New(opts Options) *Server {
	s := &Server{
		games:  opts.Games,
		trivia: opts.Trivia,
		users:  opts.Users,
		cache:  newLookupCache(opts.Redis),
	}
	s.router = s.buildRouter(opts.CORSOrigins)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter(corsOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(statusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleSearchGames)
		r.Get("/games/{id}", s.handleGameByID)
		r.Get("/genres", s.handleGenres)
		r.Get("/platforms", s.handlePlatforms)

		r.Route("/trivia", func(r chi.Router) {
			r.Get("/questions", s.handleTriviaQuestions)
			r.Get("/categories", s.handleTriviaCategories)
			r.Get("/token", s.handleTriviaToken)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/favorites", s.handleListFavorites)
			r.Post("/favorites", s.handleAddFavorite)
			r.Delete("/favorites/{id}", s.handleRemoveFavorite)
			r.Get("/searches", s.handleListSearches)
			r.Post("/searches", s.handleAddSearch)
			r.Get("/quizzes", s.handleListQuizzes)
			r.Post("/quizzes", s.handleAddQuiz)
		})

		r.Post("/reviews", s.handleSubmitReview)
	})

	return r
}

// Handler returns the server wrapped with tracing instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s, "gameverse-api")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "gameverse",
		"timestamp": time.Now().UTC(),
	})
}
