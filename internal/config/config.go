// Package config loads application configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gameversehub/gameverse/internal/logging"
)

// Credentials holds the IGDB (Twitch) client-credentials pair.
// Absence is a valid state: the games endpoints run degraded and the
// trivia endpoints keep working.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Valid reports whether both halves of the pair are present.
func (c Credentials) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Config holds application configuration.
type Config struct {
	Addr        string         `yaml:"addr"`
	IGDB        Credentials    `yaml:"igdb"`
	CORSOrigins []string       `yaml:"cors_origins"`
	DBPath      string         `yaml:"db_path"`
	RedisURL    string         `yaml:"redis_url"`
	Logging     logging.Config `yaml:"logging"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Addr:        ":8080",
		CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		DBPath:      "gameverse.db",
		Logging:     logging.DefaultConfig(),
	}
}

// configPaths returns the list of paths to search for a config file.
func configPaths() []string {
	paths := []string{
		".gameverse.yaml",
		".gameverse.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gameverse", "config.yaml"),
			filepath.Join(home, ".config", "gameverse", "config.yml"),
			filepath.Join(home, ".gameverse.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// Priority: env GAMEVERSE_CONFIG > search paths > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMEVERSE_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("GAMEVERSE_ADDR"); addr != "" {
		c.Addr = addr
	}
	if id := os.Getenv("TWITCH_CLIENT_ID"); id != "" {
		c.IGDB.ClientID = id
	}
	if secret := os.Getenv("TWITCH_CLIENT_SECRET"); secret != "" {
		c.IGDB.ClientSecret = secret
	}
	if dbPath := os.Getenv("GAMEVERSE_DB"); dbPath != "" {
		c.DBPath = dbPath
	}
	if redisURL := os.Getenv("GAMEVERSE_REDIS_URL"); redisURL != "" {
		c.RedisURL = redisURL
	}
	if origins := os.Getenv("GAMEVERSE_CORS_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		c.CORSOrigins = c.CORSOrigins[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				c.CORSOrigins = append(c.CORSOrigins, p)
			}
		}
	}
}
