// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting for the server.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"DB_PATH" envDefault:"./data/payshare.db"`

	// JWTSecret signs session tokens. Override in production.
	JWTSecret string `env:"JWT_SECRET" envDefault:"payshare-dev-secret"`

	// TokenTTL is how long session tokens remain valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// FCMEndpoint is the push-notification endpoint. When empty,
	// notifications are logged and discarded.
	FCMEndpoint string `env:"FCM_ENDPOINT"`

	// FCMServerKey authorizes requests to the push endpoint.
	FCMServerKey string `env:"FCM_SERVER_KEY"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
