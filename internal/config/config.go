// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	// Port is the TCP port the embedded HTTP server listens on.
	Port int `env:"ALFRED_PORT" envDefault:"8080"`

	// Passcode is the shared secret checked against the x-api-key
	// header or passcode query parameter. It can be rotated at runtime
	// through the admin endpoint; this value only seeds the initial one.
	Passcode string `env:"ALFRED_PASSCODE,required,notEmpty"`

	// CachePath is the SQLite database file backing the response cache.
	CachePath string `env:"ALFRED_CACHE_PATH" envDefault:"alfred-cache.db"`

	// WebDir holds the static HTML served on the public paths.
	WebDir string `env:"ALFRED_WEB_DIR" envDefault:"web"`

	// ConnDeadline bounds each connection's reads and writes so a hung
	// client cannot pin its handler goroutine forever.
	ConnDeadline time.Duration `env:"ALFRED_CONN_DEADLINE" envDefault:"30s"`

	// MaxConns caps the number of concurrently handled connections.
	MaxConns int64 `env:"ALFRED_MAX_CONNS" envDefault:"256"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("ALFRED_PORT must be 1-65535, got %d", cfg.Port)
	}
	if cfg.MaxConns < 1 {
		return Config{}, fmt.Errorf("ALFRED_MAX_CONNS must be positive, got %d", cfg.MaxConns)
	}
	return cfg, nil
}
