// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, realtime hub) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/prepdeck/prepdeck/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the PrepDeck API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"         envDefault:"5000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Key-Value Store (Redis): rate windows, revoked tokens, room fan-out
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for identity signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Cross-Origin Resource Sharing
	FrontendURL  string `env:"FRONTEND_URL"  envDefault:"http://localhost:3001"`
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Rate limiting (zero max means "use the environment default")
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX"    envDefault:"0"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the explicit CORS allow-list.
//
// The list always contains the configured frontend URL and the common local
// frontend ports; EXTRA_ORIGINS appends comma-separated entries for staging
// deployments. Localhost admission in non-production mode is handled
// separately by the middleware and does not rely on this list.
func (c *Config) AllowedOrigins() []string {
	origins := []string{
		c.FrontendURL,
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
	}

	for _, extra := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(extra); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

// RateLimitMaxRequests resolves the admission cap for the current environment.
//
// Development traffic includes progress polling and realtime handshakes, so
// the default cap is an order of magnitude higher than production.
func (c *Config) RateLimitMaxRequests() int {
	if c.RateLimitMax > 0 {
		return c.RateLimitMax
	}
	if c.IsProduction() {
		return constants.DefaultRateLimitMaxProduction
	}
	return constants.DefaultRateLimitMaxDevelopment
}
