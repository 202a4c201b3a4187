// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors. No package keeps it in a global.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/roots/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Roots API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string `env:"DATABASE_URL,required,notEmpty"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	DatabaseMinConns int32  `env:"DATABASE_MIN_CONNS" envDefault:"2"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis) for refresh sessions and login attempt counters
	RedisURL      string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Access token signing (HS256)
	JWTSecretKey    string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// Login attempt limiting per email and per client IP
	AuthRateLimitMax    int           `env:"AUTH_RATE_LIMIT_MAX"    envDefault:"10"`
	AuthRateLimitWindow time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" envDefault:"15m"`

	// Object Storage (MinIO / S3-compatible)
	StorageEndpoint  string `env:"STORAGE_ENDPOINT"   envDefault:"localhost:9000"`
	StorageAccessKey string `env:"STORAGE_ACCESS_KEY" envDefault:"minioadmin"`
	StorageSecretKey string `env:"STORAGE_SECRET_KEY" envDefault:"minioadmin"`
	StorageBucket    string `env:"STORAGE_BUCKET"     envDefault:"roots"`
	StorageUseSSL    bool   `env:"STORAGE_USE_SSL"    envDefault:"false"`

	// Browser-facing URLs
	FrontendURL    string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	// Google sign-in. Disabled when the client ID is empty.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.AuthRateLimitMax < 1 {
		return nil, fmt.Errorf("config: AUTH_RATE_LIMIT_MAX must be positive, got %d", cfg.AuthRateLimitMax)
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

// Origins returns the browser origins allowed by CORS.
// The frontend URL is always included.
func (c *Config) Origins() []string {
	return append([]string{strings.TrimRight(c.FrontendURL, "/")}, query.StringSlice(c.AllowedOrigins)...)
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// GoogleCallbackURL returns the OAuth redirect target, defaulting to this API's callback route.
func (c *Config) GoogleCallbackURL() string {
	if c.GoogleRedirectURL != "" {
		return c.GoogleRedirectURL
	}
	return strings.TrimRight(c.FrontendURL, "/") + "/api/v1/auth/google/callback"
}
