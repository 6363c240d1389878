// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers .env, an optional config file and MIZAN_ env vars on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// DataDir is the root holding config.json and one directory per year.
	DataDir string `koanf:"data_dir" validate:"required"`

	// DefaultYear is preloaded on start. Zero means the dataset's current_year.
	DefaultYear int `koanf:"default_year" validate:"gte=0"`

	// MaxLeaderboardLimit caps GET .../leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gt=0"`

	// RateLimitRPS and RateLimitBurst bound API requests per client. Zero RPS disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gte=0"`

	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DataDir:             "data",
		DefaultYear:         0,
		MaxLeaderboardLimit: 100,
		RateLimitRPS:        20,
		RateLimitBurst:      40,
		CORSOrigins:         []string{"*"},
	}
}
