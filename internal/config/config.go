// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// TournamentID selects the provider tournament to track.
	TournamentID string `koanf:"tournament_id"`

	// TournamentName is the display name reported by the stats endpoint.
	TournamentName string `koanf:"tournament_name"`

	// ProviderBaseURL is the root URL of the match data provider API.
	ProviderBaseURL string `koanf:"provider_base_url"`

	// ProviderToken authenticates provider requests; sent as x-access-token.
	ProviderToken string `koanf:"provider_token"`

	// ProviderTimeoutMS bounds each provider HTTP call.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms"`

	// DatabaseURL selects the Postgres store when set; empty keeps the
	// in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// PollIntervalSeconds is the reconciliation tick period.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// StartupRetryDelayMS is the fixed delay between retries while loading
	// initial state from the provider.
	StartupRetryDelayMS int `koanf:"startup_retry_delay_ms"`

	// SettleDelayMS is the pause between a detected completion and scoring,
	// letting the provider's result data settle.
	SettleDelayMS int `koanf:"settle_delay_ms"`

	// RecencyWindowHours sets the rolling window for rank deltas.
	RecencyWindowHours int `koanf:"recency_window_hours"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is currently
// unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		TournamentID:        "",
		TournamentName:      "",
		ProviderBaseURL:     "http://localhost:3005",
		ProviderToken:       "",
		ProviderTimeoutMS:   10_000,
		DatabaseURL:         "",
		PollIntervalSeconds: 60,
		StartupRetryDelayMS: 10_000,
		SettleDelayMS:       1_000,
		RecencyWindowHours:  24,
		MaxLeaderboardLimit: 100,
	}
	return c
}
