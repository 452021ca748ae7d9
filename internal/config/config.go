// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"time"
)

// Config holds all configuration for the Book Wise web frontends.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every optional setting
//  2. Config File: optional YAML file (config.yaml) for persistent settings
//  3. Environment Variables: BOOKWISE_* variables override any setting
//
// A .env file in the working directory is read into the process environment
// before step 3, so local development does not need exported variables.
//
// Sections:
//   - Server: listen addresses and public URLs of the admin and portal apps
//   - API: remote Book Wise REST API transport
//   - Query: retry, freshness and capacity of the result cache
//   - Session: browser session storage and cookies
//   - Security: CORS and inbound rate limiting
//   - Logging: zerolog level and format
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Query    QueryConfig    `koanf:"query"`
	Session  SessionConfig  `koanf:"session"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds listener settings for both web applications.
type ServerConfig struct {
	// AdminAddr is the listen address of the admin dashboard.
	AdminAddr string `koanf:"admin_addr"`

	// PortalAddr is the listen address of the member portal.
	PortalAddr string `koanf:"portal_addr"`

	// PublicAdminURL is the externally visible base URL of the admin app.
	// The API redirects magic links here after sign in.
	PublicAdminURL string `koanf:"public_admin_url"`

	// PublicPortalURL is the externally visible base URL of the portal.
	PublicPortalURL string `koanf:"public_portal_url"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production". Production forces
	// secure cookies.
	Environment string `koanf:"environment"`

	// Version is reported by the health endpoint.
	Version string `koanf:"version"`
}

// APIConfig configures the outbound REST client.
type APIConfig struct {
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	CookieName string        `koanf:"cookie_name"`
	UserAgent  string        `koanf:"user_agent"`

	// RateLimit is the sustained outbound request rate per second.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit"`
	Burst     int     `koanf:"burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the API client.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	FailureRatio float64       `koanf:"failure_ratio"`
	MinRequests  uint32        `koanf:"min_requests"`
}

// QueryConfig configures list fetching and the result cache.
type QueryConfig struct {
	// MaxAttempts bounds how many times a failing list fetch is attempted.
	MaxAttempts int           `koanf:"max_attempts"`
	BaseBackoff time.Duration `koanf:"base_backoff"`

	// Freshness is how long a cached page is served without a refetch.
	Freshness time.Duration `koanf:"freshness"`

	// AuthFreshness is how long the signed-in user is cached.
	AuthFreshness time.Duration `koanf:"auth_freshness"`

	// Capacity is the maximum number of cached results.
	Capacity int `koanf:"capacity"`

	// PageLimit is the page size requested by the portal explore view.
	PageLimit int `koanf:"page_limit"`
}

// SessionConfig configures browser sessions held by the web apps.
type SessionConfig struct {
	// Store is "memory" or "badger".
	Store      string        `koanf:"store"`
	BadgerPath string        `koanf:"badger_path"`
	TTL        time.Duration `koanf:"ttl"`

	CookieName   string `koanf:"cookie_name"`
	CookieSecure bool   `koanf:"cookie_secure"`

	// EncryptionKey is a base64 master key used to encrypt API tokens at
	// rest. Empty disables encryption.
	EncryptionKey string `koanf:"encryption_key"`

	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds inbound protection settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
