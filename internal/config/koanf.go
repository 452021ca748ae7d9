// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/book-wise/config.yaml",
	"/etc/book-wise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "BOOKWISE_CONFIG_PATH"

// EnvPrefix is stripped from every environment variable considered by the loader.
const EnvPrefix = "BOOKWISE_"

// DotEnvFile is read into the environment before the env layer when present.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			AdminAddr:       ":5173",
			PortalAddr:      ":5174",
			PublicAdminURL:  "http://localhost:5173",
			PublicPortalURL: "http://localhost:5174",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
			Version:         "dev",
		},
		API: APIConfig{
			BaseURL:    "http://localhost:8080/v1",
			Timeout:    10 * time.Second,
			CookieName: "book-wise-session",
			UserAgent:  "book-wise-web",
			RateLimit:  50,
			Burst:      20,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				FailureRatio: 0.6,
				MinRequests:  10,
			},
		},
		Query: QueryConfig{
			MaxAttempts:   3,
			BaseBackoff:   250 * time.Millisecond,
			Freshness:     5 * time.Minute,
			AuthFreshness: 15 * time.Minute,
			Capacity:      5000,
			PageLimit:     15,
		},
		Session: SessionConfig{
			Store:           "memory",
			BadgerPath:      "/data/sessions",
			TTL:             7 * 24 * time.Hour,
			CookieName:      "bw_session",
			CookieSecure:    false,
			CleanupInterval: 15 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:5173", "http://localhost:5174"},
			RateLimitReqs:   30,
			RateLimitWindow: time.Minute,
			MaxBodyBytes:    6 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: BOOKWISE_* overrides, after .env is applied
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// BOOKWISE_API_BASE_URL -> api.base_url
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.IsProduction() {
		cfg.Session.CookieSecure = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv applies a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps prefix-stripped, lowercased environment variable names to
// koanf paths. Unmapped variables are ignored.
var envMappings = map[string]string{
	// Server
	"admin_addr":        "server.admin_addr",
	"portal_addr":       "server.portal_addr",
	"public_admin_url":  "server.public_admin_url",
	"public_portal_url": "server.public_portal_url",
	"read_timeout":      "server.read_timeout",
	"write_timeout":     "server.write_timeout",
	"idle_timeout":      "server.idle_timeout",
	"shutdown_timeout":  "server.shutdown_timeout",
	"environment":       "server.environment",
	"version":           "server.version",

	// Remote API
	"api_base_url":              "api.base_url",
	"api_timeout":               "api.timeout",
	"api_cookie_name":           "api.cookie_name",
	"api_user_agent":            "api.user_agent",
	"api_rate_limit":            "api.rate_limit",
	"api_burst":                 "api.burst",
	"api_breaker_max_requests":  "api.breaker.max_requests",
	"api_breaker_interval":      "api.breaker.interval",
	"api_breaker_timeout":       "api.breaker.timeout",
	"api_breaker_failure_ratio": "api.breaker.failure_ratio",
	"api_breaker_min_requests":  "api.breaker.min_requests",

	// Query cache
	"query_max_attempts":   "query.max_attempts",
	"query_base_backoff":   "query.base_backoff",
	"query_freshness":      "query.freshness",
	"query_auth_freshness": "query.auth_freshness",
	"query_capacity":       "query.capacity",
	"query_page_limit":     "query.page_limit",

	// Sessions
	"session_store":            "session.store",
	"session_badger_path":      "session.badger_path",
	"session_ttl":              "session.ttl",
	"session_cookie_name":      "session.cookie_name",
	"session_cookie_secure":    "session.cookie_secure",
	"session_encryption_key":   "session.encryption_key",
	"session_cleanup_interval": "session.cleanup_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"max_body_bytes":      "security.max_body_bytes",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - BOOKWISE_API_BASE_URL -> api.base_url
//   - BOOKWISE_SESSION_STORE -> session.store
//   - BOOKWISE_LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envMappings[key]
}
