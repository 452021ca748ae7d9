// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateQuery(); err != nil {
		return err
	}

	if err := c.validateSession(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.AdminAddr == "" && c.Server.PortalAddr == "" {
		return fmt.Errorf("at least one of BOOKWISE_ADMIN_ADDR or BOOKWISE_PORTAL_ADDR is required")
	}
	if c.Server.AdminAddr != "" && c.Server.AdminAddr == c.Server.PortalAddr {
		return fmt.Errorf("admin and portal cannot listen on the same address %q", c.Server.AdminAddr)
	}

	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("BOOKWISE_ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("BOOKWISE_API_BASE_URL is required")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("BOOKWISE_API_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BOOKWISE_API_BASE_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("BOOKWISE_API_BASE_URL must include a host")
	}

	if c.API.CookieName == "" {
		return fmt.Errorf("BOOKWISE_API_COOKIE_NAME is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("BOOKWISE_API_TIMEOUT must be positive")
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("BOOKWISE_API_RATE_LIMIT cannot be negative")
	}
	if c.API.Breaker.FailureRatio <= 0 || c.API.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BOOKWISE_API_BREAKER_FAILURE_RATIO must be in (0,1], got %v", c.API.Breaker.FailureRatio)
	}
	return nil
}

func (c *Config) validateQuery() error {
	if c.Query.MaxAttempts < 1 {
		return fmt.Errorf("BOOKWISE_QUERY_MAX_ATTEMPTS must be at least 1, got %d", c.Query.MaxAttempts)
	}
	if c.Query.Freshness <= 0 {
		return fmt.Errorf("BOOKWISE_QUERY_FRESHNESS must be positive")
	}
	if c.Query.AuthFreshness <= 0 {
		return fmt.Errorf("BOOKWISE_QUERY_AUTH_FRESHNESS must be positive")
	}
	if c.Query.PageLimit < 1 {
		return fmt.Errorf("BOOKWISE_QUERY_PAGE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateSession() error {
	switch c.Session.Store {
	case "memory":
	case "badger":
		if c.Session.BadgerPath == "" {
			return fmt.Errorf("BOOKWISE_SESSION_BADGER_PATH is required when BOOKWISE_SESSION_STORE=badger")
		}
	default:
		return fmt.Errorf("BOOKWISE_SESSION_STORE must be memory or badger, got %q", c.Session.Store)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("BOOKWISE_SESSION_COOKIE_NAME is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("BOOKWISE_SESSION_TTL must be positive")
	}

	if c.Session.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Session.EncryptionKey)
		if err != nil {
			return fmt.Errorf("BOOKWISE_SESSION_ENCRYPTION_KEY must be base64: %w", err)
		}
		if len(key) < 16 {
			return fmt.Errorf("BOOKWISE_SESSION_ENCRYPTION_KEY must decode to at least 16 bytes")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("BOOKWISE_LOG_LEVEL is invalid: %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("BOOKWISE_LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
