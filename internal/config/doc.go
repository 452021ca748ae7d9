// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package config provides configuration loading for the Book Wise web frontends.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then BOOKWISE_* environment variables. A .env file in the working
directory is applied to the environment first and never overrides variables
that are already set.

# Environment Variables

Server:
  - BOOKWISE_ADMIN_ADDR: admin dashboard listen address (default: :5173)
  - BOOKWISE_PORTAL_ADDR: member portal listen address (default: :5174)
  - BOOKWISE_PUBLIC_ADMIN_URL / BOOKWISE_PUBLIC_PORTAL_URL: externally visible URLs
  - BOOKWISE_ENVIRONMENT: development or production

Remote API:
  - BOOKWISE_API_BASE_URL: Book Wise REST API root (required)
  - BOOKWISE_API_TIMEOUT: per-request timeout (default: 10s)
  - BOOKWISE_API_COOKIE_NAME: name of the API session cookie
  - BOOKWISE_API_RATE_LIMIT / BOOKWISE_API_BURST: outbound limiter
  - BOOKWISE_API_BREAKER_*: circuit breaker tuning

Query cache:
  - BOOKWISE_QUERY_MAX_ATTEMPTS: list fetch attempts (default: 3)
  - BOOKWISE_QUERY_FRESHNESS: cached page freshness (default: 5m)
  - BOOKWISE_QUERY_AUTH_FRESHNESS: signed-in user freshness (default: 15m)

Sessions:
  - BOOKWISE_SESSION_STORE: memory or badger
  - BOOKWISE_SESSION_BADGER_PATH: badger directory
  - BOOKWISE_SESSION_ENCRYPTION_KEY: base64 key for API tokens at rest

Logging:
  - BOOKWISE_LOG_LEVEL, BOOKWISE_LOG_FORMAT, BOOKWISE_LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
