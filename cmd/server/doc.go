// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package main runs the Book Wise web frontends: the admin dashboard and the
member portal. Both are server-rendered and keep no data of their own; every
read and write goes to the Book Wise REST API.

# Application Architecture

The process is a Suture v4 tree:

	RootSupervisor ("book-wise")
	├── WebSupervisor ("web-layer")
	│   ├── admin-http  (:5173)
	│   └── portal-http (:5174)
	└── MaintenanceSupervisor ("maintenance-layer")
	    ├── query-cache  (expired results, cache size gauge)
	    ├── sessions     (expired browser sessions)
	    ├── admin-csrf
	    └── portal-csrf

Both applications share the API client, the result cache and the session
store. Cookies, CSRF tokens and templates belong to one application.

# Configuration

Koanf v2 layers, highest priority last:
  - built-in defaults
  - config.yaml (or BOOKWISE_CONFIG_PATH)
  - .env in the working directory
  - BOOKWISE_* environment variables

Common settings:

	export BOOKWISE_API_BASE_URL=http://localhost:8080/v1
	export BOOKWISE_SESSION_STORE=badger
	export BOOKWISE_SESSION_BADGER_PATH=/data/sessions
	export BOOKWISE_SESSION_ENCRYPTION_KEY=$(openssl rand -base64 32)
	./book-wise-web

# Signal Handling

SIGINT and SIGTERM cancel the root context. Each HTTP server then shuts
down within server.shutdown_timeout, and the session store is closed.

# Metrics

Prometheus metrics are served at /metrics on the admin listener only.
*/
package main
