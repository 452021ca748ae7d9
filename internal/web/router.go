// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/G-Villarinho/book-wise/internal/middleware"
	"github.com/G-Villarinho/book-wise/internal/session"
)

// RouterConfig wires the shared middleware of one application.
type RouterConfig struct {
	App        string
	Version    string
	Sessions   *session.Manager
	CSRF       *session.CSRF
	Middleware *Middleware

	// Metrics mounts the Prometheus handler at /metrics. Only the admin
	// listener exposes it.
	Metrics bool
}

// NewRouter builds the chi router of an application. Operational routes
// sit at the root; routes registers the pages, which run behind rate
// limiting, the body size limit, compression, the session loader and CSRF
// protection.
func NewRouter(cfg RouterConfig, routes func(r chi.Router)) *chi.Mux {
	if cfg.Middleware == nil {
		cfg.Middleware = NewMiddleware(cfg.App, nil)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.App(cfg.App))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cfg.Middleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, HealthStatus{Status: "ok", App: cfg.App, Version: cfg.Version})
	})
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Middleware.RateLimit())
		r.Use(cfg.Middleware.BodyLimit())
		r.Use(middleware.Compression)
		r.Use(cfg.Sessions.Load)
		r.Use(cfg.CSRF.Protect)
		routes(r)
	})

	return r
}
