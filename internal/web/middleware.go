// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
)

// MiddlewareConfig holds CORS and inbound rate limiting settings.
type MiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// RateLimitRequests per RateLimitWindow, keyed by client IP.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// AuthRateLimitRequests bounds sign-in and sign-up posts, which send
	// email on the API side.
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration

	// MaxBodyBytes caps every request body, the author avatar upload
	// included.
	MaxBodyBytes int64
}

// DefaultMiddlewareConfig returns a closed CORS policy and IP based limits.
// Origins must be configured explicitly.
func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "X-CSRF-Token", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 300,
		RateLimitWindow:   time.Minute,

		AuthRateLimitRequests: 10,
		AuthRateLimitWindow:   5 * time.Minute,

		MaxBodyBytes: 6 << 20,
	}
}

// Middleware builds the chi middleware shared by both applications.
type Middleware struct {
	app    string
	config *MiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewMiddleware creates the middleware factory for app.
func NewMiddleware(app string, config *MiddlewareConfig) *Middleware {
	if config == nil {
		config = DefaultMiddlewareConfig()
	}
	defaults := DefaultMiddlewareConfig()
	if config.RateLimitRequests <= 0 {
		config.RateLimitRequests = defaults.RateLimitRequests
	}
	if config.RateLimitWindow <= 0 {
		config.RateLimitWindow = defaults.RateLimitWindow
	}
	if config.AuthRateLimitRequests <= 0 {
		config.AuthRateLimitRequests = defaults.AuthRateLimitRequests
	}
	if config.AuthRateLimitWindow <= 0 {
		config.AuthRateLimitWindow = defaults.AuthRateLimitWindow
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if len(config.CORSAllowedMethods) == 0 {
		config.CORSAllowedMethods = defaults.CORSAllowedMethods
	}

	return &Middleware{
		app:    app,
		config: config,
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   config.CORSAllowedOrigins,
			AllowedMethods:   config.CORSAllowedMethods,
			AllowedHeaders:   config.CORSAllowedHeaders,
			AllowCredentials: config.CORSAllowCredentials,
			MaxAge:           config.CORSMaxAge,
		}),
	}
}

// CORS returns the go-chi/cors handler.
func (m *Middleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits every route by client IP.
func (m *Middleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitAuth is the stricter limit on sign-in and sign-up posts.
func (m *Middleware) RateLimitAuth() func(http.Handler) http.Handler {
	return m.limit(m.config.AuthRateLimitRequests, m.config.AuthRateLimitWindow)
}

// BodyLimit wraps request bodies in http.MaxBytesReader. A body announced
// larger than the limit is refused with 413 before anything parses it.
func (m *Middleware) BodyLimit() func(http.Handler) http.Handler {
	limit := m.config.MaxBodyBytes
	size := chimiddleware.RequestSize(limit)
	return func(next http.Handler) http.Handler {
		limited := size(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				logging.Ctx(r.Context()).Warn().
					Int64("content_length", r.ContentLength).
					Str("path", r.URL.Path).
					Msg("Request body too large")
				http.Error(w, "Arquivo muito grande.", http.StatusRequestEntityTooLarge)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) limit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(m.onLimit),
	)
}

func (m *Middleware) onLimit(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRateLimitHit(m.app)
	logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Rate limit exceeded")
	http.Error(w, "Muitas requisições, tente novamente em instantes.", http.StatusTooManyRequests)
}
