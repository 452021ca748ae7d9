// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/G-Villarinho/book-wise/internal/logging"
)

// CSRF protection errors
var (
	// ErrCSRFTokenMissing indicates no CSRF token was provided.
	ErrCSRFTokenMissing = errors.New("CSRF token missing")

	// ErrCSRFTokenInvalid indicates the CSRF token doesn't match the cookie.
	ErrCSRFTokenInvalid = errors.New("CSRF token invalid")

	// ErrCSRFTokenExpired indicates the CSRF token is unknown or expired.
	ErrCSRFTokenExpired = errors.New("CSRF token expired")
)

// CSRFConfig holds configuration for CSRF protection.
type CSRFConfig struct {
	// CookieName is the name of the CSRF cookie.
	CookieName string

	// FormFieldName is the form field carrying the token.
	FormFieldName string

	// HeaderName is an alternative header carrying the token.
	HeaderName string

	CookieSecure bool

	// TokenTTL is how long tokens are valid.
	TokenTTL time.Duration

	// ExemptPaths are path prefixes that skip validation.
	ExemptPaths []string

	// ErrorHandler is called when validation fails. If nil, a plain 403 is
	// written.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// DefaultCSRFConfig returns sensible defaults for app.
func DefaultCSRFConfig(app string) CSRFConfig {
	return CSRFConfig{
		CookieName:    "bw_" + app + "_csrf",
		FormFieldName: "csrf_token",
		HeaderName:    "X-CSRF-Token",
		CookieSecure:  true,
		TokenTTL:      24 * time.Hour,
	}
}

// CSRF provides double-submit cookie protection: the token lives in a
// cookie and every unsafe request must echo it in a form field or header.
// Issued tokens are also tracked server side so forged cookies are refused.
type CSRF struct {
	cfg    CSRFConfig
	tokens *csrfTokenStore
}

type csrfTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

type csrfContextKey struct{}

// NewCSRF creates the CSRF middleware.
func NewCSRF(cfg CSRFConfig) *CSRF {
	defaults := DefaultCSRFConfig("app")
	if cfg.CookieName == "" {
		cfg.CookieName = defaults.CookieName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = defaults.FormFieldName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = defaults.HeaderName
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	return &CSRF{
		cfg:    cfg,
		tokens: &csrfTokenStore{tokens: make(map[string]time.Time)},
	}
}

// Protect issues a token on safe requests and validates it on the rest.
// The active token is placed in the request context for templates.
func (c *CSRF) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.isExemptPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			token := c.ensureToken(w, r)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
			return
		}

		token, err := c.validate(r)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("CSRF validation failed")
			c.handleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
	})
}

// TokenFromContext returns the CSRF token to embed in forms.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

// ensureToken reuses a valid cookie token or issues a new one.
func (c *CSRF) ensureToken(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(c.cfg.CookieName); err == nil && cookie.Value != "" {
		if c.tokens.isValid(cookie.Value) {
			return cookie.Value
		}
	}

	token, err := generateToken(32)
	if err != nil {
		logging.Error().Err(err).Msg("CSRF: failed to generate token")
		return ""
	}
	c.tokens.store(token, c.cfg.TokenTTL)
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.cfg.TokenTTL.Seconds()),
		Secure:   c.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}

func (c *CSRF) validate(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrCSRFTokenMissing
	}

	submitted := r.Header.Get(c.cfg.HeaderName)
	if submitted == "" {
		// FormValue parses multipart bodies too.
		submitted = r.FormValue(c.cfg.FormFieldName)
	}
	if submitted == "" {
		return "", ErrCSRFTokenMissing
	}

	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
		return "", ErrCSRFTokenInvalid
	}
	if !c.tokens.isValid(cookie.Value) {
		return "", ErrCSRFTokenExpired
	}
	return cookie.Value, nil
}

func (c *CSRF) isExemptPath(path string) bool {
	for _, exempt := range c.cfg.ExemptPaths {
		if strings.HasPrefix(path, exempt) {
			return true
		}
	}
	return false
}

func (c *CSRF) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if c.cfg.ErrorHandler != nil {
		c.cfg.ErrorHandler(w, r, err)
		return
	}
	http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
}

// CleanupExpired drops expired tokens and returns how many were removed.
func (c *CSRF) CleanupExpired() int {
	return c.tokens.cleanupExpired()
}

func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (s *csrfTokenStore) store(token string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = time.Now().Add(ttl)
}

func (s *csrfTokenStore) isValid(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	expiresAt, ok := s.tokens[token]
	return ok && time.Now().Before(expiresAt)
}

func (s *csrfTokenStore) cleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	now := time.Now()
	for token, expiresAt := range s.tokens {
		if now.After(expiresAt) {
			delete(s.tokens, token)
			count++
		}
	}
	return count
}
