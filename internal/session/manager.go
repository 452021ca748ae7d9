// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// Config holds configuration for a Manager.
type Config struct {
	// App is the web application ("admin" or "portal").
	App string

	// CookieName is the name of the session cookie. Both apps may share a
	// host, so each app needs its own name.
	CookieName string

	// TTL is the session time-to-live.
	TTL time.Duration

	// Sliding extends the expiry on each request.
	Sliding bool

	// CookieSecure sets the Secure flag on the cookie.
	CookieSecure bool
}

// DefaultConfig returns sensible defaults for app.
func DefaultConfig(app string) Config {
	return Config{
		App:          app,
		CookieName:   "bw_" + app + "_session",
		TTL:          24 * time.Hour,
		Sliding:      true,
		CookieSecure: true,
	}
}

type contextKey struct{}

// holder lets AddFlash attach a freshly created session to a request that
// arrived without one.
type holder struct {
	session *Session
}

// Manager loads sessions from cookies and persists changes to a Store.
type Manager struct {
	store    Store
	enc      *TokenEncryptor
	cfg      Config
	security *logging.SecurityLogger
}

// NewManager creates a session manager. enc may be nil.
func NewManager(store Store, enc *TokenEncryptor, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultConfig(cfg.App).CookieName
	}
	return &Manager{
		store:    store,
		enc:      enc,
		cfg:      cfg,
		security: logging.NewSecurityLogger(),
	}
}

// CookieName returns the configured session cookie name.
func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// Store returns the underlying session store.
func (m *Manager) Store() Store {
	return m.store
}

// Load is a middleware that reads the session cookie and attaches the
// session to the request context. Requests without a valid session continue
// anonymously; use FromContext(ctx).Authenticated() to guard routes.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := &holder{}
		if s := m.lookup(r); s != nil {
			h.session = s
		}
		ctx := context.WithValue(r.Context(), contextKey{}, h)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) lookup(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	s, err := m.get(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup error")
		}
		return nil
	}

	if m.cfg.Sliding {
		newExpiry := m.expiry(s.APIToken)
		if err := m.store.Touch(r.Context(), s.ID, newExpiry); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to touch session")
		} else {
			s.ExpiresAt = newExpiry
		}
	}
	return s
}

// FromContext returns the session of the request, or nil.
func FromContext(ctx context.Context) *Session {
	if h, ok := ctx.Value(contextKey{}).(*holder); ok {
		return h.session
	}
	return nil
}

// ContextWithSession attaches s to ctx. Handler tests use it to bypass Load.
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, &holder{session: s})
}

// SignIn stores the API token in a fresh session and sets the cookie. Any
// previous session of the browser is deleted so a pre-auth session ID never
// becomes authenticated; pending flash toasts are carried over.
func (m *Manager) SignIn(ctx context.Context, w http.ResponseWriter, token, email string) (*Session, error) {
	prev := FromContext(ctx)

	s := newSession(m.cfg.App, m.cfg.TTL)
	s.APIToken = token
	s.Email = email
	s.ExpiresAt = m.expiry(token)
	if prev != nil {
		s.Flash = prev.Flash
		if err := m.store.Delete(ctx, prev.ID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to delete pre-auth session")
		}
	}

	stored, err := m.sealed(s)
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.attach(ctx, s)
	m.setCookie(w, s)
	metrics.RecordSessionOperation("sign_in")
	m.security.LogEvent(ctx, &logging.SecurityEvent{
		Event:     "sign_in_completed",
		Email:     email,
		SessionID: s.ID,
		Success:   true,
	})
	return s, nil
}

// Destroy deletes the session of the request and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, reason string) error {
	m.clearCookie(w)
	s := FromContext(ctx)
	if s == nil {
		return nil
	}
	m.attach(ctx, nil)

	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	metrics.RecordSessionOperation("destroy")
	m.security.LogEvent(ctx, &logging.SecurityEvent{
		Event:     "sign_out",
		Email:     s.Email,
		SessionID: s.ID,
		Success:   reason == "",
		Reason:    reason,
	})
	return nil
}

// AddFlash queues a toast for the next rendered page, creating an anonymous
// session when the browser has none.
func (m *Manager) AddFlash(ctx context.Context, w http.ResponseWriter, t toast.Toast) error {
	if t.Message == "" {
		return nil
	}
	s := FromContext(ctx)
	if s == nil {
		s = newSession(m.cfg.App, m.cfg.TTL)
		s.Flash = []toast.Toast{t}
		stored, err := m.sealed(s)
		if err != nil {
			return err
		}
		if err := m.store.Create(ctx, stored); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		m.attach(ctx, s)
		m.setCookie(w, s)
		metrics.RecordSessionOperation("create_anonymous")
		return nil
	}

	s.Flash = append(s.Flash, t)
	return m.save(ctx, s)
}

// PopFlash returns and clears the queued toasts.
func (m *Manager) PopFlash(ctx context.Context) []toast.Toast {
	s := FromContext(ctx)
	if s == nil || len(s.Flash) == 0 {
		return nil
	}
	out := s.Flash
	s.Flash = nil
	if err := m.save(ctx, s); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to clear flash")
	}
	return out
}

// RememberEmail stores the address a magic link was sent to, creating an
// anonymous session when needed.
func (m *Manager) RememberEmail(ctx context.Context, w http.ResponseWriter, email string) error {
	s := FromContext(ctx)
	if s == nil {
		s = newSession(m.cfg.App, m.cfg.TTL)
		s.Email = email
		stored, err := m.sealed(s)
		if err != nil {
			return err
		}
		if err := m.store.Create(ctx, stored); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		m.attach(ctx, s)
		m.setCookie(w, s)
		return nil
	}
	s.Email = email
	return m.save(ctx, s)
}

// expiry is now+TTL, capped at the API token's own expiry.
func (m *Manager) expiry(token string) time.Time {
	exp := time.Now().Add(m.cfg.TTL)
	if tokenExp, ok := TokenExpiry(token); ok && tokenExp.Before(exp) {
		return tokenExp
	}
	return exp
}

func (m *Manager) attach(ctx context.Context, s *Session) {
	if h, ok := ctx.Value(contextKey{}).(*holder); ok {
		h.session = s
	}
}

func (m *Manager) get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	token, err := m.enc.Decrypt(s.APIToken)
	if err != nil {
		m.security.LogEvent(ctx, &logging.SecurityEvent{
			Event:     "session_rejected",
			SessionID: id,
			Reason:    err.Error(),
		})
		//nolint:errcheck // unreadable sessions are dropped
		m.store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	s.APIToken = token
	return s, nil
}

// sealed returns a copy of s with the API token encrypted.
func (m *Manager) sealed(s *Session) (*Session, error) {
	out := s.clone()
	enc, err := m.enc.Encrypt(s.APIToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt api token: %w", err)
	}
	out.APIToken = enc
	return out, nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	stored, err := m.sealed(s)
	if err != nil {
		return err
	}
	if err := m.store.Update(ctx, stored); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
