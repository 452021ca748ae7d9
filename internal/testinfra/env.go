// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package testinfra

import (
	"net/http"
	"testing"
	"time"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// Magic link code and API token used by Env.SignIn.
const (
	TestCode  = "test-code"
	TestToken = "test-api-token"
)

// Env is the service stack of one application wired to a FakeAPI.
type Env struct {
	App      string
	API      *FakeAPI
	Client   *apiclient.Client
	Cache    *cache.Cache
	Warning  *toast.NetworkWarning
	Queries  *query.Client
	Commands *mutation.Commands
	Sessions *session.Manager
	CSRF     *session.CSRF
	Renderer *render.Renderer
}

// NewEnv builds the stack of app ("admin" or "portal"). Retries back off
// for a millisecond so failure tests stay fast.
func NewEnv(t testing.TB, app string) *Env {
	t.Helper()

	api := NewFakeAPI(t)
	client := api.Client(t)

	c := cache.New(1000, 5*time.Minute)
	t.Cleanup(c.Close)

	warning := &toast.NetworkWarning{}
	qcfg := query.DefaultConfig()
	qcfg.BaseBackoff = time.Millisecond

	scfg := session.DefaultConfig(app)
	scfg.CookieSecure = false
	ccfg := session.DefaultCSRFConfig(app)
	ccfg.CookieSecure = false

	renderer, err := render.New(app)
	if err != nil {
		t.Fatalf("load %s templates: %v", app, err)
	}

	return &Env{
		App:      app,
		API:      api,
		Client:   client,
		Cache:    c,
		Warning:  warning,
		Queries:  query.New(qcfg, c, warning),
		Commands: mutation.New(client, c),
		Sessions: session.NewManager(session.NewMemoryStore(), nil, scfg),
		CSRF:     session.NewCSRF(ccfg),
		Renderer: renderer,
	}
}

// CSRFCookieName returns the CSRF cookie of the application.
func (e *Env) CSRFCookieName() string {
	return session.DefaultCSRFConfig(e.App).CookieName
}

// SessionCookieName returns the session cookie of the application.
func (e *Env) SessionCookieName() string {
	return e.Sessions.CookieName()
}

// SignIn signs b in as user through the magic link callback.
func (e *Env) SignIn(t testing.TB, b *Browser, user models.User) {
	t.Helper()
	e.API.MagicLink(TestCode, TestToken)
	e.API.SignedIn(user)

	res := b.Get("/auth/callback?code=" + TestCode)
	if res.Status != http.StatusSeeOther {
		t.Fatalf("sign in: status %d, want %d\n%s", res.Status, http.StatusSeeOther, res.Body)
	}
	if b.Cookie(e.SessionCookieName()) == nil {
		t.Fatalf("sign in: no %s cookie", e.SessionCookieName())
	}
}

// AdminUser returns a user allowed into the admin app.
func AdminUser() models.User {
	return models.User{ID: "u-admin", FullName: "Ana Souza", Email: "ana@bookwise.dev", Role: models.RoleAdmin}
}

// MemberUser returns a portal member.
func MemberUser() models.User {
	return models.User{ID: "u-member", FullName: "Bruno Lima", Email: "bruno@bookwise.dev", Role: models.RoleMember}
}

// Page wraps rows in a single page envelope.
func Page[T any](rows ...T) models.Page[T] {
	if rows == nil {
		rows = []T{}
	}
	return models.Page[T]{Data: rows, Total: len(rows), TotalPages: 1, Page: 1, Limit: 10}
}
