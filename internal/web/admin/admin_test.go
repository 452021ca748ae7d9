// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/testinfra"
	"github.com/G-Villarinho/book-wise/internal/web"
)

// newTestApp builds the dashboard against a fake API and returns a browser
// that is not signed in.
func newTestApp(t *testing.T) (*testinfra.Env, *testinfra.Browser) {
	t.Helper()

	env := testinfra.NewEnv(t, App)
	mw := web.DefaultMiddlewareConfig()
	mw.RateLimitDisabled = true

	h := New(Config{
		Version:     "test",
		CallbackURL: "http://admin.test/auth/callback",
		Middleware:  mw,
	}, web.Deps{
		Renderer: env.Renderer,
		Sessions: env.Sessions,
		CSRF:     env.CSRF,
		Queries:  env.Queries,
		Commands: env.Commands,
	}, env.Client)

	return env, testinfra.NewBrowser(t, h, env.CSRFCookieName())
}

// signedIn returns the app with a browser signed in as an admin. Calls made
// while signing in are forgotten.
func signedIn(t *testing.T) (*testinfra.Env, *testinfra.Browser) {
	t.Helper()
	env, b := newTestApp(t)
	env.SignIn(t, b, testinfra.AdminUser())
	b.CSRFToken()
	env.API.Reset()
	return env, b
}

// scope returns the cache scope of the browser's session.
func scope(t *testing.T, env *testinfra.Env, b *testinfra.Browser) string {
	t.Helper()
	c := b.Cookie(env.SessionCookieName())
	require.NotNil(t, c, "session cookie")
	return c.Value
}

// listKey is the cache prefix of a resource for the browser's session.
func listKey(t *testing.T, env *testinfra.Env, b *testinfra.Browser, resource string) cache.Key {
	t.Helper()
	return query.Key(scope(t, env, b), resource)
}

func adminKey(t *testing.T, env *testinfra.Env, b *testinfra.Browser, id string) cache.Key {
	t.Helper()
	return query.Key(scope(t, env, b), query.ResourceAdmin, id)
}

func TestHealthz(t *testing.T) {
	_, b := newTestApp(t)

	res := b.Get("/healthz")
	require.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"status":"ok","app":"admin","version":"test"}`, res.Body)
}

func TestSignIn(t *testing.T) {
	t.Run("sends the magic link", func(t *testing.T) {
		env, b := newTestApp(t)
		env.API.Status(http.MethodPost, "/auth/admin/sign-in", http.StatusNoContent)

		res := b.PostForm("/sign-in", url.Values{"email": {"ana@bookwise.dev"}})
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, "/sign-in?sent=1", res.Location)

		calls := env.API.CallsTo(http.MethodPost, "/auth/admin/sign-in")
		require.Len(t, calls, 1)
		var payload models.SignInPayload
		require.NoError(t, calls[0].DecodeBody(&payload))
		assert.Equal(t, "ana@bookwise.dev", payload.Email)

		page := b.FollowRedirect(res)
		assert.Contains(t, page.Body, "Enviamos um link de acesso")
		assert.NotContains(t, page.Body, "ana@bookwise.dev")
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		env, b := newTestApp(t)

		res := b.PostForm("/sign-in", url.Values{"email": {"not-an-email"}})
		assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
		assert.Contains(t, res.Body, "E-mail inválido")
		assert.Empty(t, env.API.CallsTo(http.MethodPost, "/auth/admin/sign-in"))
	})

	t.Run("refused link", func(t *testing.T) {
		env, b := newTestApp(t)
		env.API.MagicLink(testinfra.TestCode, testinfra.TestToken)

		res := b.Get("/auth/callback?code=wrong")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, SignInPath, res.Location)
		assert.Contains(t, b.FollowRedirect(res).Body, "Link inválido")
	})

	t.Run("missing code", func(t *testing.T) {
		_, b := newTestApp(t)

		res := b.Get("/auth/link")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Contains(t, b.FollowRedirect(res).Body, "Link de acesso inválido ou expirado.")
	})

	t.Run("signed-in user skips the form", func(t *testing.T) {
		_, b := signedIn(t)

		res := b.Get(SignInPath)
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, HomePath, res.Location)
	})
}

func TestSignOut(t *testing.T) {
	env, b := signedIn(t)
	env.API.Status(http.MethodPost, "/auth/sign-out", http.StatusNoContent)

	res := b.PostForm("/sign-out", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, SignInPath, res.Location)

	calls := env.API.CallsTo(http.MethodPost, "/auth/sign-out")
	require.Len(t, calls, 1)
	assert.Equal(t, testinfra.TestToken, calls[0].Token)
	assert.Nil(t, b.Cookie(env.SessionCookieName()))
}

func TestGuards(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		_, b := newTestApp(t)

		res := b.Get("/admins")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, SignInPath, res.Location)
	})

	t.Run("member", func(t *testing.T) {
		env, b := newTestApp(t)
		env.SignIn(t, b, testinfra.MemberUser())

		res := b.Get("/authors")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, web.ForbiddenPath, res.Location)

		page := b.FollowRedirect(res)
		assert.Equal(t, http.StatusForbidden, page.Status)
		assert.Contains(t, page.Body, "Acesso negado")
	})

	t.Run("root", func(t *testing.T) {
		_, b := signedIn(t)

		res := b.Get("/")
		require.Equal(t, http.StatusFound, res.Status)
		assert.Equal(t, HomePath, res.Location)
	})

	t.Run("API session expired", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Fail(http.MethodGet, "/users/admins", http.StatusUnauthorized, "Sessão expirada")

		res := b.Get("/admins?page=1")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, SignInPath, res.Location)
		assert.Nil(t, b.Cookie(env.SessionCookieName()))
		assert.Zero(t, env.Cache.Len())
	})

	t.Run("API forbids", func(t *testing.T) {
		env, b := signedIn(t)
		env.API.Fail(http.MethodGet, "/authors", http.StatusForbidden, "")

		res := b.Get("/authors?page=1")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, web.ForbiddenPath, res.Location)
		assert.NotNil(t, b.Cookie(env.SessionCookieName()))
	})
}

func TestDismissNetworkWarning(t *testing.T) {
	env, b := signedIn(t)
	env.Warning.Raise()
	b.Referer = "/library?page=2"

	res := b.PostForm("/toasts/network/dismiss", nil)
	require.Equal(t, http.StatusSeeOther, res.Status)
	assert.Equal(t, "/library?page=2", res.Location)
	assert.False(t, env.Warning.Active())
}

func TestCSRFRequired(t *testing.T) {
	env, b := signedIn(t)

	req, err := http.NewRequest(http.MethodPost, b.Server.URL+"/admins/a1/block", nil)
	require.NoError(t, err)
	res := b.Do(req)

	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Empty(t, env.API.CallsTo(http.MethodPatch, "/users/admin/block"))
}
