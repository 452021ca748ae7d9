// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/testinfra"
	"github.com/G-Villarinho/book-wise/internal/validation"
)

// newTestRouter mounts routes behind the shared middleware stack of the
// admin app.
func newTestRouter(t *testing.T, mw *MiddlewareConfig, metrics bool, routes func(b *Base, r chi.Router)) (*testinfra.Env, *testinfra.Browser) {
	t.Helper()

	env := testinfra.NewEnv(t, "admin")
	base := NewBase("admin", Deps{
		Renderer: env.Renderer,
		Sessions: env.Sessions,
		CSRF:     env.CSRF,
		Queries:  env.Queries,
		Commands: env.Commands,
	}, env.Client, "/sign-in", "/admins")

	h := NewRouter(RouterConfig{
		App:        "admin",
		Version:    "1.2.3",
		Sessions:   env.Sessions,
		CSRF:       env.CSRF,
		Middleware: NewMiddleware("admin", mw),
		Metrics:    metrics,
	}, func(r chi.Router) {
		routes(base, r)
	})
	return env, testinfra.NewBrowser(t, h, env.CSRFCookieName())
}

func TestRouterOperationalRoutes(t *testing.T) {
	env, b := newTestRouter(t, nil, true, func(*Base, chi.Router) {})

	res := b.Get("/healthz")
	require.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"status":"ok","app":"admin","version":"1.2.3"}`, res.Body)
	assert.Nil(t, b.Cookie(env.CSRFCookieName()), "operational routes carry no CSRF cookie")

	res = b.Get("/metrics")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Body, "# HELP")

	t.Run("metrics only when enabled", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, func(*Base, chi.Router) {})
		assert.Equal(t, http.StatusNotFound, b.Get("/metrics").Status)
	})
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		fields   []string
		location string
	}{
		{"no query", "/admins", []string{"fullName"}, ""},
		{"already canonical", "/admins?fullName=Ana&page=2", []string{"fullName"}, ""},
		{"unsorted", "/admins?page=2&fullName=Ana", []string{"fullName"}, "/admins?fullName=Ana&page=2"},
		{"empty filter", "/admins?fullName=", []string{"fullName"}, "/admins?page=1"},
		{"unknown parameter", "/admins?foo=bar&page=1", []string{"fullName"}, "/admins?page=1"},
		{"bad page", "/admins?page=-3", []string{"fullName"}, "/admins?page=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()
			state := querystate.Parse(r.URL.Query(), tt.fields...)

			redirected := Canonical(w, r, state)
			assert.Equal(t, tt.location != "", redirected)
			if tt.location != "" {
				assert.Equal(t, http.StatusFound, w.Code)
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestRefererPath(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/home"},
		{"http://admin.test/admins?page=2&status=active", "/admins?page=2&status=active"},
		{"http://admin.test/authors", "/authors"},
		{"http://evil.test//evil.test/path", "/home"},
		{"::not a url", "/home"},
	}

	for _, tt := range tests {
		t.Run(tt.referer, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/x", nil)
			if tt.referer != "" {
				r.Header.Set("Referer", tt.referer)
			}
			assert.Equal(t, tt.want, RefererPath(r, "/home"))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	verr := validation.NewFieldError("email", "email", "E-mail inválido")
	assert.Equal(t, map[string]string{"email": "E-mail inválido"}, FieldErrors(fmt.Errorf("create admin: %w", verr)))
	assert.Nil(t, FieldErrors(errors.New("boom")))
}

func TestHandleAuthError(t *testing.T) {
	failing := func(err error) func(b *Base, r chi.Router) {
		return func(b *Base, r chi.Router) {
			r.Get("/fail", func(w http.ResponseWriter, r *http.Request) {
				if !b.HandleAuthError(w, r, err) {
					w.WriteHeader(http.StatusTeapot)
				}
			})
		}
	}

	t.Run("401 destroys the session", func(t *testing.T) {
		env, b := newTestRouter(t, nil, false, func(base *Base, r chi.Router) {
			failing(&apiclient.Error{Status: http.StatusUnauthorized})(base, r)
			r.Get("/auth/callback", NewAuth(base, nil, "").Callback)
		})
		env.SignIn(t, b, testinfra.AdminUser())

		res := b.Get("/fail")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, "/sign-in", res.Location)
		assert.Nil(t, b.Cookie(env.SessionCookieName()))
	})

	t.Run("403 goes to forbidden", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, failing(&apiclient.Error{Status: http.StatusForbidden}))

		res := b.Get("/fail")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, ForbiddenPath, res.Location)
	})

	t.Run("other errors are left to the caller", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, failing(&apiclient.Error{Status: http.StatusConflict}))
		assert.Equal(t, http.StatusTeapot, b.Get("/fail").Status)
	})
}

func TestListError(t *testing.T) {
	listing := func(err error) func(b *Base, r chi.Router) {
		return func(b *Base, r chi.Router) {
			r.Get("/list", func(w http.ResponseWriter, r *http.Request) {
				v := b.View(r, "Lista", "list", nil)
				if b.ListError(w, r, err, &v) {
					return
				}
				respondJSON(w, http.StatusOK, v.Toasts)
			})
		}
	}

	t.Run("client error adds one toast", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, listing(&apiclient.Error{Status: http.StatusBadRequest, Message: "Filtro inválido"}))

		res := b.Get("/list")
		require.Equal(t, http.StatusOK, res.Status)
		assert.JSONEq(t, `[{"kind":"error","message":"Filtro inválido"}]`, res.Body)
	})

	t.Run("retryable error leaves it to the network warning", func(t *testing.T) {
		env, b := newTestRouter(t, nil, false, listing(&apiclient.Error{Status: http.StatusBadGateway}))
		env.Warning.Raise()

		res := b.Get("/list")
		require.Equal(t, http.StatusOK, res.Status)
		assert.JSONEq(t, `null`, res.Body)
	})

	t.Run("retryable error without the warning still adds a toast", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, listing(&apiclient.Error{Status: http.StatusBadGateway}))

		res := b.Get("/list")
		require.Equal(t, http.StatusOK, res.Status)
		assert.Contains(t, res.Body, `"kind":"error"`)
	})

	t.Run("auth errors redirect", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, listing(&apiclient.Error{Status: http.StatusForbidden}))

		res := b.Get("/list")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, ForbiddenPath, res.Location)
	})
}

func TestRequireUser(t *testing.T) {
	routes := func(base *Base, r chi.Router) {
		r.Get("/auth/callback", NewAuth(base, nil, "").Callback)
		r.With(base.RequireUser(models.Role.CanAdminister)).Get("/private", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hello " + UserFromContext(r.Context()).FullName))
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		_, b := newTestRouter(t, nil, false, routes)
		res := b.Get("/private")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, "/sign-in", res.Location)
	})

	t.Run("allowed role", func(t *testing.T) {
		env, b := newTestRouter(t, nil, false, routes)
		env.SignIn(t, b, testinfra.AdminUser())

		assert.Equal(t, "hello Ana Souza", b.Get("/private").Body)
		assert.Equal(t, "hello Ana Souza", b.Get("/private").Body)
		assert.Len(t, env.API.CallsTo(http.MethodGet, "/users/me"), 1, "current user is cached")
	})

	t.Run("rejected role", func(t *testing.T) {
		env, b := newTestRouter(t, nil, false, routes)
		env.SignIn(t, b, testinfra.MemberUser())

		res := b.Get("/private")
		require.Equal(t, http.StatusSeeOther, res.Status)
		assert.Equal(t, ForbiddenPath, res.Location)
	})

	t.Run("API unavailable", func(t *testing.T) {
		env, b := newTestRouter(t, nil, false, routes)
		env.SignIn(t, b, testinfra.AdminUser())
		env.API.Status(http.MethodGet, "/users/me", http.StatusServiceUnavailable)

		assert.Equal(t, http.StatusBadGateway, b.Get("/private").Status)
	})
}

func TestAuthRateLimit(t *testing.T) {
	mw := DefaultMiddlewareConfig()
	mw.AuthRateLimitRequests = 2
	mw.AuthRateLimitWindow = 0

	env, b := newTestRouter(t, mw, false, func(base *Base, r chi.Router) {
		m := NewMiddleware("admin", mw)
		auth := NewAuth(base, base.Identity.(*apiclient.Client).SignInAdmin, "")
		r.Get("/sign-in", auth.SignInPage)
		r.With(m.RateLimitAuth()).Post("/sign-in", auth.SignIn)
	})
	env.API.Status(http.MethodPost, "/auth/admin/sign-in", http.StatusNoContent)

	form := func() url.Values { return url.Values{"email": {"ana@bookwise.dev"}} }
	assert.Equal(t, http.StatusSeeOther, b.PostForm("/sign-in", form()).Status)
	assert.Equal(t, http.StatusSeeOther, b.PostForm("/sign-in", form()).Status)

	res := b.PostForm("/sign-in", form())
	assert.Equal(t, http.StatusTooManyRequests, res.Status)
	assert.Len(t, env.API.CallsTo(http.MethodPost, "/auth/admin/sign-in"), 2)
}

func TestBodyLimit(t *testing.T) {
	mw := DefaultMiddlewareConfig()
	mw.MaxBodyBytes = 16

	var reached int
	h := NewMiddleware("admin", mw).BodyLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		if _, err := io.ReadAll(r.Body); err != nil {
			var tooLarge *http.MaxBytesError
			assert.True(t, errors.As(err, &tooLarge))
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	post := func(body string, announced bool) int {
		req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body))
		if !announced {
			req.ContentLength = -1
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, post("small body", true))
	assert.Equal(t, 1, reached)

	assert.Equal(t, http.StatusRequestEntityTooLarge, post(strings.Repeat("x", 17), true))
	assert.Equal(t, 1, reached, "announced oversize bodies never reach the handler")

	assert.Equal(t, http.StatusRequestEntityTooLarge, post(strings.Repeat("x", 17), false))
	assert.Equal(t, 2, reached)
}

func TestNewMiddleware_DefaultBodyLimit(t *testing.T) {
	m := NewMiddleware("portal", &MiddlewareConfig{})
	assert.Equal(t, DefaultMiddlewareConfig().MaxBodyBytes, m.config.MaxBodyBytes)
}
