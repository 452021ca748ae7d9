// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"context"
	"net/http"

	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// AuthAPI is the part of the API client behind sign in and the current user.
type AuthAPI interface {
	VerifyMagicLink(ctx context.Context, code, redirect string) (string, error)
	SignOut(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*models.User, error)
}

// Base holds what every handler of an application needs: templates,
// sessions, the query client and the command set.
type Base struct {
	App      string
	Renderer *render.Renderer
	Sessions *session.Manager
	Queries  *query.Client
	Commands *mutation.Commands
	Identity AuthAPI

	// SignInPath and HomePath are where auth failures and successful sign
	// ins land.
	SignInPath string
	HomePath   string
}

type userContextKey struct{}

// ContextWithUser attaches the signed-in user to ctx.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the signed-in user set by RequireUser, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey{}).(*models.User)
	return u
}

// Actor returns the API token and cache scope of the request's session.
func (b *Base) Actor(r *http.Request) mutation.Actor {
	s := session.FromContext(r.Context())
	if s == nil {
		return mutation.Actor{}
	}
	return mutation.Actor{Token: s.APIToken, Scope: s.Scope()}
}

// View assembles the common page data: user, CSRF token, flashed toasts and
// the network warning.
func (b *Base) View(r *http.Request, title, active string, data interface{}) render.View {
	ctx := r.Context()
	v := render.View{
		Title:     title,
		App:       b.App,
		Active:    active,
		User:      UserFromContext(ctx),
		CSRFToken: session.TokenFromContext(ctx),
		Toasts:    b.Sessions.PopFlash(ctx),
		Data:      data,
	}
	if t, ok := b.Queries.Warning().Toast(); ok {
		v.Warning = &t
	}
	return v
}

// Render writes page with status.
func (b *Base) Render(w http.ResponseWriter, status int, page string, v render.View) {
	b.Renderer.HTML(w, status, page, v)
}

// Flash queues t for the next rendered page.
func (b *Base) Flash(w http.ResponseWriter, r *http.Request, t toast.Toast) {
	if err := b.Sessions.AddFlash(r.Context(), w, t); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to flash toast")
	}
}

// Redirect answers with 303 to "to".
func (b *Base) Redirect(w http.ResponseWriter, r *http.Request, to string) {
	redirect(w, r, to)
}

// RequireUser lets only signed-in sessions through and attaches the
// current user, read through the query cache with the auth freshness
// window. allow, when set, gates the user's role; rejected users are sent
// to /forbidden.
func (b *Base) RequireUser(allow func(models.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s == nil || !s.Authenticated() {
				redirect(w, r, b.SignInPath)
				return
			}

			user, err := query.Me(r.Context(), b.Queries, s.Scope(), func(ctx context.Context) (*models.User, error) {
				return b.Identity.Me(ctx, s.APIToken)
			})
			if err != nil {
				if b.HandleAuthError(w, r, err) {
					return
				}
				logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load current user")
				http.Error(w, toast.FallbackUnexpected, http.StatusBadGateway)
				return
			}

			if allow != nil && !allow(user.Role) {
				logging.NewSecurityLogger().LogEvent(r.Context(), &logging.SecurityEvent{
					Event:     "forbidden",
					Email:     user.Email,
					UserID:    user.ID,
					SessionID: s.ID,
					Reason:    "role " + string(user.Role),
				})
				redirect(w, r, ForbiddenPath)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}
