// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"context"
	"net/http"

	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
)

// Deps are the services an application is assembled from. Both apps share
// the query client and commands; sessions, CSRF and templates are per app.
type Deps struct {
	Renderer *render.Renderer
	Sessions *session.Manager
	CSRF     *session.CSRF
	Queries  *query.Client
	Commands *mutation.Commands
}

// NewBase creates the handler base of app.
func NewBase(app string, deps Deps, identity AuthAPI, signInPath, homePath string) *Base {
	return &Base{
		App:        app,
		Renderer:   deps.Renderer,
		Sessions:   deps.Sessions,
		Queries:    deps.Queries,
		Commands:   deps.Commands,
		Identity:   identity,
		SignInPath: signInPath,
		HomePath:   homePath,
	}
}

// Canonical redirects (302) to the canonical URL of state when the request
// carried a query string in another form, such as a raw filter submission
// or status=all. It reports whether it redirected.
func Canonical(w http.ResponseWriter, r *http.Request, state querystate.State) bool {
	if r.URL.RawQuery == "" {
		return false
	}
	canonical := state.Encode()
	if r.URL.RawQuery == canonical {
		return false
	}
	http.Redirect(w, r, r.URL.Path+"?"+canonical, http.StatusFound)
	return true
}

// CurrentUser returns the signed-in user of a route outside RequireUser,
// or nil when there is none or it cannot be loaded.
func (b *Base) CurrentUser(r *http.Request) *models.User {
	if u := UserFromContext(r.Context()); u != nil {
		return u
	}
	s := session.FromContext(r.Context())
	if !s.Authenticated() {
		return nil
	}
	user, err := query.Me(r.Context(), b.Queries, s.Scope(), func(ctx context.Context) (*models.User, error) {
		return b.Identity.Me(ctx, s.APIToken)
	})
	if err != nil {
		return nil
	}
	return user
}
