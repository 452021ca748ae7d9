// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package portal

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/web"
)

// Application paths.
const (
	App        = "portal"
	SignInPath = "/sign-in"
	HomePath   = "/explore"
)

// DefaultPageLimit is the explore page size when Config leaves it unset.
const DefaultPageLimit = 15

// API is the part of the Book Wise client the portal reads through.
type API interface {
	web.AuthAPI
	SignInMember(ctx context.Context, email string) error
	ListPublishedBooks(ctx context.Context, token string, q apiclient.PublishedBooksQuery) (*models.Page[models.PublishedBook], error)
	TopCategories(ctx context.Context, token string) ([]models.Category, error)
	ListEvaluations(ctx context.Context, token, bookID string, page, limit int) (*models.Page[models.Evaluation], error)
}

var _ API = (*apiclient.Client)(nil)

// Config configures the portal application.
type Config struct {
	Version     string
	CallbackURL string
	Middleware  *web.MiddlewareConfig

	// PageLimit is the number of books per explore page.
	PageLimit int
}

// Handler serves the portal pages.
type Handler struct {
	*web.Base
	api       API
	auth      *web.Auth
	pageLimit int
}

// NewHandler creates the portal handlers.
func NewHandler(base *web.Base, api API, cfg Config) *Handler {
	limit := cfg.PageLimit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return &Handler{
		Base:      base,
		api:       api,
		auth:      web.NewAuth(base, api.SignInMember, cfg.CallbackURL),
		pageLimit: limit,
	}
}

// New assembles the portal application.
func New(cfg Config, deps web.Deps, api API) http.Handler {
	base := web.NewBase(App, deps, api, SignInPath, HomePath)
	h := NewHandler(base, api, cfg)
	mw := web.NewMiddleware(App, cfg.Middleware)

	return web.NewRouter(web.RouterConfig{
		App:        App,
		Version:    cfg.Version,
		Sessions:   deps.Sessions,
		CSRF:       deps.CSRF,
		Middleware: mw,
	}, func(r chi.Router) {
		h.Routes(r, mw)
	})
}

// Routes registers the portal pages.
func (h *Handler) Routes(r chi.Router, mw *web.Middleware) {
	// Authentication
	r.Get(SignInPath, h.auth.SignInPage)
	r.With(mw.RateLimitAuth()).Post(SignInPath, h.auth.SignIn)
	r.Get("/sign-up", h.SignUpPage)
	r.With(mw.RateLimitAuth()).Post("/sign-up", h.SignUp)
	r.Get("/auth/callback", h.auth.Callback)
	r.Get("/auth/link", h.auth.Callback)
	r.Post("/sign-out", h.auth.SignOut)
	r.Get(web.ForbiddenPath, h.Forbidden)
	r.Post("/toasts/network/dismiss", h.DismissWarning)

	// Any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser(nil))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, HomePath, http.StatusFound)
		})
		r.Get("/explore", h.Explore)
		r.Get("/books/{id}/evaluations", h.Evaluations)
		r.Post("/books/{id}/evaluations", h.Evaluate)
		r.Get("/profile", h.Profile)
	})
}

// Forbidden is where 403 responses land.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	if u := h.CurrentUser(r); u != nil {
		r = r.WithContext(web.ContextWithUser(r.Context(), u))
	}
	h.Render(w, http.StatusForbidden, "forbidden", h.View(r, "Acesso negado", "", nil))
}

// Profile shows the signed-in user.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	h.Render(w, http.StatusOK, "profile", h.View(r, "Perfil", "profile", nil))
}
