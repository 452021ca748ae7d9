// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/web"
)

// App is the application name used in sessions, metrics and templates.
const App = "admin"

// Paths the auth flow lands on.
const (
	SignInPath = "/sign-in"
	HomePath   = "/admins"
)

// API is the part of the Book Wise API the dashboard reads from. Writes go
// through mutation.Commands.
type API interface {
	web.AuthAPI
	SignInAdmin(ctx context.Context, email string) error
	ListAdmins(ctx context.Context, token string, q apiclient.AdminsQuery) (*models.Page[models.Admin], error)
	GetAdmin(ctx context.Context, token, adminID string) (*models.Admin, error)
	ListAuthors(ctx context.Context, token string, q apiclient.AuthorsQuery) (*models.Page[models.Author], error)
	ListAuthorsLite(ctx context.Context, token string) ([]models.AuthorLite, error)
	ListCategories(ctx context.Context, token string) ([]models.Category, error)
	ListBooks(ctx context.Context, token string, q apiclient.BooksQuery) (*models.Page[models.Book], error)
	SearchExternalBooks(ctx context.Context, token, q string, page int) ([]models.ExternalBook, error)
	GetExternalBook(ctx context.Context, token, externalID string) (*models.ExternalBook, error)
}

var _ API = (*apiclient.Client)(nil)

// Config holds the settings of the admin application.
type Config struct {
	Version string

	// CallbackURL is the public URL of /auth/callback, forwarded to the API
	// when a magic link is verified.
	CallbackURL string

	Middleware *web.MiddlewareConfig

	// Metrics mounts /metrics on this listener.
	Metrics bool
}

// Handler serves the admin dashboard.
type Handler struct {
	*web.Base
	api  API
	auth *web.Auth
}

// NewHandler creates the dashboard handlers.
func NewHandler(base *web.Base, api API, callbackURL string) *Handler {
	return &Handler{
		Base: base,
		api:  api,
		auth: web.NewAuth(base, api.SignInAdmin, callbackURL),
	}
}

// New assembles the admin application.
func New(cfg Config, deps web.Deps, api API) http.Handler {
	base := web.NewBase(App, deps, api, SignInPath, HomePath)
	h := NewHandler(base, api, cfg.CallbackURL)
	mw := web.NewMiddleware(App, cfg.Middleware)

	return web.NewRouter(web.RouterConfig{
		App:        App,
		Version:    cfg.Version,
		Sessions:   deps.Sessions,
		CSRF:       deps.CSRF,
		Middleware: mw,
		Metrics:    cfg.Metrics,
	}, func(r chi.Router) {
		h.Routes(r, mw)
	})
}

// Routes registers the dashboard pages.
func (h *Handler) Routes(r chi.Router, mw *web.Middleware) {
	// Authentication
	r.Get(SignInPath, h.auth.SignInPage)
	r.With(mw.RateLimitAuth()).Post(SignInPath, h.auth.SignIn)
	r.Get("/auth/callback", h.auth.Callback)
	r.Get("/auth/link", h.auth.Callback)
	r.Post("/sign-out", h.auth.SignOut)
	r.Get(web.ForbiddenPath, h.Forbidden)
	r.Post("/toasts/network/dismiss", h.DismissWarning)

	// Dashboard, admins and owners only
	r.Group(func(r chi.Router) {
		r.Use(h.RequireUser(models.Role.CanAdminister))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, HomePath, http.StatusFound)
		})

		r.Route("/admins", func(r chi.Router) {
			r.Get("/", h.ListAdmins)
			r.Post("/", h.CreateAdmin)
			r.Get("/new", h.NewAdmin)
			r.Get("/{id}/edit", h.EditAdmin)
			r.Post("/{id}", h.UpdateAdmin)
			r.Post("/{id}/block", h.BlockAdmin)
			r.Post("/{id}/unblock", h.UnblockAdmin)
			r.Post("/{id}/delete", h.DeleteAdmin)
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/", h.ListAuthors)
			r.Post("/", h.CreateAuthor)
			r.Get("/new", h.NewAuthor)
			r.Post("/{id}/delete", h.DeleteAuthor)
		})

		r.Route("/library", func(r chi.Router) {
			r.Get("/", h.ListLibrary)
			r.Post("/{id}/publish", h.PublishBook)
			r.Post("/{id}/unpublish", h.UnpublishBook)
			r.Post("/{id}/delete", h.DeleteBook)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.SearchCatalog)
			r.Get("/{externalId}", h.NewBook)
			r.Post("/{externalId}", h.CreateBook)
		})
	})
}

// Forbidden is where members and 403 responses land.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	if u := h.CurrentUser(r); u != nil {
		r = r.WithContext(web.ContextWithUser(r.Context(), u))
	}
	h.Render(w, http.StatusForbidden, "forbidden", h.View(r, "Acesso negado", "", nil))
}

// done flashes the toast of a finished row action and returns to the list
// the form was posted from.
func (h *Handler) done(w http.ResponseWriter, r *http.Request, fallback string, run func() (toast.Toast, error)) {
	back := web.RefererPath(r, fallback)
	t, err := run()
	if err != nil {
		h.HandleError(w, r, err, t, back)
		return
	}
	h.Flash(w, r, t)
	h.Redirect(w, r, back)
}
