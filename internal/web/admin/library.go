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
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/web"
)

const libraryPath = "/library"

var libraryFilters = []string{"title", "bookId", "authorId", "categoryId"}

var libraryColumns = []string{"", "Título", "Autores", "Categorias", "Páginas", "Avaliações", "Status", "Ações"}

// LibraryPage is the data of the library template.
type LibraryPage struct {
	List    render.List[models.Book]
	Choices Choices
}

// ListLibrary renders the library of books.
func (h *Handler) ListLibrary(w http.ResponseWriter, r *http.Request) {
	state := querystate.Parse(r.URL.Query(), libraryFilters...)
	if web.Canonical(w, r, state) {
		return
	}

	actor := h.Actor(r)
	key := query.Key(actor.Scope, query.ResourceLibrary).Append(state.KeyParts()...)
	page, err := query.Fetch(r.Context(), h.Queries, key, func(ctx context.Context) (*models.Page[models.Book], error) {
		return h.api.ListBooks(ctx, actor.Token, apiclient.BooksQuery{
			Page:       state.Page(),
			Title:      state.Get("title"),
			BookID:     state.Get("bookId"),
			AuthorID:   state.Get("authorId"),
			CategoryID: state.Get("categoryId"),
		})
	})

	data := LibraryPage{
		List:    render.NewList(state, page, "Nenhum livro encontrado.", libraryColumns...),
		Choices: h.choices(r.Context(), actor),
	}
	view := h.View(r, "Biblioteca", "library", nil)
	if err != nil && h.ListError(w, r, err, &view) {
		return
	}
	view.Data = data
	h.Render(w, http.StatusOK, "library", view)
}

// PublishBook makes the book visible in the portal.
func (h *Handler) PublishBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, libraryPath, func() (toast.Toast, error) {
		return h.Commands.PublishBook(r.Context(), h.Actor(r), id)
	})
}

// UnpublishBook hides the book from the portal.
func (h *Handler) UnpublishBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, libraryPath, func() (toast.Toast, error) {
		return h.Commands.UnpublishBook(r.Context(), h.Actor(r), id)
	})
}

// DeleteBook removes the book from the library.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, libraryPath, func() (toast.Toast, error) {
		return h.Commands.DeleteBook(r.Context(), h.Actor(r), id)
	})
}
