// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/web"
)

const catalogFilter = "authorOrTitle"

// CatalogPage is the data of the catalog template.
type CatalogPage struct {
	State querystate.State
	Books []models.ExternalBook
	Pager render.Pager
}

// BookForm is the data of the book-form template.
type BookForm struct {
	ExternalID string
	Form       render.Form
	Authors    []string
	Categories []string
	Choices    Choices
	Error      string
}

// SearchCatalog searches the external catalog. Nothing is fetched until a
// search term is given.
func (h *Handler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	state := querystate.Parse(r.URL.Query(), catalogFilter)
	if web.Canonical(w, r, state) {
		return
	}

	data := CatalogPage{State: state}
	view := h.View(r, "Catálogo", "catalog", nil)

	if term := state.Get(catalogFilter); term != "" {
		actor := h.Actor(r)
		key := query.Key(actor.Scope, query.ResourceCatalog).Append(state.KeyParts()...)
		books, err := query.Fetch(r.Context(), h.Queries, key, func(ctx context.Context) ([]models.ExternalBook, error) {
			return h.api.SearchExternalBooks(ctx, actor.Token, term, state.Page())
		})
		if err != nil && h.ListError(w, r, err, &view) {
			return
		}
		data.Books = books
		data.Pager = render.NewPager(state, len(books) == 0)
	}

	view.Data = data
	h.Render(w, http.StatusOK, "catalog", view)
}

// NewBook renders the create-book form prefilled from the external catalog.
func (h *Handler) NewBook(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")
	actor := h.Actor(r)

	book, err := query.Fetch(r.Context(), h.Queries, query.Key(actor.Scope, query.ResourceExternalBook, externalID), func(ctx context.Context) (*models.ExternalBook, error) {
		return h.api.GetExternalBook(ctx, actor.Token, externalID)
	})
	if err != nil {
		msg := apiclient.UserMessage(err, toast.FallbackUnexpected)
		if apiclient.IsNotFound(err) {
			msg = "Livro não encontrado no catálogo."
		}
		h.HandleError(w, r, err, toast.Error(msg), "/catalog")
		return
	}

	payload := models.CreateBookPayloadFromExternal(book)
	h.Render(w, http.StatusOK, "book-form", h.View(r, "Adicionar livro", "catalog", BookForm{
		ExternalID: externalID,
		Form:       bookFormValues(&payload),
		Authors:    book.Authors,
		Categories: book.Categories,
		Choices:    h.choices(r.Context(), actor),
	}))
}

// CreateBook adds the book to the library. Blank author and category inputs
// are ignored.
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")
	if err := r.ParseForm(); err != nil {
		h.HandleError(w, r, err, toast.Error(toast.FallbackUnexpected), "/catalog/"+externalID)
		return
	}

	authors := nonBlank(r.PostForm["authors"])
	categories := nonBlank(r.PostForm["categories"])
	totalPages, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("totalPages")))

	payload := models.CreateBookPayload{
		ExternalBookID: externalID,
		Title:          strings.TrimSpace(r.PostFormValue("title")),
		TotalPages:     totalPages,
		Description:    strings.TrimSpace(r.PostFormValue("description")),
		CoverImageURL:  strings.TrimSpace(r.PostFormValue("coverImageURL")),
		Authors:        namedItems(authors),
		Categories:     namedItems(categories),
	}

	t, err := h.Commands.CreateBook(r.Context(), h.Actor(r), payload)
	if err != nil {
		fields, banner, handled := h.FormError(w, r, err, t)
		if handled {
			return
		}
		form := bookFormValues(&payload)
		form.Values["totalPages"] = r.PostFormValue("totalPages")
		form.Errors = fields
		h.Render(w, http.StatusUnprocessableEntity, "book-form", h.View(r, "Adicionar livro", "catalog", BookForm{
			ExternalID: externalID,
			Form:       form,
			Authors:    authors,
			Categories: categories,
			Choices:    h.choices(r.Context(), h.Actor(r)),
			Error:      banner,
		}))
		return
	}

	h.Flash(w, r, t)
	h.Redirect(w, r, libraryPath)
}

func bookFormValues(p *models.CreateBookPayload) render.Form {
	pages := ""
	if p.TotalPages > 0 {
		pages = strconv.Itoa(p.TotalPages)
	}
	return render.NewForm(map[string]string{
		"title":         p.Title,
		"totalPages":    pages,
		"coverImageURL": p.CoverImageURL,
		"description":   p.Description,
	})
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func namedItems(names []string) []models.NamedItem {
	items := make([]models.NamedItem, 0, len(names))
	for _, n := range names {
		items = append(items, models.NamedItem{Name: n})
	}
	return items
}
