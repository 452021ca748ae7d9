// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package portal

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/web"
)

const evaluationsLimit = 10

// errBookNotFound means no published book has the requested id.
var errBookNotFound = errors.New("book not found")

// EvaluationsPage is the data of the evaluations template.
type EvaluationsPage struct {
	BookID string
	Book   *models.PublishedBook
	List   render.List[models.Evaluation]
	Form   render.Form
}

func bookPath(id string) string {
	return "/books/" + url.PathEscape(id) + "/evaluations?page=1"
}

// Evaluations shows a book with its paginated evaluations and the
// evaluation form.
func (h *Handler) Evaluations(w http.ResponseWriter, r *http.Request) {
	state := querystate.Parse(r.URL.Query())
	if web.Canonical(w, r, state) {
		return
	}
	h.renderEvaluations(w, r, http.StatusOK, state, render.NewForm(nil), "")
}

// Evaluate rates and reviews the book as the signed-in member.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rate, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("rate")))
	payload := models.EvaluateBookPayload{
		BookID:      id,
		Rate:        rate,
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}

	t, err := h.Commands.EvaluateBook(r.Context(), h.Actor(r), payload)
	if err != nil {
		fields, banner, handled := h.FormError(w, r, err, t)
		if handled {
			return
		}
		form := render.NewForm(map[string]string{
			"rate":        r.PostFormValue("rate"),
			"description": r.PostFormValue("description"),
		})
		form.Errors = fields
		h.renderEvaluations(w, r, http.StatusUnprocessableEntity, refererState(r), form, banner)
		return
	}

	h.Flash(w, r, t)
	h.Redirect(w, r, web.RefererPath(r, bookPath(id)))
}

// refererState is the page state of the evaluations page the form was
// posted from.
func refererState(r *http.Request) querystate.State {
	var raw string
	if back := web.RefererPath(r, ""); strings.Contains(back, "?") {
		raw = back[strings.IndexByte(back, '?')+1:]
	}
	values, _ := url.ParseQuery(raw)
	return querystate.Parse(values)
}

func (h *Handler) renderEvaluations(w http.ResponseWriter, r *http.Request, status int, state querystate.State, form render.Form, banner string) {
	id := chi.URLParam(r, "id")
	actor := h.Actor(r)

	book, err := h.publishedBook(r.Context(), actor, id)
	if err != nil {
		msg := apiclient.UserMessage(err, toast.FallbackUnexpected)
		if errors.Is(err, errBookNotFound) {
			msg = "Livro não encontrado."
		}
		h.HandleError(w, r, err, toast.Error(msg), HomePath)
		return
	}

	key := query.Key(actor.Scope, query.ResourceEvaluations, id).Append(strconv.Itoa(state.Page()))
	page, err := query.Fetch(r.Context(), h.Queries, key, func(ctx context.Context) (*models.Page[models.Evaluation], error) {
		return h.api.ListEvaluations(ctx, actor.Token, id, state.Page(), evaluationsLimit)
	})

	data := EvaluationsPage{
		BookID: id,
		Book:   book,
		List:   render.NewList(state, page, "Nenhuma avaliação ainda."),
		Form:   form,
	}
	view := h.View(r, book.Title, "explore", nil)
	if banner != "" {
		view.Toasts = append(view.Toasts, toast.Error(banner))
	}
	if err != nil && h.ListError(w, r, err, &view) {
		return
	}
	view.Data = data
	h.Render(w, status, "evaluations", view)
}

// publishedBook looks the book up in the explore pages cached for the
// session. On a miss it walks the unfiltered published listing, caching
// each page under the key the explore page uses, until the book shows up.
func (h *Handler) publishedBook(ctx context.Context, actor mutation.Actor, id string) (*models.PublishedBook, error) {
	for _, item := range h.Queries.Store().Entries(query.Key(actor.Scope, query.ResourceBooks)) {
		if page, ok := item.Value.(*models.Page[models.PublishedBook]); ok {
			if book := findPublished(page, id); book != nil {
				return book, nil
			}
		}
	}

	for n := 1; ; n++ {
		state := querystate.Parse(url.Values{"page": {strconv.Itoa(n)}}, exploreFilters...)
		key := query.Key(actor.Scope, query.ResourceBooks).Append(state.KeyParts()...)
		page, err := query.Fetch(ctx, h.Queries, key, func(ctx context.Context) (*models.Page[models.PublishedBook], error) {
			return h.api.ListPublishedBooks(ctx, actor.Token, apiclient.PublishedBooksQuery{Page: n, Limit: h.pageLimit})
		})
		if err != nil {
			return nil, err
		}
		if book := findPublished(page, id); book != nil {
			return book, nil
		}
		if n >= page.TotalPages {
			return nil, errBookNotFound
		}
	}
}

func findPublished(page *models.Page[models.PublishedBook], id string) *models.PublishedBook {
	if page == nil {
		return nil
	}
	for i := range page.Data {
		if page.Data[i].ID == id {
			book := page.Data[i]
			return &book
		}
	}
	return nil
}
