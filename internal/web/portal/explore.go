// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package portal

import (
	"context"
	"net/http"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/web"
)

var exploreFilters = []string{"q", "categoryId"}

// CategoryChip is one category filter link.
type CategoryChip struct {
	Name   string
	Href   string
	Active bool
}

// ExplorePage is the data of the explore template.
type ExplorePage struct {
	List              render.List[models.PublishedBook]
	AllCategoriesHref string
	Categories        []CategoryChip
}

// Explore lists published books, filtered by search text and category.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	state := querystate.Parse(r.URL.Query(), exploreFilters...)
	if web.Canonical(w, r, state) {
		return
	}

	actor := h.Actor(r)
	key := query.Key(actor.Scope, query.ResourceBooks).Append(state.KeyParts()...)
	page, err := query.Fetch(r.Context(), h.Queries, key, func(ctx context.Context) (*models.Page[models.PublishedBook], error) {
		return h.api.ListPublishedBooks(ctx, actor.Token, apiclient.PublishedBooksQuery{
			Page:       state.Page(),
			Limit:      h.pageLimit,
			Q:          state.Get("q"),
			CategoryID: state.Get("categoryId"),
		})
	})

	data := ExplorePage{
		List:              render.NewList(state, page, "Nenhum livro encontrado."),
		AllCategoriesHref: HomePath + "?" + state.WithFilters(map[string]string{"categoryId": ""}).Encode(),
	}
	view := h.View(r, "Explorar", "explore", nil)
	if err != nil && h.ListError(w, r, err, &view) {
		return
	}

	// Chips are optional; a failed read only hides them.
	categories, err := query.Fetch(r.Context(), h.Queries, query.Key(actor.Scope, query.ResourceTopCategories), func(ctx context.Context) ([]models.Category, error) {
		return h.api.TopCategories(ctx, actor.Token)
	})
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load top categories")
	}
	data.Categories = categoryChips(state, categories)

	view.Data = data
	h.Render(w, http.StatusOK, "explore", view)
}

// categoryChips links every category to the current search on page 1.
func categoryChips(state querystate.State, categories []models.Category) []CategoryChip {
	selected := state.Get("categoryId")
	chips := make([]CategoryChip, 0, len(categories))
	for _, c := range categories {
		chips = append(chips, CategoryChip{
			Name:   c.Name,
			Href:   HomePath + "?" + state.WithFilters(map[string]string{"categoryId": c.ID}).Encode(),
			Active: c.ID == selected,
		})
	}
	return chips
}
