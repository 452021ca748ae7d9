// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"context"

	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/query"
)

// Option is one entry of a select or datalist.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Choices are the known authors and categories offered by the library
// filters and the book form.
type Choices struct {
	Authors    []models.AuthorLite
	Categories []models.Category
}

// choices loads the author and category lists. They only help the user pick
// a value, so a failed read is logged and leaves the list empty.
func (h *Handler) choices(ctx context.Context, actor mutation.Actor) Choices {
	var c Choices

	authors, err := query.Fetch(ctx, h.Queries, query.Key(actor.Scope, query.ResourceAuthorsLite), func(ctx context.Context) ([]models.AuthorLite, error) {
		return h.api.ListAuthorsLite(ctx, actor.Token)
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load authors")
	}
	c.Authors = authors

	categories, err := query.Fetch(ctx, h.Queries, query.Key(actor.Scope, query.ResourceCategories), func(ctx context.Context) ([]models.Category, error) {
		return h.api.ListCategories(ctx, actor.Token)
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load categories")
	}
	c.Categories = categories

	return c
}

// AuthorOptions lists the authors with selected marked. An id that is not
// among them is kept as its own option so the active filter stays visible.
func (c Choices) AuthorOptions(selected string) []Option {
	opts := make([]Option, 0, len(c.Authors)+1)
	for _, a := range c.Authors {
		opts = append(opts, Option{Value: a.ID, Label: a.FullName, Selected: a.ID == selected})
	}
	return withSelected(opts, selected)
}

// CategoryOptions lists the categories with selected marked.
func (c Choices) CategoryOptions(selected string) []Option {
	opts := make([]Option, 0, len(c.Categories)+1)
	for _, cat := range c.Categories {
		opts = append(opts, Option{Value: cat.ID, Label: cat.Name, Selected: cat.ID == selected})
	}
	return withSelected(opts, selected)
}

func withSelected(opts []Option, selected string) []Option {
	if selected == "" {
		return opts
	}
	for _, o := range opts {
		if o.Selected {
			return opts
		}
	}
	return append(opts, Option{Value: selected, Label: selected, Selected: true})
}
