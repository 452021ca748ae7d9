// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package mutation

import (
	"context"

	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// CreateBook adds a book to the library. The library listing and the
// author and category choices are invalidated, since the book may name new ones.
func (c *Commands) CreateBook(ctx context.Context, actor Actor, payload models.CreateBookPayload) (toast.Toast, error) {
	if err := validate(&payload); err != nil {
		return toast.Toast{}, err
	}
	return c.run(ctx, "create_book", "Livro criado com sucesso!",
		func() error { return c.api.CreateBook(ctx, actor.Token, payload.Request()) },
		func() {
			c.invalidate(actor.Scope, query.ResourceLibrary)
			c.invalidate(actor.Scope, query.ResourceAuthorsLite)
			c.invalidate(actor.Scope, query.ResourceCategories)
		},
	)
}

// PublishBook publishes a book and sets published on its cached library rows.
func (c *Commands) PublishBook(ctx context.Context, actor Actor, bookID string) (toast.Toast, error) {
	return c.run(ctx, "publish_book", "Livro publicado com sucesso.",
		func() error { return c.api.PublishBook(ctx, actor.Token, bookID) },
		func() { c.setPublished(actor.Scope, bookID, true) },
	)
}

// UnpublishBook unpublishes a book and clears published on its cached
// library rows.
func (c *Commands) UnpublishBook(ctx context.Context, actor Actor, bookID string) (toast.Toast, error) {
	return c.run(ctx, "unpublish_book", "Livro despublicado com sucesso.",
		func() error { return c.api.UnpublishBook(ctx, actor.Token, bookID) },
		func() { c.setPublished(actor.Scope, bookID, false) },
	)
}

// DeleteBook removes a book and invalidates the library listing.
func (c *Commands) DeleteBook(ctx context.Context, actor Actor, bookID string) (toast.Toast, error) {
	return c.run(ctx, "delete_book", "Livro deletado com sucesso da biblioteca",
		func() error { return c.api.DeleteBook(ctx, actor.Token, bookID) },
		func() { c.invalidate(actor.Scope, query.ResourceLibrary) },
	)
}

// EvaluateBook rates a book as the signed-in member. Cached explore pages
// mark the book as read and its evaluations are refetched.
func (c *Commands) EvaluateBook(ctx context.Context, actor Actor, payload models.EvaluateBookPayload) (toast.Toast, error) {
	if err := validate(&payload); err != nil {
		return toast.Toast{}, err
	}
	return c.run(ctx, "evaluate_book", "Avaliação enviada com sucesso!",
		func() error { return c.api.EvaluateBook(ctx, actor.Token, payload) },
		func() {
			patchPages(c.store, actor.Scope, query.ResourceBooks, func(p *models.Page[models.PublishedBook]) bool {
				changed := false
				for i := range p.Data {
					if p.Data[i].ID == payload.BookID && !p.Data[i].HasRead {
						p.Data[i].HasRead = true
						changed = true
					}
				}
				return changed
			})
			c.invalidate(actor.Scope, query.ResourceEvaluations, payload.BookID)
		},
	)
}

func (c *Commands) setPublished(scope, bookID string, published bool) {
	patchPages(c.store, scope, query.ResourceLibrary, func(p *models.Page[models.Book]) bool {
		changed := false
		for i := range p.Data {
			if p.Data[i].ID == bookID {
				p.Data[i].Published = published
				changed = true
			}
		}
		return changed
	})
}
