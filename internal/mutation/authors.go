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

// CreateAuthor creates an author and invalidates both author listings.
func (c *Commands) CreateAuthor(ctx context.Context, actor Actor, payload models.CreateAuthorPayload) (toast.Toast, error) {
	if err := validate(&payload); err != nil {
		return toast.Toast{}, err
	}
	return c.run(ctx, "create_author", "Autor criado com sucesso!",
		func() error { return c.api.CreateAuthor(ctx, actor.Token, payload) },
		func() {
			c.invalidate(actor.Scope, query.ResourceAuthors)
			c.invalidate(actor.Scope, query.ResourceAuthorsLite)
		},
	)
}

// DeleteAuthor removes an author and invalidates both author listings.
func (c *Commands) DeleteAuthor(ctx context.Context, actor Actor, authorID string) (toast.Toast, error) {
	return c.run(ctx, "delete_author", "Autor deletado com sucesso.",
		func() error { return c.api.DeleteAuthor(ctx, actor.Token, authorID) },
		func() {
			c.invalidate(actor.Scope, query.ResourceAuthors)
			c.invalidate(actor.Scope, query.ResourceAuthorsLite)
		},
	)
}
