// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/G-Villarinho/book-wise/internal/models"
)

// ListEvaluations fetches a page of a book's evaluations.
func (c *Client) ListEvaluations(ctx context.Context, token, bookID string, page, limit int) (*models.Page[models.Evaluation], error) {
	query := params{}.num("page", page).num("limit", limit)
	return getJSON[models.Page[models.Evaluation]](ctx, c, token,
		"GET /books/{id}/evaluations", "/books/"+url.PathEscape(bookID)+"/evaluations", url.Values(query))
}

// EvaluateBook rates and reviews a book as the signed-in member.
func (c *Client) EvaluateBook(ctx context.Context, token string, payload models.EvaluateBookPayload) error {
	return c.send(ctx, token, "POST /books/{id}/evaluations", http.MethodPost,
		"/books/"+url.PathEscape(payload.BookID)+"/evaluations", payload)
}
