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

// BooksQuery filters the admin library listing.
type BooksQuery struct {
	Page       int
	Title      string
	BookID     string
	AuthorID   string
	CategoryID string
}

// PublishedBooksQuery filters the portal explore listing.
type PublishedBooksQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID string
}

// ListBooks fetches a page of the library.
func (c *Client) ListBooks(ctx context.Context, token string, q BooksQuery) (*models.Page[models.Book], error) {
	query := params{}.num("page", q.Page).
		str("title", q.Title).
		str("bookId", q.BookID).
		str("authorId", q.AuthorID).
		str("categoryId", q.CategoryID)
	return getJSON[models.Page[models.Book]](ctx, c, token, "GET /books", "/books", url.Values(query))
}

// CreateBook adds a book to the library.
func (c *Client) CreateBook(ctx context.Context, token string, payload models.CreateBookRequest) error {
	return c.send(ctx, token, "POST /books", http.MethodPost, "/books", payload)
}

// PublishBook makes a book visible in the portal.
func (c *Client) PublishBook(ctx context.Context, token, bookID string) error {
	return c.send(ctx, token, "PATCH /books/{id}/publish", http.MethodPatch, "/books/"+url.PathEscape(bookID)+"/publish", nil)
}

// UnpublishBook hides a book from the portal.
func (c *Client) UnpublishBook(ctx context.Context, token, bookID string) error {
	return c.send(ctx, token, "PATCH /books/{id}/unpublish", http.MethodPatch, "/books/"+url.PathEscape(bookID)+"/unpublish", nil)
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, token, bookID string) error {
	return c.send(ctx, token, "DELETE /books/{id}", http.MethodDelete, "/books/"+url.PathEscape(bookID), nil)
}

// ListPublishedBooks fetches a page of published books for members.
func (c *Client) ListPublishedBooks(ctx context.Context, token string, q PublishedBooksQuery) (*models.Page[models.PublishedBook], error) {
	query := params{}.num("page", q.Page).num("limit", q.Limit).str("q", q.Q).str("categoryId", q.CategoryID)
	return getJSON[models.Page[models.PublishedBook]](ctx, c, token, "GET /books/published", "/books/published", url.Values(query))
}

// SearchExternalBooks searches the external catalog by author or title.
// The catalog is not paginated by the API beyond the page parameter; an
// empty result marks the last page.
func (c *Client) SearchExternalBooks(ctx context.Context, token, q string, page int) ([]models.ExternalBook, error) {
	query := url.Values{"q": {q}}
	if page > 0 {
		query.Set("page", itoa(page))
	}
	out, err := getJSON[[]models.ExternalBook](ctx, c, token, "GET /books/external/search", "/books/external/search", query)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// GetExternalBook fetches one catalog entry.
func (c *Client) GetExternalBook(ctx context.Context, token, externalID string) (*models.ExternalBook, error) {
	return getJSON[models.ExternalBook](ctx, c, token, "GET /books/external/{id}", "/books/external/"+url.PathEscape(externalID), nil)
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	out, err := getJSON[[]models.Category](ctx, c, token, "GET /categories", "/categories", nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// TopCategories fetches the most used categories.
func (c *Client) TopCategories(ctx context.Context, token string) ([]models.Category, error) {
	out, err := getJSON[[]models.Category](ctx, c, token, "GET /categories/top", "/categories/top", nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}
