// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/G-Villarinho/book-wise/internal/models"
)

// AuthorsQuery filters the authors listing.
type AuthorsQuery struct {
	Page     int
	FullName string
	AuthorID string
}

// ListAuthors fetches a page of authors.
func (c *Client) ListAuthors(ctx context.Context, token string, q AuthorsQuery) (*models.Page[models.Author], error) {
	query := params{}.num("page", q.Page).str("fullName", q.FullName).str("authorId", q.AuthorID)
	return getJSON[models.Page[models.Author]](ctx, c, token, "GET /authors", "/authors", url.Values(query))
}

// ListAuthorsLite fetches every author in compact form.
func (c *Client) ListAuthorsLite(ctx context.Context, token string) ([]models.AuthorLite, error) {
	out, err := getJSON[[]models.AuthorLite](ctx, c, token, "GET /authors/lite", "/authors/lite", nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

// CreateAuthor creates an author. The multipart body is written through a
// pipe, so the client never holds a second copy of the avatar.
func (c *Client) CreateAuthor(ctx context.Context, token string, payload models.CreateAuthorPayload) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeAuthorForm(mw, payload)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
	}()

	_, err := c.do(ctx, &request{
		endpoint:    "POST /authors",
		method:      http.MethodPost,
		path:        "/authors",
		body:        pr,
		contentType: mw.FormDataContentType(),
		token:       token,
	})
	// Unblock the writer if the request ended before draining the pipe.
	_ = pr.Close()
	return err
}

func writeAuthorForm(mw *multipart.Writer, payload models.CreateAuthorPayload) error {
	fields := [][2]string{
		{"fullName", payload.FullName},
		{"nationality", payload.Nationality},
		{"biography", payload.Biography},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if payload.Avatar == nil {
		return nil
	}
	part, err := mw.CreateFormFile("avatar_author", payload.AvatarFilename)
	if err != nil {
		return fmt.Errorf("create avatar part: %w", err)
	}
	if _, err := io.Copy(part, payload.Avatar); err != nil {
		return fmt.Errorf("stream avatar: %w", err)
	}
	return nil
}

// DeleteAuthor removes an author.
func (c *Client) DeleteAuthor(ctx context.Context, token, authorID string) error {
	return c.send(ctx, token, "DELETE /authors/{id}", http.MethodDelete, "/authors/"+url.PathEscape(authorID), nil)
}
