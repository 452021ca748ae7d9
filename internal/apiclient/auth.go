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

// SignInAdmin asks the API to email an admin magic link.
func (c *Client) SignInAdmin(ctx context.Context, email string) error {
	return c.send(ctx, "", "POST /auth/admin/sign-in", http.MethodPost, "/auth/admin/sign-in", models.SignInPayload{Email: email})
}

// SignInMember asks the API to email a member magic link.
func (c *Client) SignInMember(ctx context.Context, email string) error {
	return c.send(ctx, "", "POST /auth/member/sign-in", http.MethodPost, "/auth/member/sign-in", models.SignInPayload{Email: email})
}

// VerifyMagicLink exchanges a magic-link code for an API session token. The
// API answers with a redirect and sets its session cookie; the redirect is
// not followed and the cookie value is returned.
func (c *Client) VerifyMagicLink(ctx context.Context, code, redirect string) (string, error) {
	query := url.Values{"code": {code}}
	if redirect != "" {
		query.Set("redirect", redirect)
	}
	resp, err := c.do(ctx, &request{
		endpoint:   "GET /auth/link",
		method:     http.MethodGet,
		path:       "/auth/link",
		query:      query,
		noRedirect: true,
	})
	if err != nil {
		return "", err
	}
	for _, ck := range resp.cookies {
		if ck.Name == c.cookieName && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", ErrNoSessionCookie
}

// SignOut ends the API session.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.send(ctx, token, "POST /auth/sign-out", http.MethodPost, "/auth/sign-out", nil)
}

// CreateMember registers a new member.
func (c *Client) CreateMember(ctx context.Context, payload models.CreateMemberPayload) error {
	return c.send(ctx, "", "POST /users/member", http.MethodPost, "/users/member", payload)
}

// Me fetches the signed-in user.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	return getJSON[models.User](ctx, c, token, "GET /users/me", "/users/me", nil)
}
