// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package query

import (
	"context"

	"github.com/G-Villarinho/book-wise/internal/cache"
	"github.com/G-Villarinho/book-wise/internal/models"
)

// MeResource is the resource name of the signed-in user entry.
const MeResource = "me"

// MeKey returns the cache key of the signed-in user for a session scope.
func MeKey(scope string) cache.Key {
	return Key(scope, MeResource)
}

// Me returns the signed-in user, cached for the auth freshness window.
func Me(ctx context.Context, c *Client, scope string, fn func(context.Context) (*models.User, error)) (*models.User, error) {
	return Fetch(ctx, c, MeKey(scope), fn, Options{TTL: c.cfg.AuthFreshness})
}

// ForgetScope drops every cached entry of a session, used on sign-out.
func (c *Client) ForgetScope(scope string) int {
	return c.store.InvalidatePrefix(cache.NewKey(scope))
}
