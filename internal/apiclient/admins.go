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

// AdminsQuery filters the admins listing. Status "all" or empty means no
// status filter.
type AdminsQuery struct {
	Page     int
	FullName string
	Status   string
}

// ListAdmins fetches a page of admins.
func (c *Client) ListAdmins(ctx context.Context, token string, q AdminsQuery) (*models.Page[models.Admin], error) {
	status := ""
	if st := models.ParseStatus(q.Status); st != "" {
		status = string(st)
	}
	query := params{}.num("page", q.Page).str("fullName", q.FullName).str("status", status)
	return getJSON[models.Page[models.Admin]](ctx, c, token, "GET /users/admins", "/users/admins", url.Values(query))
}

// GetAdmin fetches a single admin.
func (c *Client) GetAdmin(ctx context.Context, token, adminID string) (*models.Admin, error) {
	return getJSON[models.Admin](ctx, c, token, "GET /users/admins/{id}", "/users/admins/"+url.PathEscape(adminID), nil)
}

// CreateAdmin invites a new admin.
func (c *Client) CreateAdmin(ctx context.Context, token string, payload models.CreateAdminPayload) error {
	return c.send(ctx, token, "POST /users/admin", http.MethodPost, "/users/admin", payload)
}

// UpdateAdmin changes an admin's name and email.
func (c *Client) UpdateAdmin(ctx context.Context, token string, payload models.UpdateAdminPayload) error {
	return c.send(ctx, token, "PUT /users/admins", http.MethodPut, "/users/admins", payload)
}

// BlockAdmin blocks an admin.
func (c *Client) BlockAdmin(ctx context.Context, token, adminID string) error {
	return c.send(ctx, token, "PATCH /users/admin/block", http.MethodPatch, "/users/admin/block", models.AdminIDPayload{AdminID: adminID})
}

// UnblockAdmin unblocks an admin.
func (c *Client) UnblockAdmin(ctx context.Context, token, adminID string) error {
	return c.send(ctx, token, "PATCH /users/admins/unblock", http.MethodPatch, "/users/admins/unblock", models.AdminIDPayload{AdminID: adminID})
}

// DeleteAdmin removes an admin.
func (c *Client) DeleteAdmin(ctx context.Context, token, adminID string) error {
	return c.send(ctx, token, "DELETE /users/admins/{id}", http.MethodDelete, "/users/admins/"+url.PathEscape(adminID), nil)
}
