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

// CreateAdmin invites an admin and invalidates the admins listing.
func (c *Commands) CreateAdmin(ctx context.Context, actor Actor, payload models.CreateAdminPayload) (toast.Toast, error) {
	if err := validate(&payload); err != nil {
		return toast.Toast{}, err
	}
	return c.run(ctx, "create_admin", "Administrador criado com sucesso.",
		func() error { return c.api.CreateAdmin(ctx, actor.Token, payload) },
		func() { c.invalidate(actor.Scope, query.ResourceAdmins) },
	)
}

// UpdateAdmin edits an admin, invalidates the listing and drops the cached
// detail entry.
func (c *Commands) UpdateAdmin(ctx context.Context, actor Actor, payload models.UpdateAdminPayload) (toast.Toast, error) {
	if err := validate(&payload); err != nil {
		return toast.Toast{}, err
	}
	return c.run(ctx, "update_admin", "Administrador atualizado com sucesso.",
		func() error { return c.api.UpdateAdmin(ctx, actor.Token, payload) },
		func() {
			c.invalidate(actor.Scope, query.ResourceAdmins)
			c.store.Delete(query.Key(actor.Scope, query.ResourceAdmin, payload.AdminID))
		},
	)
}

// BlockAdmin blocks an admin and flips that row to blocked in every cached
// admins page.
func (c *Commands) BlockAdmin(ctx context.Context, actor Actor, adminID string) (toast.Toast, error) {
	return c.run(ctx, "block_admin", "Administrador bloqueado com sucesso.",
		func() error { return c.api.BlockAdmin(ctx, actor.Token, adminID) },
		func() { c.setAdminStatus(actor.Scope, adminID, models.StatusBlocked) },
	)
}

// UnblockAdmin unblocks an admin and flips that row to active in every
// cached admins page.
func (c *Commands) UnblockAdmin(ctx context.Context, actor Actor, adminID string) (toast.Toast, error) {
	return c.run(ctx, "unblock_admin", "Administrador desbloqueado com sucesso.",
		func() error { return c.api.UnblockAdmin(ctx, actor.Token, adminID) },
		func() { c.setAdminStatus(actor.Scope, adminID, models.StatusActive) },
	)
}

// DeleteAdmin removes an admin and invalidates the admins listing.
func (c *Commands) DeleteAdmin(ctx context.Context, actor Actor, adminID string) (toast.Toast, error) {
	return c.run(ctx, "delete_admin", "Administrador deletado com sucesso.",
		func() error { return c.api.DeleteAdmin(ctx, actor.Token, adminID) },
		func() {
			c.invalidate(actor.Scope, query.ResourceAdmins)
			c.store.Delete(query.Key(actor.Scope, query.ResourceAdmin, adminID))
		},
	)
}

func (c *Commands) setAdminStatus(scope, adminID string, status models.Status) {
	patchPages(c.store, scope, query.ResourceAdmins, func(p *models.Page[models.Admin]) bool {
		changed := false
		for i := range p.Data {
			if p.Data[i].ID == adminID {
				p.Data[i].Status = status
				changed = true
			}
		}
		return changed
	})
}
