// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package mutation

import (
	"context"

	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// SignUpMember registers a member. Nothing is cached for anonymous visitors,
// so there is no cache effect.
func (c *Commands) SignUpMember(ctx context.Context, payload models.CreateMemberPayload) (toast.Toast, error) {
	if err := validate(&payload); err != nil {
		return toast.Toast{}, err
	}
	return c.run(ctx, "sign_up_member", "Cadastro efetuado com sucesso!",
		func() error { return c.api.CreateMember(ctx, payload) },
		nil,
	)
}
