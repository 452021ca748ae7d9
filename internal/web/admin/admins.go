// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/query"
	"github.com/G-Villarinho/book-wise/internal/querystate"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/web"
)

// adminFilters are the query parameters of the admins list, in key order.
var adminFilters = []string{"fullName", "status"}

var adminColumns = []string{"Nome", "E-mail", "Perfil", "Status", "Ações"}

// AdminForm is the data of the admin-form template.
type AdminForm struct {
	AdminID string
	Error   string
	Form    render.Form
}

// ListAdmins renders the filtered, paginated admins table.
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	state := querystate.Parse(r.URL.Query(), adminFilters...).
		Retain("status", func(v string) bool { return models.Status(v).Valid() })
	if web.Canonical(w, r, state) {
		return
	}

	actor := h.Actor(r)
	key := query.Key(actor.Scope, query.ResourceAdmins).Append(state.KeyParts()...)
	page, err := query.Fetch(r.Context(), h.Queries, key, func(ctx context.Context) (*models.Page[models.Admin], error) {
		return h.api.ListAdmins(ctx, actor.Token, apiclient.AdminsQuery{
			Page:     state.Page(),
			FullName: state.Get("fullName"),
			Status:   state.Get("status"),
		})
	})

	list := render.NewList(state, page, "Nenhum administrador encontrado.", adminColumns...)
	view := h.View(r, "Administradores", "admins", nil)
	if err != nil && h.ListError(w, r, err, &view) {
		return
	}
	view.Data = list
	h.Render(w, http.StatusOK, "admins", view)
}

// NewAdmin renders the empty admin form.
func (h *Handler) NewAdmin(w http.ResponseWriter, r *http.Request) {
	h.Render(w, http.StatusOK, "admin-form", h.View(r, "Novo administrador", "admins", AdminForm{Form: render.NewForm(nil)}))
}

// CreateAdmin invites a new admin.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	payload := models.CreateAdminPayload{
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}

	t, err := h.Commands.CreateAdmin(r.Context(), h.Actor(r), payload)
	if err != nil {
		h.adminFormError(w, r, err, t, AdminForm{})
		return
	}
	h.Flash(w, r, t)
	h.Redirect(w, r, HomePath)
}

// EditAdmin renders the admin form prefilled from the API.
func (h *Handler) EditAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	actor := h.Actor(r)

	a, err := query.Fetch(r.Context(), h.Queries, query.Key(actor.Scope, query.ResourceAdmin, id), func(ctx context.Context) (*models.Admin, error) {
		return h.api.GetAdmin(ctx, actor.Token, id)
	})
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.HandleError(w, r, err, toast.Error("Administrador não encontrado."), HomePath)
			return
		}
		h.HandleError(w, r, err, toast.Error(apiclient.UserMessage(err, toast.FallbackUnexpected)), HomePath)
		return
	}

	form := render.NewForm(map[string]string{"fullName": a.FullName, "email": a.Email})
	h.Render(w, http.StatusOK, "admin-form", h.View(r, "Editar administrador", "admins", AdminForm{AdminID: id, Form: form}))
}

// UpdateAdmin saves the admin form.
func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payload := models.UpdateAdminPayload{
		AdminID:  id,
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}

	t, err := h.Commands.UpdateAdmin(r.Context(), h.Actor(r), payload)
	if err != nil {
		h.adminFormError(w, r, err, t, AdminForm{AdminID: id})
		return
	}
	h.Flash(w, r, t)
	h.Redirect(w, r, HomePath)
}

// BlockAdmin blocks the admin and returns to the list.
func (h *Handler) BlockAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, HomePath, func() (toast.Toast, error) {
		return h.Commands.BlockAdmin(r.Context(), h.Actor(r), id)
	})
}

// UnblockAdmin unblocks the admin and returns to the list.
func (h *Handler) UnblockAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, HomePath, func() (toast.Toast, error) {
		return h.Commands.UnblockAdmin(r.Context(), h.Actor(r), id)
	})
}

// DeleteAdmin removes the admin and returns to the list.
func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, HomePath, func() (toast.Toast, error) {
		return h.Commands.DeleteAdmin(r.Context(), h.Actor(r), id)
	})
}

// adminFormError re-renders the admin form with the submitted values.
func (h *Handler) adminFormError(w http.ResponseWriter, r *http.Request, err error, t toast.Toast, page AdminForm) {
	fields, banner, handled := h.FormError(w, r, err, t)
	if handled {
		return
	}
	if banner != "" {
		logging.Ctx(r.Context()).Warn().Err(err).Str("admin_id", page.AdminID).Msg("Admin form rejected by API")
	}

	page.Error = banner
	page.Form = render.NewForm(map[string]string{
		"fullName": r.PostFormValue("fullName"),
		"email":    r.PostFormValue("email"),
	})
	page.Form.Errors = fields

	title := "Novo administrador"
	if page.AdminID != "" {
		title = "Editar administrador"
	}
	h.Render(w, http.StatusUnprocessableEntity, "admin-form", h.View(r, title, "admins", page))
}
