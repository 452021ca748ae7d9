// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package admin

import (
	"context"
	"errors"
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
	"github.com/G-Villarinho/book-wise/internal/validation"
	"github.com/G-Villarinho/book-wise/internal/web"
)

const (
	maxAvatarSize = 5 << 20
	// maxFormMemory is kept in memory; larger uploads spill to temp files.
	maxFormMemory = 8 << 20
)

var authorFilters = []string{"fullName", "authorId"}

var authorColumns = []string{"", "Nome", "Nacionalidade", "Biografia", "Criado em", "Ações"}

// AuthorForm is the data of the author-form template.
type AuthorForm struct {
	Error string
	Form  render.Form
}

// ListAuthors renders the filtered, paginated authors table.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	state := querystate.Parse(r.URL.Query(), authorFilters...)
	if web.Canonical(w, r, state) {
		return
	}

	actor := h.Actor(r)
	key := query.Key(actor.Scope, query.ResourceAuthors).Append(state.KeyParts()...)
	page, err := query.Fetch(r.Context(), h.Queries, key, func(ctx context.Context) (*models.Page[models.Author], error) {
		return h.api.ListAuthors(ctx, actor.Token, apiclient.AuthorsQuery{
			Page:     state.Page(),
			FullName: state.Get("fullName"),
			AuthorID: state.Get("authorId"),
		})
	})

	list := render.NewList(state, page, "Nenhum autor encontrado.", authorColumns...)
	view := h.View(r, "Autores", "authors", nil)
	if err != nil && h.ListError(w, r, err, &view) {
		return
	}
	view.Data = list
	h.Render(w, http.StatusOK, "authors", view)
}

// NewAuthor renders the empty author form.
func (h *Handler) NewAuthor(w http.ResponseWriter, r *http.Request) {
	h.Render(w, http.StatusOK, "author-form", h.View(r, "Novo autor", "authors", AuthorForm{Form: render.NewForm(nil)}))
}

// CreateAuthor forwards the multipart author form to the API. The router
// caps the body size, so the parsed upload is bounded; the avatar is piped
// to the API from it.
func (h *Handler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	// The CSRF check may already have parsed the form; parsing again is a
	// no-op then.
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.authorFormError(w, r, validation.NewFieldError("avatar", "max", "A foto de perfil deve ter no máximo 5MB"), toast.Toast{})
			return
		}
		h.authorFormError(w, r, validation.NewFieldError("avatar", "required", "A foto de perfil é obrigatória"), toast.Toast{})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	payload := models.CreateAuthorPayload{
		FullName:    strings.TrimSpace(r.FormValue("fullName")),
		Nationality: strings.TrimSpace(r.FormValue("nationality")),
		Biography:   strings.TrimSpace(r.FormValue("biography")),
	}
	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil && header.Size > maxAvatarSize:
		_ = file.Close()
		h.authorFormError(w, r, validation.NewFieldError("avatar", "max", "A foto de perfil deve ter no máximo 5MB"), toast.Toast{})
		return
	case err == nil:
		defer func() { _ = file.Close() }()
		payload.AvatarFilename = header.Filename
		payload.Avatar = file
	case !errors.Is(err, http.ErrMissingFile):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to read avatar upload")
	}

	t, err := h.Commands.CreateAuthor(r.Context(), h.Actor(r), payload)
	if err != nil {
		h.authorFormError(w, r, err, t)
		return
	}
	h.Flash(w, r, t)
	h.Redirect(w, r, "/authors")
}

// DeleteAuthor removes the author and returns to the list.
func (h *Handler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.done(w, r, "/authors", func() (toast.Toast, error) {
		return h.Commands.DeleteAuthor(r.Context(), h.Actor(r), id)
	})
}

// authorFormError re-renders the author form. The avatar cannot be kept, so
// the browser has to select it again.
func (h *Handler) authorFormError(w http.ResponseWriter, r *http.Request, err error, t toast.Toast) {
	fields, banner, handled := h.FormError(w, r, err, t)
	if handled {
		return
	}

	form := render.NewForm(map[string]string{
		"fullName":    r.FormValue("fullName"),
		"nationality": r.FormValue("nationality"),
		"biography":   r.FormValue("biography"),
	})
	form.Errors = fields
	h.Render(w, http.StatusUnprocessableEntity, "author-form", h.View(r, "Novo autor", "authors", AuthorForm{Error: banner, Form: form}))
}
