// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package portal

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
)

// SignUpPage is the data of the sign-up template.
type SignUpPage struct {
	Error string
	Form  render.Form
}

// SignUpPage renders the member registration form.
func (h *Handler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s.Authenticated() {
		h.Redirect(w, r, HomePath)
		return
	}
	h.Render(w, http.StatusOK, "sign-up", h.View(r, "Cadastro", "", SignUpPage{Form: render.NewForm(nil)}))
}

// SignUp registers a member and sends them to sign in with the email
// prefilled.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	payload := models.CreateMemberPayload{
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}

	t, err := h.Commands.SignUpMember(r.Context(), payload)
	if err != nil {
		fields, banner, handled := h.FormError(w, r, err, t)
		if handled {
			return
		}
		if banner != "" {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Sign-up rejected by API")
		}
		form := render.NewForm(map[string]string{"fullName": payload.FullName, "email": payload.Email})
		form.Errors = fields
		h.Render(w, http.StatusUnprocessableEntity, "sign-up", h.View(r, "Cadastro", "", SignUpPage{Error: banner, Form: form}))
		return
	}

	h.Flash(w, r, t)
	h.Redirect(w, r, SignInPath+"?email="+url.QueryEscape(payload.Email))
}
