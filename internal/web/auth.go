// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/metrics"
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/validation"
)

// Messages of the magic link flow.
const (
	signInFailedMessage = "Não foi possível enviar o link de acesso, tente novamente."
	invalidLinkMessage  = "Link de acesso inválido ou expirado."
)

// SignInPage is the data of the sign-in template.
type SignInPage struct {
	Sent  bool
	Email string
	Form  render.Form
}

// Auth serves the magic link flow shared by both applications. The API
// owns the protocol; the BFF only keeps the token it hands back.
type Auth struct {
	*Base

	// RequestLink asks the API to email a magic link (admin or member
	// endpoint).
	RequestLink func(ctx context.Context, email string) error

	// RedirectURL is forwarded to the API when a link is verified.
	RedirectURL string

	security *logging.SecurityLogger
}

// NewAuth creates the auth handlers of an application.
func NewAuth(base *Base, requestLink func(ctx context.Context, email string) error, redirectURL string) *Auth {
	return &Auth{
		Base:        base,
		RequestLink: requestLink,
		RedirectURL: redirectURL,
		security:    logging.NewSecurityLogger(),
	}
}

// SignInPage renders the email form, or the "check your inbox" notice
// after a link was sent.
func (a *Auth) SignInPage(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s != nil && s.Authenticated() {
		redirect(w, r, a.HomePath)
		return
	}

	page := SignInPage{Form: render.NewForm(map[string]string{"email": r.URL.Query().Get("email")})}
	if r.URL.Query().Get("sent") != "" && s != nil && s.Email != "" {
		page.Sent = true
		page.Email = s.Email
	}
	a.Render(w, http.StatusOK, "sign-in", a.View(r, "Entrar", "", page))
}

// SignIn validates the email and asks the API for a magic link.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	payload := models.SignInPayload{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if verr := validation.ValidateStruct(&payload); verr != nil {
		form := render.NewForm(map[string]string{"email": payload.Email})
		form.Errors = verr.Fields()
		a.Render(w, http.StatusUnprocessableEntity, "sign-in", a.View(r, "Entrar", "", SignInPage{Form: form}))
		return
	}

	err := a.RequestLink(r.Context(), payload.Email)
	a.security.LogEvent(r.Context(), &logging.SecurityEvent{
		Event:     "sign_in_requested",
		Email:     payload.Email,
		IPAddress: r.RemoteAddr,
		Success:   err == nil,
		Reason:    errorReason(err),
	})
	if err != nil {
		a.HandleError(w, r, err, toast.Error(apiclient.UserMessage(err, signInFailedMessage)),
			a.SignInPath+"?email="+url.QueryEscape(payload.Email))
		return
	}

	if err := a.Sessions.RememberEmail(r.Context(), w, payload.Email); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to remember sign-in email")
	}
	redirect(w, r, a.SignInPath+"?sent=1")
}

// Callback is the magic link landing. The code is exchanged for an API
// token, which is stored in a fresh session.
func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		a.Flash(w, r, toast.Error(invalidLinkMessage))
		redirect(w, r, a.SignInPath)
		return
	}

	token, err := a.Identity.VerifyMagicLink(r.Context(), code, a.RedirectURL)
	if err != nil {
		a.security.LogEvent(r.Context(), &logging.SecurityEvent{
			Event:     "sign_in_completed",
			IPAddress: r.RemoteAddr,
			Reason:    errorReason(err),
		})
		msg := invalidLinkMessage
		if !errors.Is(err, apiclient.ErrNoSessionCookie) {
			msg = apiclient.UserMessage(err, invalidLinkMessage)
		}
		a.Flash(w, r, toast.Error(msg))
		redirect(w, r, a.SignInPath)
		return
	}

	email := ""
	if s := session.FromContext(r.Context()); s != nil {
		email = s.Email
	}
	if _, err := a.Sessions.SignIn(r.Context(), w, token, email); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to start session")
		http.Error(w, toast.FallbackUnexpected, http.StatusInternalServerError)
		return
	}
	redirect(w, r, a.HomePath)
}

// SignOut ends the API session, forgets the cached data of the session and
// destroys it.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s != nil {
		if s.Authenticated() {
			if err := a.Identity.SignOut(r.Context(), s.APIToken); err != nil {
				logging.Ctx(r.Context()).Warn().Err(err).Msg("API sign-out failed")
			}
		}
		a.Queries.ForgetScope(s.Scope())
	}
	if err := a.Sessions.Destroy(r.Context(), w, ""); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to destroy session")
	}
	metrics.RecordSessionOperation("sign_out")
	redirect(w, r, a.SignInPath)
}

// DismissWarning hides the network warning and returns to the page the
// form was posted from.
func (b *Base) DismissWarning(w http.ResponseWriter, r *http.Request) {
	b.Queries.Warning().Dismiss()
	redirect(w, r, RefererPath(r, b.HomePath))
}

// RefererPath returns the path and query of the Referer, so a redirect
// never leaves the application.
func RefererPath(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func errorReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
