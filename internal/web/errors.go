// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package web

import (
	"errors"
	"net/http"

	"github.com/G-Villarinho/book-wise/internal/apiclient"
	"github.com/G-Villarinho/book-wise/internal/logging"
	"github.com/G-Villarinho/book-wise/internal/mutation"
	"github.com/G-Villarinho/book-wise/internal/render"
	"github.com/G-Villarinho/book-wise/internal/session"
	"github.com/G-Villarinho/book-wise/internal/toast"
	"github.com/G-Villarinho/book-wise/internal/validation"
)

// ForbiddenPath is where 403 responses from the API send the browser.
const ForbiddenPath = "/forbidden"

// HandleAuthError redirects on 401 and 403 and reports whether it did.
// A 401 destroys the BFF session and its cached entries first.
func (b *Base) HandleAuthError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		if s := session.FromContext(r.Context()); s != nil {
			b.Queries.ForgetScope(s.Scope())
		}
		if derr := b.Sessions.Destroy(r.Context(), w, "api_unauthorized"); derr != nil {
			logging.Ctx(r.Context()).Warn().Err(derr).Msg("Failed to destroy session")
		}
		redirect(w, r, b.SignInPath)
		return true
	case errors.Is(err, apiclient.ErrForbidden):
		redirect(w, r, ForbiddenPath)
		return true
	}
	return false
}

// HandleError finishes a failed mutation: auth errors redirect, anything
// else flashes t (or a toast derived from err when t is empty) and sends
// the browser back.
func (b *Base) HandleError(w http.ResponseWriter, r *http.Request, err error, t toast.Toast, back string) {
	if b.HandleAuthError(w, r, err) {
		return
	}
	if t.Message == "" {
		t = mutation.FailureToast(err)
	}
	b.Flash(w, r, t)
	redirect(w, r, back)
}

// ListError reports a failed list read on v. A retryable failure is
// already announced by the network warning and adds nothing; any other
// failure adds one error toast. handled is true when the request was
// already answered with a redirect.
func (b *Base) ListError(w http.ResponseWriter, r *http.Request, err error, v *render.View) (handled bool) {
	if b.HandleAuthError(w, r, err) {
		return true
	}
	logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("List fetch failed")
	if apiclient.IsRetryable(err) && v.Warning != nil {
		return false
	}
	v.Toasts = append(v.Toasts, toast.Error(apiclient.UserMessage(err, toast.FallbackUnexpected)))
	return false
}

// FormError sorts a failed form submission. Auth errors are answered with a
// redirect (handled is true). Validation errors yield per-field messages;
// anything else yields the banner text, taken from t when the command
// produced a toast.
func (b *Base) FormError(w http.ResponseWriter, r *http.Request, err error, t toast.Toast) (fields map[string]string, banner string, handled bool) {
	if b.HandleAuthError(w, r, err) {
		return nil, "", true
	}
	if fields = FieldErrors(err); fields != nil {
		return fields, "", false
	}
	if t.Message == "" {
		t = mutation.FailureToast(err)
	}
	return map[string]string{}, t.Message, false
}

// FieldErrors returns the per-field messages of a validation failure, or
// nil when err is something else.
func FieldErrors(err error) map[string]string {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		return verr.Fields()
	}
	return nil
}
