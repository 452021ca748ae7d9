// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is wrapped by every 401 response.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrForbidden is wrapped by every 403 response.
	ErrForbidden = errors.New("api: forbidden")

	// ErrNetwork is wrapped by transport failures: dial errors, timeouts and
	// requests rejected by the open circuit breaker.
	ErrNetwork = errors.New("api: network error")

	// ErrNoSessionCookie is returned by VerifyMagicLink when the API did not
	// set its session cookie.
	ErrNoSessionCookie = errors.New("api: magic link did not yield a session")
)

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api: status %d", e.Status)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	switch {
	case e.Details != "":
		b.WriteString(": " + e.Details)
	case e.Message != "":
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

// Unwrap maps auth statuses to their sentinels so callers can use errors.Is.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// IsRetryable reports whether a read that failed with err may be retried:
// transport failures and 5xx responses. Context cancellation and 4xx
// responses are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return false
}

// UserMessage returns the text to show the user for err: the payload's
// details, then its message, then fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Details != "" {
			return apiErr.Details
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
