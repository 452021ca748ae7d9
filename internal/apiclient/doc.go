// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package apiclient is the REST transport to the Book Wise API.

Every call takes the caller's context and the API session token of the
signed-in user. Requests pass through an outbound rate limiter
(golang.org/x/time/rate) and a circuit breaker (sony/gobreaker), are traced
with OpenTelemetry, and are recorded in the upstream Prometheus metrics.

# Errors

Non-2xx responses become *Error carrying the API's {code, message, details}
payload. 401 and 403 unwrap to ErrUnauthorized and ErrForbidden:

	page, err := client.ListAdmins(ctx, token, apiclient.AdminsQuery{Page: 1})
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
	    // sign in again
	case apiclient.IsRetryable(err):
	    // network failure or 5xx
	case err != nil:
	    msg := apiclient.UserMessage(err, toast.FallbackMutationError)
	}

Transport failures and requests rejected by an open breaker wrap ErrNetwork.
Only network errors and 5xx responses are retryable, and the client itself
never retries; retry policy belongs to the query package.
*/
package apiclient
