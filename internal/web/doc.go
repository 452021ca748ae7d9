// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package web holds the HTTP plumbing shared by the admin dashboard and the
member portal.

NewRouter builds the chi router of one application:

	/healthz, /metrics                  operational, no session
	RateLimit -> BodyLimit -> Compression -> Sessions.Load -> CSRF.Protect -> pages

Base carries the templates, the session manager and the query and mutation
clients. Page handlers embed it and use its helpers:

  - View and Render assemble a render.View with the current user, CSRF
    token, flashed toasts and the network warning
  - Flash and Redirect implement post/redirect/get (303)
  - RequireUser guards routes and loads the current user through the query
    cache
  - HandleAuthError, HandleError, ListError and FormError translate API
    failures: 401 destroys the session and returns to sign in, 403 goes to
    /forbidden, validation failures come back as per-field messages

Auth serves the magic link flow. List pages call Canonical first so that
filter submissions land on one URL per query state, which is also the
cache key suffix.
*/
package web
