// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package testinfra provides test infrastructure for the web applications.
//
// The applications own no data, so their tests run against a fake Book Wise
// API: an httptest server that records every request and answers with
// canned responses registered per route.
//
// # Fake API
//
//	api := testinfra.NewFakeAPI(t)
//	api.JSON(http.MethodGet, "/users/admins", http.StatusOK, page)
//	api.Fail(http.MethodDelete, "/authors/a1", http.StatusConflict, "Autor possui livros")
//
//	client := api.Client(t) // *apiclient.Client pointed at the fake
//	// ...
//	calls := api.CallsTo(http.MethodGet, "/users/admins")
//
// Paths are registered without the /v1 version prefix. Unregistered routes
// answer 404 with an API error payload.
//
// # Environment and Browser
//
// NewEnv wires the whole stack of one application around a FakeAPI: result
// cache, query client, mutation commands, in-memory sessions, CSRF and the
// template renderer. Cookies are not marked Secure so they survive plain
// HTTP test servers.
//
// Browser drives an application handler like a real browser: it keeps a
// cookie jar, does not follow redirects, and echoes the CSRF cookie into
// every form it posts.
//
//	env := testinfra.NewEnv(t, "admin")
//	b := testinfra.NewBrowser(t, handler, env.CSRFCookieName())
//	env.SignIn(t, b, testinfra.AdminUser())
//	res := b.PostForm("/authors/a1/delete", nil)
//
// Nothing here needs Docker or network access beyond the loopback.
package testinfra
