// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package admin is the Book Wise admin dashboard.
//
// Admins and owners sign in with a magic link and manage admins, authors
// and the library, and add books from the external catalog. Members who
// reach the dashboard are sent to /forbidden.
//
// Routes:
//
//	GET  /sign-in, POST /sign-in          magic link request
//	GET  /auth/callback (/auth/link)      magic link landing
//	POST /sign-out
//	GET  /admins                          ?fullName&status&page
//	GET  /admins/new, POST /admins
//	GET  /admins/{id}/edit, POST /admins/{id}
//	POST /admins/{id}/block|unblock|delete
//	GET  /authors                         ?fullName&authorId&page
//	GET  /authors/new, POST /authors      multipart, avatar required
//	POST /authors/{id}/delete
//	GET  /library                         ?title&bookId&authorId&categoryId&page
//	POST /library/{id}/publish|unpublish|delete
//	GET  /catalog                         ?authorOrTitle&page
//	GET  /catalog/{externalId}, POST /catalog/{externalId}
//	POST /toasts/network/dismiss
//
// List pages read through the query cache; row actions run a mutation
// command, flash its toast and redirect back to the list they came from.
package admin
