// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package session keeps the browser side state of the web apps: the API
// token obtained through the magic-link sign in, flash toasts and CSRF
// tokens.
//
// Sessions live in a Store (memory or BadgerDB). API tokens are encrypted
// with TokenEncryptor (AES-GCM, HKDF-derived key) before they are stored,
// and the session never outlives the token's own exp claim.
//
// The session ID doubles as the result cache scope, so cached pages are
// never shared between browsers and are dropped on sign out.
//
// Middleware order on each app:
//
//	r.Use(sessions.Load)
//	r.Use(csrf.Protect)
package session
