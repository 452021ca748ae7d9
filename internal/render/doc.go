// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package render draws the HTML pages of the admin dashboard and the member
// portal.
//
// Templates are embedded in the binary and parsed once per application at
// startup. Every page executes the shared "layout" template, which in turn
// executes the page's "content" block with a View.
//
// List pages share three building blocks:
//
//   - Table, whose Empty method switches the body to a single empty-state
//     row spanning every column;
//   - Pagination, built from the server's total and totalPages with a
//     five-button window (see PaginationWindow);
//   - Pager, the prev/next footer of the external catalog search.
//
// Rendering is buffered: a template error produces a plain 500 and never a
// half-written page.
package render
