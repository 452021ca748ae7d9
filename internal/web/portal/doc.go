// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package portal is the Book Wise member portal: sign up, magic link sign
// in, the explore listing of published books, book evaluations and the
// profile page.
package portal
