// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package query

// Resource names, the first component of every key after the session scope.
const (
	ResourceAdmins        = "admins"
	ResourceAdmin         = "admin"
	ResourceAuthors       = "authors"
	ResourceAuthorsLite   = "authors-lite"
	ResourceLibrary       = "library"
	ResourceCatalog       = "catalog"
	ResourceExternalBook  = "external-book"
	ResourceCategories    = "categories"
	ResourceBooks         = "books"
	ResourceEvaluations   = "evaluations"
	ResourceTopCategories = "top-categories"
)
