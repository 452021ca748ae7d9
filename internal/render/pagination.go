// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package render

import (
	"github.com/G-Villarinho/book-wise/internal/querystate"
)

// windowSize is the number of numbered page buttons shown at once.
const windowSize = 5

// PaginationWindow returns the page numbers shown as buttons for page out of
// totalPages. The window holds min(5, totalPages) consecutive pages, is
// centered on page when possible and clamped at both edges.
func PaginationWindow(page, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var start, end int
	switch {
	case totalPages <= windowSize:
		start, end = 1, totalPages
	case page <= 3:
		start, end = 1, windowSize
	case page >= totalPages-2:
		start, end = totalPages-windowSize+1, totalPages
	default:
		start, end = page-2, page+2
	}

	out := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		out = append(out, n)
	}
	return out
}

// NavLink is a first/prev/next/last control.
type NavLink struct {
	Href     string
	Disabled bool
}

// PageLink is a numbered page button.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Pagination is the footer of a paginated list. Total and TotalPages are
// shown exactly as the API returned them.
type Pagination struct {
	Page       int
	Total      int
	TotalPages int
	First      NavLink
	Prev       NavLink
	Next       NavLink
	Last       NavLink
	Pages      []PageLink
}

// NewPagination builds the footer for the list described by state. Links are
// relative query strings that keep the active filters.
func NewPagination(state querystate.State, total, totalPages int) Pagination {
	page := state.Page()
	href := func(n int) string { return "?" + state.WithPage(n).Encode() }

	p := Pagination{
		Page:       page,
		Total:      total,
		TotalPages: totalPages,
		First:      NavLink{Href: href(1), Disabled: page <= 1},
		Prev:       NavLink{Href: href(page - 1), Disabled: page <= 1},
		Next:       NavLink{Href: href(page + 1), Disabled: page >= totalPages},
		Last:       NavLink{Href: href(totalPages), Disabled: page >= totalPages},
	}
	for _, n := range PaginationWindow(page, totalPages) {
		p.Pages = append(p.Pages, PageLink{Number: n, Href: href(n), Current: n == page})
	}
	return p
}

// Pager is the prev/next-only footer used by the external catalog search,
// which does not report totals.
type Pager struct {
	Page int
	Prev NavLink
	Next NavLink
}

// NewPager builds a Pager. Next is disabled once a page comes back empty.
func NewPager(state querystate.State, empty bool) Pager {
	page := state.Page()
	return Pager{
		Page: page,
		Prev: NavLink{Href: "?" + state.WithPage(page-1).Encode(), Disabled: page <= 1},
		Next: NavLink{Href: "?" + state.WithPage(page+1).Encode(), Disabled: empty},
	}
}
