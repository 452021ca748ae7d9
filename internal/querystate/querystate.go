// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package querystate keeps list filters, search terms and the current page
// in URL query parameters.
//
// A State is an immutable snapshot: every transition returns a new State.
// Changing or clearing filters always resets the page to 1, and a missing or
// malformed page reads as 1.
//
//	st := querystate.Parse(r.URL.Query(), "fullName", "status")
//	next := st.WithFilters(map[string]string{"status": "blocked"})
//	http.Redirect(w, r, "/admins?"+next.Encode(), http.StatusSeeOther)
package querystate

import (
	"net/url"
	"strconv"
)

// PageParam is the query parameter holding the current page.
const PageParam = "page"

// State is the parsed query-string state of a list view.
type State struct {
	fields []string
	values url.Values
	page   int
}

// Parse reads the declared filter fields and the page from values. Empty
// values and undeclared parameters are dropped. Only the first value of a
// repeated parameter is kept.
func Parse(values url.Values, fields ...string) State {
	st := State{
		fields: append([]string(nil), fields...),
		values: url.Values{},
		page:   parsePage(values.Get(PageParam)),
	}
	for _, f := range fields {
		if v := values.Get(f); v != "" {
			st.values.Set(f, v)
		}
	}
	return st
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Page returns the current page (1-based).
func (s State) Page() int {
	if s.page < 1 {
		return 1
	}
	return s.page
}

// Get returns the value of a filter field, or "" when absent.
func (s State) Get(field string) string {
	return s.values.Get(field)
}

// Fields returns the declared filter fields.
func (s State) Fields() []string {
	return append([]string(nil), s.fields...)
}

// WithFilters applies a filter form submission. Non-empty values set their
// field, empty values delete it, and the page returns to 1. Undeclared keys
// are ignored.
func (s State) WithFilters(filters map[string]string) State {
	next := s.clone()
	for _, f := range s.fields {
		v, ok := filters[f]
		if !ok {
			continue
		}
		if v == "" {
			next.values.Del(f)
		} else {
			next.values.Set(f, v)
		}
	}
	next.page = 1
	return next
}

// ClearFilters removes every declared filter field and returns to page 1.
func (s State) ClearFilters() State {
	next := s.clone()
	for _, f := range s.fields {
		next.values.Del(f)
	}
	next.page = 1
	return next
}

// WithPage moves to page n, clamped to at least 1. Filters are kept.
func (s State) WithPage(n int) State {
	next := s.clone()
	if n < 1 {
		n = 1
	}
	next.page = n
	return next
}

// Retain drops field when keep rejects its value. Views use it to discard
// sentinel or unknown enumeration values, such as status=all. The page is
// left unchanged.
func (s State) Retain(field string, keep func(string) bool) State {
	v := s.values.Get(field)
	if v == "" || keep(v) {
		return s
	}
	next := s.clone()
	next.values.Del(field)
	return next
}

// HasAnyFilter reports whether any declared filter field is set.
func (s State) HasAnyFilter() bool {
	for _, f := range s.fields {
		if s.values.Get(f) != "" {
			return true
		}
	}
	return false
}

// Values returns a copy of the filter values plus the page.
func (s State) Values() url.Values {
	out := url.Values{}
	for k, vs := range s.values {
		out[k] = append([]string(nil), vs...)
	}
	out.Set(PageParam, strconv.Itoa(s.Page()))
	return out
}

// Encode returns the canonical query string, with keys sorted.
func (s State) Encode() string {
	return s.Values().Encode()
}

// KeyParts returns the filter values in declaration order followed by the
// page, for use as a cache key suffix.
func (s State) KeyParts() []string {
	parts := make([]string, 0, len(s.fields)+1)
	for _, f := range s.fields {
		parts = append(parts, s.values.Get(f))
	}
	return append(parts, strconv.Itoa(s.Page()))
}

func (s State) clone() State {
	next := State{
		fields: s.fields,
		values: url.Values{},
		page:   s.page,
	}
	for k, vs := range s.values {
		next.values[k] = append([]string(nil), vs...)
	}
	return next
}
