// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

// Page is the pagination envelope returned by every list endpoint.
// Total and TotalPages are rendered as received; the frontends never
// recompute them.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
}

// IsEmpty reports whether the page carries no rows.
func (p *Page[T]) IsEmpty() bool {
	return p == nil || len(p.Data) == 0
}

// Clone returns a copy of the page with its own Data slice, so a cached page
// can be patched without aliasing the previous value.
func (p *Page[T]) Clone() *Page[T] {
	if p == nil {
		return nil
	}
	out := *p
	out.Data = make([]T, len(p.Data))
	copy(out.Data, p.Data)
	return &out
}

// ErrorPayload is the error body returned by the API.
type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
