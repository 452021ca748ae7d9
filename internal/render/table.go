// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package render

import (
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/querystate"
)

// Table is the body of a list view.
type Table[T any] struct {
	Columns   []string
	Rows      []T
	EmptyText string
}

// NewTable builds a table from a fetched page. A nil page yields an empty
// table.
func NewTable[T any](page *models.Page[T], emptyText string, columns ...string) Table[T] {
	t := Table[T]{Columns: columns, EmptyText: emptyText}
	if page != nil {
		t.Rows = page.Data
	}
	return t
}

// Empty reports whether the table has no rows. Templates render a single
// empty-state row spanning every column in that case.
func (t Table[T]) Empty() bool {
	return len(t.Rows) == 0
}

// Colspan is the column count used by the empty-state row.
func (t Table[T]) Colspan() int {
	if len(t.Columns) == 0 {
		return 1
	}
	return len(t.Columns)
}

// List is the view model of a paginated, filterable list page.
type List[T any] struct {
	State      querystate.State
	Table      Table[T]
	Pagination Pagination
}

// NewList combines the filter state, the fetched page and the pagination
// footer. page may be nil when the fetch failed.
func NewList[T any](state querystate.State, page *models.Page[T], emptyText string, columns ...string) List[T] {
	l := List[T]{
		State: state,
		Table: NewTable(page, emptyText, columns...),
	}
	if page != nil {
		l.Pagination = NewPagination(state, page.Total, page.TotalPages)
	} else {
		l.Pagination = NewPagination(state, 0, 0)
	}
	return l
}
