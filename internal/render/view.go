// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package render

import (
	"github.com/G-Villarinho/book-wise/internal/models"
	"github.com/G-Villarinho/book-wise/internal/toast"
)

// View is the data every page template receives. Page specific data lives
// in Data.
type View struct {
	Title string
	App   string
	// Active is the navigation entry to highlight.
	Active    string
	User      *models.User
	CSRFToken string
	Toasts    []toast.Toast
	// Warning is the process-wide network warning, nil when not raised.
	Warning *toast.Toast
	Data    interface{}
}

// Form carries submitted values and per-field errors back into a form.
type Form struct {
	Values map[string]string
	Errors map[string]string
}

// NewForm creates a form prefilled with values.
func NewForm(values map[string]string) Form {
	if values == nil {
		values = map[string]string{}
	}
	return Form{Values: values, Errors: map[string]string{}}
}

// Value returns the submitted value of field.
func (f Form) Value(field string) string {
	return f.Values[field]
}

// Error returns the validation message of field, or "".
func (f Form) Error(field string) string {
	return f.Errors[field]
}

// HasErrors reports whether any field failed validation.
func (f Form) HasErrors() bool {
	return len(f.Errors) > 0
}
