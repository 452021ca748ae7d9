// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// Evaluation is a member's rating and review of a book.
type Evaluation struct {
	ID            string    `json:"id"`
	BookID        string    `json:"bookId,omitempty"`
	Rate          int       `json:"rate"`
	Description   string    `json:"description"`
	UserFullName  string    `json:"userFullName"`
	UserAvatarURL string    `json:"userAvatarUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// EvaluateBookPayload is the evaluation form. Rate is bounded to [1,5].
type EvaluateBookPayload struct {
	BookID      string `json:"-" form:"bookId" validate:"required"`
	Rate        int    `json:"rate" validate:"min=1,max=5"`
	Description string `json:"description" validate:"required,max=500"`
}

// Category is a book category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
