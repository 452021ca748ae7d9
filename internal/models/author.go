// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import (
	"io"
	"time"
)

// Author is a row of the authors listing.
type Author struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Nationality string    `json:"nationality"`
	Biography   string    `json:"biography"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthorLite is the compact author used by selection inputs.
type AuthorLite struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// CreateAuthorPayload is sent to POST /authors as a multipart form. Avatar
// reads from the parsed upload.
type CreateAuthorPayload struct {
	FullName    string `form:"fullName" validate:"required,max=255"`
	Nationality string `form:"nationality" validate:"required,max=100"`
	Biography   string `form:"biography" validate:"required,max=2000"`

	AvatarFilename string    `form:"avatar" validate:"required,image_ext"`
	Avatar         io.Reader `form:"-" validate:"-"`
}
