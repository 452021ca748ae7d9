// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package models

import "time"

// Book is a row of the admin library listing.
type Book struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TotalPages       int       `json:"totalPages"`
	CoverImageURL    string    `json:"coverImageURL"`
	Authors          []string  `json:"authors"`
	Categories       []string  `json:"categories"`
	Published        bool      `json:"published"`
	TotalEvaluations int       `json:"totalEvaluations"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PublishedBook is a card of the portal explore listing.
type PublishedBook struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	CoverImageURL    string    `json:"coverImageURL"`
	TotalPages       int       `json:"totalPages"`
	TotalEvaluations int       `json:"totalEvaluations"`
	RateAverage      float64   `json:"rateAverage"`
	Authors          []string  `json:"authors"`
	Categories       []string  `json:"categories"`
	HasRead          bool      `json:"hasRead"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ExternalBook is a result of the external catalog search.
type ExternalBook struct {
	ExternalBookID string   `json:"externalBookId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	TotalPages     int      `json:"totalPages"`
	CoverImageURL  string   `json:"coverImageURL"`
	Authors        []string `json:"authors"`
	Categories     []string `json:"categories"`
}

// NamedItem is one entry of a repeated name input.
type NamedItem struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateBookPayload is the create-book form. Categories must not repeat a
// name.
type CreateBookPayload struct {
	ExternalBookID string      `json:"-" form:"externalBookId"`
	Title          string      `json:"title" validate:"required,max=255"`
	TotalPages     int         `json:"totalPages" validate:"min=1"`
	Description    string      `json:"description" validate:"max=5000"`
	CoverImageURL  string      `json:"coverImageURL" validate:"required,url"`
	Authors        []NamedItem `json:"-" form:"authors" validate:"required,min=1,dive"`
	Categories     []NamedItem `json:"-" form:"categories" validate:"required,min=1,unique_names,dive"`
}

// CreateBookRequest is the JSON body of POST /books.
type CreateBookRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	TotalPages    int      `json:"totalPages"`
	CoverImageURL string   `json:"coverImageURL"`
	Authors       []string `json:"authors"`
	Categories    []string `json:"categories"`
}

// Request flattens the form into the API body.
func (p *CreateBookPayload) Request() CreateBookRequest {
	return CreateBookRequest{
		Title:         p.Title,
		Description:   p.Description,
		TotalPages:    p.TotalPages,
		CoverImageURL: p.CoverImageURL,
		Authors:       names(p.Authors),
		Categories:    names(p.Categories),
	}
}

// CreateBookPayloadFromExternal prefills the create-book form from a catalog
// result.
func CreateBookPayloadFromExternal(b *ExternalBook) CreateBookPayload {
	p := CreateBookPayload{
		ExternalBookID: b.ExternalBookID,
		Title:          b.Title,
		TotalPages:     b.TotalPages,
		Description:    b.Description,
		CoverImageURL:  b.CoverImageURL,
	}
	for _, a := range b.Authors {
		p.Authors = append(p.Authors, NamedItem{Name: a})
	}
	for _, c := range b.Categories {
		p.Categories = append(p.Categories, NamedItem{Name: c})
	}
	return p
}

func names(items []NamedItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}
