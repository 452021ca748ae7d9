// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package validation

import (
	"strings"
	"testing"

	"github.com/G-Villarinho/book-wise/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func validBook() models.CreateBookPayload {
	return models.CreateBookPayload{
		Title:         "Dom Casmurro",
		TotalPages:    256,
		CoverImageURL: "https://covers.example.com/dom.jpg",
		Authors:       []models.NamedItem{{Name: "Machado de Assis"}},
		Categories:    []models.NamedItem{{Name: "Romance"}, {Name: "Clássico"}},
	}
}

func TestEvaluationRate(t *testing.T) {
	tests := []struct {
		rate  int
		valid bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tt := range tests {
		p := models.EvaluateBookPayload{BookID: "b1", Rate: tt.rate, Description: "Ótimo"}
		verr := ValidateStruct(&p)
		if tt.valid && verr != nil {
			t.Errorf("rate %d rejected: %v", tt.rate, verr)
		}
		if !tt.valid {
			if verr == nil {
				t.Errorf("rate %d accepted", tt.rate)
				continue
			}
			if got := verr.Fields()["rate"]; got != "A avaliação deve ser entre 1 e 5" {
				t.Errorf("rate %d message = %q", tt.rate, got)
			}
		}
	}
}

func TestEvaluationDescription(t *testing.T) {
	p := models.EvaluateBookPayload{BookID: "b1", Rate: 4, Description: strings.Repeat("a", 501)}
	verr := ValidateStruct(&p)
	if verr == nil {
		t.Fatal("501-character description accepted")
	}
	if got := verr.Fields()["description"]; got != "A descrição deve ter no máximo 500 caracteres" {
		t.Errorf("message = %q", got)
	}

	p.Description = ""
	if verr := ValidateStruct(&p); verr == nil || verr.Fields()["description"] != "A descrição é obrigatória" {
		t.Errorf("empty description: %v", verr)
	}

	p.Description = strings.Repeat("a", 500)
	if verr := ValidateStruct(&p); verr != nil {
		t.Errorf("500-character description rejected: %v", verr)
	}
}

func TestCreateBook_Valid(t *testing.T) {
	p := validBook()
	if verr := ValidateStruct(&p); verr != nil {
		t.Fatalf("valid book rejected: %v", verr)
	}
}

func TestCreateBook_DuplicateCategories(t *testing.T) {
	p := validBook()
	p.Categories = []models.NamedItem{{Name: "Romance"}, {Name: "  romance "}}

	verr := ValidateStruct(&p)
	if verr == nil {
		t.Fatal("duplicate categories accepted")
	}
	if got := verr.Fields()["categories"]; got != "Existem categorias duplicadas" {
		t.Errorf("message = %q", got)
	}
}

func TestCreateBook_FieldPaths(t *testing.T) {
	p := validBook()
	p.Title = ""
	p.TotalPages = 0
	p.CoverImageURL = "not-a-url"
	p.Categories = []models.NamedItem{{Name: "Romance"}, {Name: ""}}

	verr := ValidateStruct(&p)
	if verr == nil {
		t.Fatal("invalid book accepted")
	}

	want := map[string]string{
		"title":              "Título é obrigatório",
		"totalPages":         "Total de páginas deve ser maior que 0",
		"coverImageURL":      "URL da capa inválida",
		"categories[1].name": "Categoria é obrigatório",
	}
	fields := verr.Fields()
	for field, msg := range want {
		if fields[field] != msg {
			t.Errorf("%s = %q, want %q", field, fields[field], msg)
		}
	}
}

func TestCreateAuthor_Avatar(t *testing.T) {
	p := models.CreateAuthorPayload{
		FullName:       "Clarice Lispector",
		Nationality:    "Brasileira",
		Biography:      "Escritora",
		AvatarFilename: "clarice.gif",
	}

	verr := ValidateStruct(&p)
	if verr == nil {
		t.Fatal("gif avatar accepted")
	}
	if got := verr.Fields()["avatar"]; got != "A foto de perfil necessita ser dos tipos JPG, JPEG ou PNG" {
		t.Errorf("message = %q", got)
	}

	p.AvatarFilename = "CLARICE.JPEG"
	if verr := ValidateStruct(&p); verr != nil {
		t.Errorf("jpeg avatar rejected: %v", verr)
	}
}

func TestCreateAdmin_Email(t *testing.T) {
	p := models.CreateAdminPayload{FullName: "Ana", Email: "ana"}
	verr := ValidateStruct(&p)
	if verr == nil {
		t.Fatal("invalid email accepted")
	}
	if got := verr.Fields()["email"]; got != "E-mail inválido" {
		t.Errorf("message = %q", got)
	}
	if len(verr.Errors()) != 1 || verr.Errors()[0].Tag() != "email" {
		t.Errorf("errors = %+v", verr.Errors())
	}
}

func TestNewFieldError(t *testing.T) {
	verr := NewFieldError("avatar", "required", "A foto de perfil é obrigatória")
	if verr.Fields()["avatar"] != "A foto de perfil é obrigatória" {
		t.Errorf("Fields = %v", verr.Fields())
	}
	if !strings.Contains(verr.Error(), "avatar") {
		t.Errorf("Error() = %q", verr.Error())
	}
}
