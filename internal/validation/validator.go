// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation error with structured information.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the form field path that failed validation, for example
// "fullName" or "categories[1].name".
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "500" for "max=500").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns the message shown to the user.
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError represents a collection of validation errors.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, fmt.Sprintf("%s: %s", err.field, err.message))
	}
	return strings.Join(messages, "; ")
}

// Fields returns the first message per field, keyed by field path. Forms
// render it inline beside the matching input.
func (ve *RequestValidationError) Fields() map[string]string {
	out := make(map[string]string, len(ve.errors))
	for _, err := range ve.errors {
		if _, ok := out[err.field]; !ok {
			out[err.field] = err.message
		}
	}
	return out
}

// NewFieldError builds a RequestValidationError for a single field. Handlers
// use it for checks that happen outside struct tags, such as a missing
// upload.
func NewFieldError(field, tag, message string) *RequestValidationError {
	return &RequestValidationError{errors: []ValidationError{{field: field, tag: tag, message: message}}}
}

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(formFieldName)

		// Registration only fails for empty tags or nil funcs.
		_ = validate.RegisterValidation("unique_names", uniqueNames)
		_ = validate.RegisterValidation("image_ext", imageExtension)
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
//
//	if verr := validation.ValidateStruct(&payload); verr != nil {
//	    renderForm(w, http.StatusUnprocessableEntity, payload, verr.Fields())
//	    return
//	}
func ValidateStruct(s interface{}) *RequestValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{
				{
					field:   "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		path := fieldPath(fieldErr.Namespace())
		fieldErrors[i] = ValidationError{
			field:   path,
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr, path),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// formFieldName names fields after their form tag, then their json tag.
func formFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

// fieldPath strips the struct name from a validator namespace:
// "CreateBookPayload.categories[1].name" becomes "categories[1].name".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// uniqueNames validates that a slice of structs with a Name field holds no
// duplicate names, ignoring case and surrounding whitespace.
func uniqueNames(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}

	seen := make(map[string]struct{}, field.Len())
	for i := 0; i < field.Len(); i++ {
		elem := reflect.Indirect(field.Index(i))
		if elem.Kind() != reflect.Struct {
			return false
		}
		name := elem.FieldByName("Name")
		if !name.IsValid() || name.Kind() != reflect.String {
			return false
		}
		key := strings.ToLower(strings.TrimSpace(name.String()))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// imageExtension validates that a file name ends in .jpg, .jpeg or .png.
func imageExtension(fl validator.FieldLevel) bool {
	name := strings.ToLower(fl.Field().String())
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// fieldMessages holds the messages shown for specific field/tag pairs.
// Indexes are normalized away: "categories[].name:required".
var fieldMessages = map[string]string{
	"title:required":             "Título é obrigatório",
	"totalPages:min":             "Total de páginas deve ser maior que 0",
	"coverImageURL:required":     "URL da capa é obrigatória",
	"coverImageURL:url":          "URL da capa inválida",
	"authors:required":           "Informe ao menos um autor",
	"authors:min":                "Informe ao menos um autor",
	"authors[].name:required":    "Nome do autor é obrigatório",
	"categories:required":        "Informe ao menos uma categoria",
	"categories:min":             "Informe ao menos uma categoria",
	"categories:unique_names":    "Existem categorias duplicadas",
	"categories[].name:required": "Categoria é obrigatório",
	"rate:min":                   "A avaliação deve ser entre 1 e 5",
	"rate:max":                   "A avaliação deve ser entre 1 e 5",
	"description:required":       "A descrição é obrigatória",
	"description:max":            "A descrição deve ter no máximo %s caracteres",
	"avatar:required":            "A foto de perfil é obrigatória",
	"avatar:image_ext":           "A foto de perfil necessita ser dos tipos JPG, JPEG ou PNG",
	"fullName:required":          "Nome completo é obrigatório",
	"email:required":             "E-mail é obrigatório",
	"email:email":                "E-mail inválido",
	"nationality:required":       "Nacionalidade é obrigatória",
	"biography:required":         "Biografia é obrigatória",
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":     "%s é obrigatório",
	"email":        "%s deve ser um e-mail válido",
	"url":          "%s deve ser uma URL válida",
	"unique_names": "%s contém nomes duplicados",
	"image_ext":    "%s deve ser JPG, JPEG ou PNG",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s deve ser um de: %s",
	"gte":   "%s deve ser maior ou igual a %s",
	"lte":   "%s deve ser menor ou igual a %s",
}

// translateError converts a validator.FieldError to the message shown to the user.
func translateError(fe validator.FieldError, path string) string {
	tag := fe.Tag()
	param := fe.Param()

	if msg, ok := fieldMessages[indexPattern.ReplaceAllString(path, "[]")+":"+tag]; ok {
		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, param)
		}
		return msg
	}

	field := fe.Field()
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String
	isSlice := fe.Kind() == reflect.Slice

	switch tag {
	case "min":
		switch {
		case isString:
			return fmt.Sprintf("%s deve ter ao menos %s caracteres", field, param)
		case isSlice:
			return fmt.Sprintf("%s deve ter ao menos %s itens", field, param)
		}
		return fmt.Sprintf("%s deve ser no mínimo %s", field, param)
	case "max":
		switch {
		case isString:
			return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, param)
		case isSlice:
			return fmt.Sprintf("%s deve ter no máximo %s itens", field, param)
		}
		return fmt.Sprintf("%s deve ser no máximo %s", field, param)
	default:
		return fmt.Sprintf("%s é inválido (%s)", field, tag)
	}
}
