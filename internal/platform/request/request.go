// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts and checks data from HTTP requests.

It hides chi's parameter lookup and the JSON decoding pattern so every handler
rejects malformed input the same way, before any service code runs.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies. Page content blobs are the largest payloads.
const maxBodyBytes = 2 << 20

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names instead of Go field names.
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return instance
}

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge("Request body too large")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeAndValidate decodes the body, then checks its `validate` struct tags.

Returns:
  - error: VALIDATION_ERROR with one detail per failing field, otherwise nil
*/
func DecodeAndValidate(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	if err := DecodeJSON(writer, request, target); err != nil {
		return err
	}
	return Struct(target)
}

// Struct runs the tag validator on target.
func Struct(target interface{}) error {
	err := structValidator.Struct(target)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldPath(fieldError),
			Message: describe(fieldError),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

// fieldPath strips the root struct name from the namespace ("dto.items[0].id" → "items[0].id").
func fieldPath(fieldError validator.FieldError) string {
	if _, path, found := strings.Cut(fieldError.Namespace(), "."); found {
		return path
	}
	return fieldError.Field()
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("Minimum %s characters", fieldError.Param())
		}
		return fmt.Sprintf("Must be at least %s", fieldError.Param())
	case "max":
		if fieldError.Kind() == reflect.String {
			return fmt.Sprintf("Maximum %s characters", fieldError.Param())
		}
		return fmt.Sprintf("Must be at most %s", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Must be %s or greater", fieldError.Param())
	case "lte":
		return fmt.Sprintf("Must be %s or less", fieldError.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fieldError.Param(), " ", ", ")
	case "url", "http_url":
		return "Must be a valid URL"
	case "hexcolor":
		return "Must be a hex colour"
	default:
		return "Invalid value"
	}
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a named URL parameter and checks that it is a UUID.

Returns:
  - string: the parameter in canonical lowercase form
  - error: VALIDATION_ERROR naming the parameter
*/
func UUIDParam(request *http.Request, name string) (string, error) {
	raw := chi.URLParam(request, name)

	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", validate.RequiredError(name, "Must be a valid UUID")
	}
	return parsed.String(), nil
}

/*
RequiredUserID returns the internal id of the current user.

Returns:
  - error: apperr.Unauthorized if the request has no resolved user
*/
func RequiredUserID(request *http.Request) (string, error) {
	caller := ctxutil.CurrentUser(request.Context())
	if !caller.IsAuthenticated {
		return "", apperr.Unauthorized("Authentication required")
	}
	return caller.ID, nil
}
