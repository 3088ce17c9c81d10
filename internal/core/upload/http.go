// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
)

// multipartOverhead covers boundaries and part headers on top of the file itself.
const multipartOverhead = 64 << 10

// # Handler Implementation

// Handler implements the HTTP layer for uploads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new upload [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the upload endpoint.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/upload", handler.Upload)
	})
}

/*
POST /api/v1/upload.

Description: Accepts a single image in the multipart field "file" and
returns the public URL it is served from.

Response:
  - 200: {url}
  - 400: ErrValidation: Missing file or unsupported type
  - 401: ErrUnauthorized: Authentication required
  - 413: ErrPayloadTooLarge: File exceeds UPLOAD_MAX_BYTES
*/
func (handler *Handler) Upload(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	maxBytes := handler.service.MaxBytes()
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes+multipartOverhead)

	file, _, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, formError(err))
		return
	}
	defer file.Close()
	if request.MultipartForm != nil {
		defer request.MultipartForm.RemoveAll()
	}

	// one byte past the limit is enough to report it
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	result, err := handler.service.Upload(request.Context(), userID, data)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return apperr.PayloadTooLarge("Request body too large")
	case errors.Is(err, http.ErrMissingFile):
		return apperr.ValidationError("No file uploaded", apperr.FieldError{Field: FieldFile, Message: "This field is required"})
	default:
		return apperr.ValidationError("Invalid multipart form")
	}
}
