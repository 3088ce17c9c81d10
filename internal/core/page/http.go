// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/patch"
)

// # Handler Implementation

// Handler implements the HTTP layer for page management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new page [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the page endpoints. Bulk page reorder lives under
// /chapters because it is addressed through the owning book.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)

		user.Get("/pages/chapter/{chapterID}", handler.ListPages)
		user.Post("/pages/chapter/{chapterID}", handler.CreatePage)
		user.Get("/pages/{id}", handler.GetPage)
		user.Patch("/pages/{id}", handler.UpdatePage)
		user.Delete("/pages/{id}", handler.DeletePage)
	})
}

// # Request DTOs

// createPageRequest defines the inbound JSON schema for a new page.
type createPageRequest struct {
	Content     json.RawMessage `json:"content"`
	TextContent *string         `json:"textContent"`
	Order       *int            `json:"order" validate:"omitempty,gte=0,lte=2147483646"`
}

// updatePageRequest keeps omitted keys apart from explicit nulls.
type updatePageRequest struct {
	Content     patch.Field[json.RawMessage] `json:"content"`
	TextContent patch.Field[string]          `json:"textContent"`
	Order       *int                         `json:"order" validate:"omitempty,gte=0,lte=2147483646"`
}

// # Page Retrieval

/*
GET /api/v1/pages/chapter/{chapterID}.

Response:
  - 200: []Page: Pages ascending by order
  - 401: ErrUnauthorized: Chapter belongs to another user
  - 404: ErrNotFound: Chapter not found
*/
func (handler *Handler) ListPages(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapterID, err := requestutil.UUIDParam(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pages, err := handler.service.List(request.Context(), userID, chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}

/*
GET /api/v1/pages/{id}.

Response:
  - 200: Page
  - 401: ErrUnauthorized: Page belongs to another user
  - 404: ErrNotFound: Page not found
*/
func (handler *Handler) GetPage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Get(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// # Page Mutation

/*
POST /api/v1/pages/chapter/{chapterID}.

Request:
  - body: createPageRequest (order defaults to after the last page)

Response:
  - 201: Page: Created page
  - 409: ErrConflict: Order already taken
*/
func (handler *Handler) CreatePage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapterID, err := requestutil.UUIDParam(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPageRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Create(request.Context(), userID, chapterID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, page)
}

/*
PATCH /api/v1/pages/{id}.

Description: Omitted keys are untouched; "content": null and
"textContent": null clear the stored value.

Response:
  - 200: Page: Updated page
  - 409: ErrConflict: Order already taken
*/
func (handler *Handler) UpdatePage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePageRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Update(request.Context(), userID, id, Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

/*
DELETE /api/v1/pages/{id}.

Response:
  - 200: Page: The deleted page
*/
func (handler *Handler) DeletePage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.UUIDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := handler.service.Delete(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Page deleted", page)
}
