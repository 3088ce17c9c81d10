// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/core/page"
	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/patch"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapter management.
type Handler struct {
	service *Service
	pages   *page.Service
}

// NewHandler constructs a new chapter [Handler]. The page service backs the
// bulk page reorder, which is addressed through the chapter's book.
func NewHandler(service *Service, pages *page.Service) *Handler {
	return &Handler{service: service, pages: pages}
}

// RegisterRoutes attaches the chapter endpoints under /chapters/{bookID}.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)

		user.Get("/chapters/{bookID}", handler.ListChapters)
		user.Post("/chapters/{bookID}", handler.CreateChapter)
		user.Patch("/chapters/{bookID}/order", handler.ReorderChapters)
		user.Get("/chapters/{bookID}/{chapterID}", handler.GetChapter)
		user.Patch("/chapters/{bookID}/{chapterID}", handler.UpdateChapter)
		user.Delete("/chapters/{bookID}/{chapterID}", handler.DeleteChapter)
		user.Patch("/chapters/{bookID}/{chapterID}/pages/order", handler.ReorderPages)
	})
}

// # Request DTOs

// createChapterRequest defines the inbound JSON schema for a new chapter.
type createChapterRequest struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       *int    `json:"order"       validate:"omitempty,gte=0,lte=2147483646"`
}

// updateChapterRequest keeps an omitted description apart from an explicit null.
type updateChapterRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=255"`
	Description patch.Field[string] `json:"description"`
	Order       *int                `json:"order" validate:"omitempty,gte=0,lte=2147483646"`
}

// pathIDs reads and checks the bookID path parameter, plus chapterID when asked.
func pathIDs(request *http.Request, withChapter bool) (bookID, chapterID string, err error) {
	bookID, err = requestutil.UUIDParam(request, "bookID")
	if err != nil || !withChapter {
		return bookID, "", err
	}
	chapterID, err = requestutil.UUIDParam(request, "chapterID")
	return bookID, chapterID, err
}

// decodePlacements reads a bare JSON array of {id, order} pairs.
func decodePlacements(writer http.ResponseWriter, request *http.Request) ([]ordering.Placement, error) {
	var placements []ordering.Placement
	if err := requestutil.DecodeJSON(writer, request, &placements); err != nil {
		return nil, err
	}
	if err := ordering.Validate(placements); err != nil {
		return nil, err
	}
	return placements, nil
}

// # Chapter Retrieval

/*
GET /api/v1/chapters/{bookID}.

Response:
  - 200: []Chapter: Chapters ascending by order, with pageCount
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, _, err := pathIDs(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapters, err := handler.service.List(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

/*
GET /api/v1/chapters/{bookID}/{chapterID}.

Response:
  - 200: Detail: The chapter with its pages ascending by order
  - 401: ErrUnauthorized: Chapter belongs to another user
  - 404: ErrNotFound: Chapter not found in this book
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, chapterID, err := pathIDs(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Get(request.Context(), userID, bookID, chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// # Chapter Mutation

/*
POST /api/v1/chapters/{bookID}.

Request:
  - body: createChapterRequest (order defaults to after the last chapter)

Response:
  - 201: Chapter: Created chapter
  - 409: ErrConflict: Order already taken
*/
func (handler *Handler) CreateChapter(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, _, err := pathIDs(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createChapterRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.Create(request.Context(), userID, bookID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, chapter)
}

/*
PATCH /api/v1/chapters/{bookID}/{chapterID}.

Response:
  - 200: Chapter: Updated chapter
  - 409: ErrConflict: Order already taken
*/
func (handler *Handler) UpdateChapter(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, chapterID, err := pathIDs(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateChapterRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.Update(request.Context(), userID, bookID, chapterID, Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}

/*
DELETE /api/v1/chapters/{bookID}/{chapterID}.

Response:
  - 200: Chapter: The deleted chapter
*/
func (handler *Handler) DeleteChapter(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, chapterID, err := pathIDs(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapter, err := handler.service.Delete(request.Context(), userID, bookID, chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Chapter deleted", chapter)
}

// # Bulk Reorder

/*
PATCH /api/v1/chapters/{bookID}/order.

Description: Atomically reassigns chapter orders within a book.

Request:
  - body: [{"id": string, "order": int}]

Response:
  - 200: []Chapter: Every chapter of the book after the reorder
  - 400: ErrValidation: Blank id, negative order, or duplicates
  - 404: ErrNotFound: A chapter is not in this book
  - 409: ErrConflict: An order is held by an untouched chapter
*/
func (handler *Handler) ReorderChapters(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, _, err := pathIDs(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	placements, err := decodePlacements(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	chapters, err := handler.service.Reorder(request.Context(), userID, bookID, placements)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapters)
}

/*
PATCH /api/v1/chapters/{bookID}/{chapterID}/pages/order.

Description: Atomically reassigns page orders within a chapter. Pages left
out of the body keep their orders.

Request:
  - body: [{"id": string, "order": int}]

Response:
  - 200: []Page: Every page of the chapter after the reorder
  - 404: ErrNotFound: A page is not in this chapter
  - 409: ErrConflict: An order is held by an untouched page
*/
func (handler *Handler) ReorderPages(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookID, chapterID, err := pathIDs(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	placements, err := decodePlacements(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pages, err := handler.pages.Reorder(request.Context(), userID, bookID, chapterID, placements)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}
