// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/folio/internal/platform/middleware"
	requestutil "github.com/taibuivan/folio/internal/platform/request"
	"github.com/taibuivan/folio/internal/platform/respond"
	"github.com/taibuivan/folio/pkg/pagination"
	"github.com/taibuivan/folio/pkg/patch"
)

// # Handler Implementation

// Handler implements the HTTP layer for book management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new book [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the book endpoints. All of them require a resolved user.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)

		user.Route("/books", func(books chi.Router) {
			books.Get("/", handler.ListBooks)
			books.Post("/", handler.CreateBook)
			books.Get("/{id}", handler.GetBook)
			books.Patch("/{id}", handler.UpdateBook)
			books.Delete("/{id}", handler.DeleteBook)
		})
	})
}

// # Request DTOs

// createBookRequest defines the inbound JSON schema for a new book.
type createBookRequest struct {
	Title       string   `json:"title"       validate:"required,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Category    Category `json:"category"    validate:"omitempty,oneof=MEMOIR BUSINESS YEARBOOK OTHER"`
	CoverImage  *string  `json:"coverImage"  validate:"omitempty,http_url"`
	CoverColor  *string  `json:"coverColor"  validate:"omitempty,hexcolor"`
	Status      Status   `json:"status"      validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// updateBookRequest distinguishes omitted keys from explicit nulls on the nullable columns.
type updateBookRequest struct {
	Title       *string             `json:"title"    validate:"omitempty,min=1,max=255"`
	Description patch.Field[string] `json:"description"`
	Category    *Category           `json:"category" validate:"omitempty,oneof=MEMOIR BUSINESS YEARBOOK OTHER"`
	CoverImage  patch.Field[string] `json:"coverImage"`
	CoverColor  patch.Field[string] `json:"coverColor"`
	Status      *Status             `json:"status"   validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// # Book Retrieval

/*
GET /api/v1/books.

Description: Returns the caller's books, most recently updated first.

Request:
  - page: int
  - limit: int

Response:
  - 200: []Book: Paginated list
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListBooks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	books, total, err := handler.service.List(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(params, total))
}

/*
GET /api/v1/books/{id}.

Response:
  - 200: Book
  - 400: ErrValidation: id is not a UUID
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) GetBook(writer http.ResponseWriter, request *http.Request) {
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

	book, err := handler.service.Get(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// # Book Mutation

/*
POST /api/v1/books.

Request:
  - body: createBookRequest

Response:
  - 201: Book: Created book
  - 400: ErrValidation: Invalid payload
*/
func (handler *Handler) CreateBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createBookRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Create(request.Context(), userID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

/*
PATCH /api/v1/books/{id}.

Description: Partial update. Omitted keys are left alone; description,
coverImage and coverColor are cleared by an explicit null.

Response:
  - 200: Book: Updated book
  - 400: ErrValidation: Invalid payload
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) UpdateBook(writer http.ResponseWriter, request *http.Request) {
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

	var input updateBookRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Update(request.Context(), userID, id, Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
DELETE /api/v1/books/{id}.

Description: Deletes the book with all of its chapters and pages.

Response:
  - 200: Book: The deleted book
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) DeleteBook(writer http.ResponseWriter, request *http.Request) {
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

	book, err := handler.service.Delete(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Book deleted", book)
}
