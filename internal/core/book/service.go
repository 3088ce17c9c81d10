// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pagination"
	"github.com/taibuivan/folio/pkg/uuid"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldCoverImage  = "coverImage"
	FieldCoverColor  = "coverColor"
	FieldStatus      = "status"

	maxTitleLen       = 255
	maxDescriptionLen = 2000
)

const resource = "Book"

// # Service Layer

// Service orchestrates the business logic for books.
type Service struct {
	bookRepo BookRepository
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required repositories.
func NewService(bookRepo BookRepository, logger *slog.Logger) *Service {
	return &Service{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// # Book Operations

/*
Create starts a new book for the user.

Parameters:
  - context: context.Context
  - userID: string (Internal user id of the owner)
  - input: CreateInput

Returns:
  - *Book: The persisted book with server-assigned fields
  - error: Validation or persistence errors
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Book, error) {
	book := &Book{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		CoverImage:  input.CoverImage,
		CoverColor:  input.CoverColor,
		Status:      input.Status,
	}

	if book.Category == "" {
		book.Category = CategoryOther
	}
	if book.Status == "" {
		book.Status = StatusDraft
	}

	if err := validateBook(book); err != nil {
		return nil, err
	}

	if err := service.bookRepo.Create(context, book); err != nil {
		return nil, dberr.Wrap(err, resource, "create book")
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("user_id", userID),
	)

	return book, nil
}

/*
List returns one page of the user's books, most recently updated first.

Returns:
  - []*Book: The requested page (never nil)
  - int: Total books owned by the user
*/
func (service *Service) List(context context.Context, userID string, params pagination.Params) ([]*Book, int, error) {
	books, total, err := service.bookRepo.ListByOwner(context, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list books")
	}
	return books, total, nil
}

/*
Get returns a single owned book.

Returns:
  - error: NOT_FOUND when the book is missing or belongs to another user
*/
func (service *Service) Get(context context.Context, userID, id string) (*Book, error) {
	book, err := service.bookRepo.FindOwned(context, id, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get book")
	}
	return book, nil
}

/*
Update applies a partial update to an owned book.

Description: The stored row is loaded, patched in memory, validated as a
whole and written back. An empty patch returns the book unchanged.

Returns:
  - *Book: The book after the update
  - error: NOT_FOUND, VALIDATION_ERROR or persistence errors
*/
func (service *Service) Update(context context.Context, userID, id string, p Patch) (*Book, error) {
	book, err := service.bookRepo.FindOwned(context, id, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "load book")
	}

	if p.IsEmpty() {
		return book, nil
	}

	p.apply(book)
	if err := validateBook(book); err != nil {
		return nil, err
	}

	if err := service.bookRepo.Update(context, book); err != nil {
		return nil, dberr.Wrap(err, resource, "update book")
	}

	service.logger.Info("book_updated", slog.String("book_id", book.ID))
	return book, nil
}

/*
Delete removes an owned book together with its chapters and pages.

Returns:
  - *Book: The deleted book
*/
func (service *Service) Delete(context context.Context, userID, id string) (*Book, error) {
	book, err := service.bookRepo.DeleteOwned(context, id, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "delete book")
	}

	service.logger.Info("book_deleted",
		slog.String("book_id", book.ID),
		slog.String("user_id", userID),
	)
	return book, nil
}

// # Validation

func validateBook(book *Book) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, maxTitleLen)
	validator.Custom(FieldCategory, !book.Category.IsValid(), "Must be one of: "+strings.Join(Categories, ", "))
	validator.Custom(FieldStatus, !book.Status.IsValid(), "Must be one of: "+strings.Join(Statuses, ", "))

	if book.Description != nil {
		validator.MaxLen(FieldDescription, *book.Description, maxDescriptionLen)
	}
	if book.CoverImage != nil {
		validator.HTTPURL(FieldCoverImage, *book.CoverImage)
	}
	if book.CoverColor != nil {
		validator.HexColor(FieldCoverColor, *book.CoverColor)
	}

	return validator.Err()
}
