// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"

	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/core/ownership"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/uuid"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldOrder       = "order"

	maxTitleLen       = 255
	maxDescriptionLen = 2000
)

const resource = "Chapter"

// # Service Layer

// Service orchestrates the business logic for chapters.
type Service struct {
	chapterRepo ChapterRepository
	pages       PageLister
	guard       *ownership.Guard
	engine      *ordering.Engine
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(chapterRepo ChapterRepository, pages PageLister, guard *ownership.Guard, engine *ordering.Engine, logger *slog.Logger) *Service {
	return &Service{
		chapterRepo: chapterRepo,
		pages:       pages,
		guard:       guard,
		engine:      engine,
		logger:      logger,
	}
}

// # Chapter Retrieval

/*
List retrieves the chapters of an owned book.

Parameters:
  - ctx: context.Context
  - userID: string (Internal id of the caller)
  - bookID: string

Returns:
  - []*Chapter: Chapters ascending by order, each with its page count
  - error: NOT_FOUND when the book is missing or not owned
*/
func (service *Service) List(ctx context.Context, userID, bookID string) ([]*Chapter, error) {
	if _, err := service.guard.Book(ctx, userID, bookID); err != nil {
		return nil, err
	}

	chapters, err := service.chapterRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list chapters")
	}
	return chapters, nil
}

/*
Get retrieves a chapter of a book together with its pages.

Returns:
  - *Detail: The chapter with pages ascending by order
  - error: NOT_FOUND, or UNAUTHORIZED when another user owns the book
*/
func (service *Service) Get(ctx context.Context, userID, bookID, id string) (*Detail, error) {
	lineage, err := service.guard.ChapterInBook(ctx, userID, bookID, id)
	if err != nil {
		return nil, err
	}

	chapter, err := service.chapterRepo.FindByID(ctx, lineage.ChapterID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get chapter")
	}

	pages, err := service.pages.ListByChapter(ctx, lineage.ChapterID)
	if err != nil {
		return nil, dberr.Wrap(err, "Page", "list chapter pages")
	}

	return &Detail{Chapter: chapter, Pages: pages}, nil
}

// # Chapter Mutation

/*
Create adds a chapter to an owned book.

Description: Without an explicit order the chapter is appended after the
book's last chapter. The order is resolved and the row inserted under the
book's scope lock.

Returns:
  - *Chapter: The persisted chapter
  - error: NOT_FOUND, VALIDATION_ERROR or CONFLICT
*/
func (service *Service) Create(ctx context.Context, userID, bookID string, input CreateInput) (*Chapter, error) {
	lineage, err := service.guard.Book(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	chapter := &Chapter{
		ID:          uuid.New(),
		BookID:      lineage.BookID,
		Title:       input.Title,
		Description: input.Description,
	}

	validator := &validate.Validator{}
	validateChapter(validator, chapter)
	if input.Order != nil {
		ordering.CheckOrder(validator, FieldOrder, *input.Order)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	err = service.engine.Place(ctx, ordering.ChapterScope(chapter.BookID), input.Order, func(txCtx context.Context, order int) error {
		chapter.Order = order
		return service.chapterRepo.Create(txCtx, chapter)
	})
	if err != nil {
		return nil, dberr.Wrap(err, resource, "create chapter")
	}

	service.logger.Info("chapter_created",
		slog.String("chapter_id", chapter.ID),
		slog.String("book_id", chapter.BookID),
		slog.Int("order", chapter.Order),
	)

	return chapter, nil
}

/*
Update applies a partial update to a chapter of a book.

Description: A description sent as null is cleared; an omitted one is kept.
Only the fields present in the patch are written. An order change runs under
the book's scope lock and surfaces CONFLICT if another chapter already holds
that order.
*/
func (service *Service) Update(ctx context.Context, userID, bookID, id string, p Patch) (*Chapter, error) {
	lineage, err := service.guard.ChapterInBook(ctx, userID, bookID, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if p.Title != nil {
		validator.Required(FieldTitle, *p.Title).MaxLen(FieldTitle, *p.Title, maxTitleLen)
	}
	if p.Description.Set && !p.Description.Null {
		validator.MaxLen(FieldDescription, p.Description.Value, maxDescriptionLen)
	}
	if p.Order != nil {
		ordering.CheckOrder(validator, FieldOrder, *p.Order)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if p.IsEmpty() {
		chapter, err := service.chapterRepo.FindByID(ctx, lineage.ChapterID)
		if err != nil {
			return nil, dberr.Wrap(err, resource, "get chapter")
		}
		return chapter, nil
	}

	var chapter *Chapter
	write := func(txCtx context.Context) error {
		updated, err := service.chapterRepo.Update(txCtx, lineage.ChapterID, p)
		chapter = updated
		return err
	}

	if p.Order != nil {
		err = service.engine.WithScopeLock(ctx, ordering.ChapterScope(lineage.BookID), write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, dberr.Wrap(err, resource, "update chapter")
	}

	service.logger.Info("chapter_updated",
		slog.String("chapter_id", chapter.ID),
		slog.Bool("order_changed", p.Order != nil),
	)
	return chapter, nil
}

/*
Delete removes a chapter and its pages.

Returns:
  - *Chapter: The deleted chapter
*/
func (service *Service) Delete(ctx context.Context, userID, bookID, id string) (*Chapter, error) {
	lineage, err := service.guard.ChapterInBook(ctx, userID, bookID, id)
	if err != nil {
		return nil, err
	}

	chapter, err := service.chapterRepo.Delete(ctx, lineage.ChapterID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "delete chapter")
	}

	service.logger.Info("chapter_deleted",
		slog.String("chapter_id", chapter.ID),
		slog.String("book_id", chapter.BookID),
	)
	return chapter, nil
}

/*
Reorder reassigns the order of some or all chapters of a book atomically.

Description: Chapters left out of placements keep their orders. A placement
naming a chapter of another book aborts the whole reorder.

Returns:
  - []*Chapter: Every chapter of the book, ascending by order
*/
func (service *Service) Reorder(ctx context.Context, userID, bookID string, placements []ordering.Placement) ([]*Chapter, error) {
	lineage, err := service.guard.Book(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	applied, err := service.engine.Reorder(ctx, ordering.ChapterScope(lineage.BookID), placements)
	if err != nil {
		return nil, err
	}

	service.logger.Info("chapters_reordered",
		slog.String("book_id", lineage.BookID),
		slog.Int("count", len(applied)),
	)

	chapters, err := service.chapterRepo.ListByBook(ctx, lineage.BookID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list chapters")
	}
	return chapters, nil
}

// # Validation

func validateChapter(validator *validate.Validator, chapter *Chapter) {
	validator.Required(FieldTitle, chapter.Title).MaxLen(FieldTitle, chapter.Title, maxTitleLen)
	if chapter.Description != nil {
		validator.MaxLen(FieldDescription, *chapter.Description, maxDescriptionLen)
	}
}
