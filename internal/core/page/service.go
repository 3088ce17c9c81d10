// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/core/ownership"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/patch"
	"github.com/taibuivan/folio/pkg/uuid"
)

const (
	FieldContent     = "content"
	FieldTextContent = "textContent"
	FieldOrder       = "order"
)

const resource = "Page"

// # Service Layer

// Service orchestrates the business logic for pages.
// Every operation runs the ownership guard before touching a page.
type Service struct {
	pageRepo PageRepository
	guard    *ownership.Guard
	engine   *ordering.Engine
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(pageRepo PageRepository, guard *ownership.Guard, engine *ordering.Engine, logger *slog.Logger) *Service {
	return &Service{
		pageRepo: pageRepo,
		guard:    guard,
		engine:   engine,
		logger:   logger,
	}
}

// # Page Operations

/*
Create adds a page to a chapter.

Description: Without an explicit order the page lands after the chapter's
last page. The order is resolved and the row inserted under the chapter's
scope lock, so concurrent appends never receive the same order.

Parameters:
  - ctx: context.Context
  - userID: string (Internal id of the caller)
  - chapterID: string
  - input: CreateInput

Returns:
  - *Page: The persisted page
  - error: NOT_FOUND/UNAUTHORIZED from the guard, VALIDATION_ERROR, CONFLICT
*/
func (service *Service) Create(ctx context.Context, userID, chapterID string, input CreateInput) (*Page, error) {
	lineage, err := service.guard.Chapter(ctx, userID, chapterID)
	if err != nil {
		return nil, err
	}

	page := &Page{
		ID:          uuid.New(),
		ChapterID:   lineage.ChapterID,
		Content:     nullIfEmpty(input.Content),
		TextContent: normalizeText(input.TextContent),
	}

	validator := &validate.Validator{}
	validateContent(validator, page.Content)
	if input.Order != nil {
		ordering.CheckOrder(validator, FieldOrder, *input.Order)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	err = service.engine.Place(ctx, ordering.PageScope(page.ChapterID), input.Order, func(txCtx context.Context, order int) error {
		page.Order = order
		return service.pageRepo.Create(txCtx, page)
	})
	if err != nil {
		return nil, dberr.Wrap(err, resource, "create page")
	}

	service.logger.Info("page_created",
		slog.String("page_id", page.ID),
		slog.String("chapter_id", page.ChapterID),
		slog.Int("order", page.Order),
	)

	return page, nil
}

/*
List returns the pages of a chapter ascending by order.
*/
func (service *Service) List(ctx context.Context, userID, chapterID string) ([]*Page, error) {
	lineage, err := service.guard.Chapter(ctx, userID, chapterID)
	if err != nil {
		return nil, err
	}

	pages, err := service.pageRepo.ListByChapter(ctx, lineage.ChapterID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list pages")
	}
	return pages, nil
}

// Get returns a single page.
func (service *Service) Get(ctx context.Context, userID, id string) (*Page, error) {
	if _, err := service.guard.Page(ctx, userID, id); err != nil {
		return nil, err
	}

	page, err := service.pageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get page")
	}
	return page, nil
}

/*
Update applies a partial update to a page.

Description: An omitted content or textContent key leaves the stored value
alone; an explicit null clears it. Only the fields present in the patch are
written, so an edit without an order never touches sortorder. An order change
is written under the chapter's scope lock and surfaces CONFLICT if a sibling
already holds it.

Returns:
  - *Page: The page after the update
*/
func (service *Service) Update(ctx context.Context, userID, id string, p Patch) (*Page, error) {
	lineage, err := service.guard.Page(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Content.Set && !p.Content.Null && nullIfEmpty(p.Content.Value) == nil {
		p.Content = patch.Null[json.RawMessage]()
	}

	validator := &validate.Validator{}
	if p.Content.Set && !p.Content.Null {
		validateContent(validator, p.Content.Value)
	}
	if p.Order != nil {
		ordering.CheckOrder(validator, FieldOrder, *p.Order)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if p.TextContent.Set && !p.TextContent.Null {
		p.TextContent.Value = norm.NFC.String(p.TextContent.Value)
	}

	if p.IsEmpty() {
		page, err := service.pageRepo.FindByID(ctx, id)
		if err != nil {
			return nil, dberr.Wrap(err, resource, "get page")
		}
		return page, nil
	}

	var page *Page
	write := func(txCtx context.Context) error {
		updated, err := service.pageRepo.Update(txCtx, id, p)
		page = updated
		return err
	}

	if p.Order != nil {
		err = service.engine.WithScopeLock(ctx, ordering.PageScope(lineage.ChapterID), write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, dberr.Wrap(err, resource, "update page")
	}

	service.logger.Info("page_updated",
		slog.String("page_id", page.ID),
		slog.Bool("order_changed", p.Order != nil),
	)

	return page, nil
}

// Delete removes a page and returns it.
func (service *Service) Delete(ctx context.Context, userID, id string) (*Page, error) {
	if _, err := service.guard.Page(ctx, userID, id); err != nil {
		return nil, err
	}

	page, err := service.pageRepo.Delete(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "delete page")
	}

	service.logger.Info("page_deleted",
		slog.String("page_id", page.ID),
		slog.String("chapter_id", page.ChapterID),
	)
	return page, nil
}

/*
Reorder reassigns the order of some or all pages of a chapter in one atomic step.

Description: The chapter must belong to bookID and to the caller. Pages left
out of placements keep their orders. Any placement naming a page outside the
chapter aborts the whole reorder.

Returns:
  - []*Page: Every page of the chapter, ascending by order, after the reorder
  - error: NOT_FOUND, UNAUTHORIZED, VALIDATION_ERROR or CONFLICT
*/
func (service *Service) Reorder(ctx context.Context, userID, bookID, chapterID string, placements []ordering.Placement) ([]*Page, error) {
	lineage, err := service.guard.ChapterInBook(ctx, userID, bookID, chapterID)
	if err != nil {
		return nil, err
	}

	applied, err := service.engine.Reorder(ctx, ordering.PageScope(lineage.ChapterID), placements)
	if err != nil {
		return nil, err
	}

	service.logger.Info("pages_reordered",
		slog.String("chapter_id", lineage.ChapterID),
		slog.Int("count", len(applied)),
	)

	pages, err := service.pageRepo.ListByChapter(ctx, lineage.ChapterID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list pages")
	}
	return pages, nil
}

// # Helpers

func normalizeText(text *string) *string {
	if text == nil {
		return nil
	}
	normalized := norm.NFC.String(*text)
	return &normalized
}

func validateContent(validator *validate.Validator, content json.RawMessage) {
	if content != nil {
		validator.Custom(FieldContent, !json.Valid(content), "Must be a valid JSON document")
	}
}
