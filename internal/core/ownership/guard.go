// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ownership

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/folio/internal/platform/dberr"
)

var tracer = otel.Tracer("github.com/taibuivan/folio/internal/core/ownership")

// Lookup reads the ancestry needed for ownership decisions. It is read-only.
type Lookup interface {
	// BookOwnedBy reports whether a book with id exists and belongs to userID.
	BookOwnedBy(ctx context.Context, bookID, userID string) (bool, error)

	// ChapterAncestry returns the chapter and its book, or nil if the chapter is missing.
	ChapterAncestry(ctx context.Context, chapterID string) (*Ancestry, error)

	// PageAncestry returns the page, its chapter and book in one read, or nil if the page is missing.
	PageAncestry(ctx context.Context, pageID string) (*Ancestry, error)
}

// Guard runs ownership checks ahead of every chapter and page operation.
type Guard struct {
	lookup Lookup
}

// NewGuard creates a new ownership guard.
func NewGuard(lookup Lookup) *Guard {
	return &Guard{lookup: lookup}
}

// Book checks a book target.
func (guard *Guard) Book(ctx context.Context, userID, bookID string) (Lineage, error) {
	ctx, span := start(ctx, "ownership.Book", bookID)
	defer span.End()

	owned, err := guard.lookup.BookOwnedBy(ctx, bookID, userID)
	if err != nil {
		return Lineage{}, dberr.Wrap(err, "Book", "check book owner")
	}
	return finish(span, DecideBook(bookID, owned))
}

// Chapter checks a chapter target addressed by id alone.
func (guard *Guard) Chapter(ctx context.Context, userID, chapterID string) (Lineage, error) {
	ctx, span := start(ctx, "ownership.Chapter", chapterID)
	defer span.End()

	ancestry, err := guard.lookup.ChapterAncestry(ctx, chapterID)
	if err != nil {
		return Lineage{}, dberr.Wrap(err, "Chapter", "load chapter ancestry")
	}
	return finish(span, DecideChapter(userID, ancestry))
}

// ChapterInBook checks a chapter target addressed under a book path segment.
func (guard *Guard) ChapterInBook(ctx context.Context, userID, bookID, chapterID string) (Lineage, error) {
	ctx, span := start(ctx, "ownership.ChapterInBook", chapterID)
	defer span.End()

	ancestry, err := guard.lookup.ChapterAncestry(ctx, chapterID)
	if err != nil {
		return Lineage{}, dberr.Wrap(err, "Chapter", "load chapter ancestry")
	}
	return finish(span, DecideChapterInBook(userID, bookID, ancestry))
}

// Page checks a page target.
func (guard *Guard) Page(ctx context.Context, userID, pageID string) (Lineage, error) {
	ctx, span := start(ctx, "ownership.Page", pageID)
	defer span.End()

	ancestry, err := guard.lookup.PageAncestry(ctx, pageID)
	if err != nil {
		return Lineage{}, dberr.Wrap(err, "Page", "load page ancestry")
	}
	return finish(span, DecidePage(userID, ancestry))
}

func start(ctx context.Context, name, targetID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("folio.target_id", targetID)))
}

func finish(span trace.Span, result Result) (Lineage, error) {
	span.SetAttributes(attribute.String("folio.verdict", result.Verdict.String()))
	if err := result.Err(); err != nil {
		return Lineage{}, err
	}
	return result.Lineage, nil
}
