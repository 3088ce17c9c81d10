// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"

	"github.com/taibuivan/folio/internal/core/page"
)

// # Chapter Data Access

// ChapterRepository defines the data access contract for chapters.
//
// Ownership is verified by the service first. Writes that change sortorder
// must run inside the scope-locked transaction carried by context.
type ChapterRepository interface {

	/*
		ListByBook returns all chapters of a book ascending by order.

		Parameters:
		  - context: context.Context
		  - bookID: string

		Returns:
		  - []*Chapter: Chapters with PageCount filled in
		  - error: Storage failures
	*/
	ListByBook(context context.Context, bookID string) ([]*Chapter, error)

	/*
		FindByID returns the chapter with the given ID.

		Returns:
		  - error: pgx.ErrNoRows if missing
	*/
	FindByID(context context.Context, id string) (*Chapter, error)

	/*
		Create persists a new chapter whose ID and Order are already assigned.

		Returns:
		  - error: Storage failure, including the unique (book, order) violation
	*/
	Create(context context.Context, chapter *Chapter) error

	/*
		Update writes only the fields present in p and refreshes UpdatedAt.
		sortorder is written only when p.Order is set.

		Returns:
		  - *Chapter: The stored row after the update
		  - error: pgx.ErrNoRows if missing
	*/
	Update(context context.Context, id string, p Patch) (*Chapter, error)

	/*
		Delete removes the chapter and, by cascade, its pages.

		Returns:
		  - *Chapter: The deleted row
	*/
	Delete(context context.Context, id string) (*Chapter, error)
}

// PageLister reads the pages shown in a chapter detail.
type PageLister interface {
	ListByChapter(context context.Context, chapterID string) ([]*page.Page, error)
}
