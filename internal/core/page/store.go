// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import "context"

// # Repository Interfaces

// PageRepository defines persistence operations for pages.
//
// Ownership is checked by the caller before any of these run. Writes that
// touch sortorder must run inside the scope-locked transaction on context.
type PageRepository interface {
	// Create persists a page whose ID and Order are already assigned.
	Create(context context.Context, page *Page) error

	// ListByChapter returns the pages of a chapter ascending by order.
	ListByChapter(context context.Context, chapterID string) ([]*Page, error)

	// FindByID returns a single page, or pgx.ErrNoRows.
	FindByID(context context.Context, id string) (*Page, error)

	// Update writes only the fields present in p, refreshes UpdatedAt and
	// returns the stored row, or pgx.ErrNoRows. sortorder is written only when
	// p.Order is set.
	Update(context context.Context, id string, p Patch) (*Page, error)

	// Delete removes a page and returns the deleted row.
	Delete(context context.Context, id string) (*Page, error)
}
