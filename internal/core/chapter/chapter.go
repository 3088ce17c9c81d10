// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter manages the ordered chapters of a book.

Chapters are always addressed through their book: every route carries the
bookId, and a chapter found under a different book is reported as missing.
Chapter order shares the two-phase reorder of the ordering engine with pages.
*/
package chapter

import (
	"time"

	"github.com/taibuivan/folio/internal/core/page"
	"github.com/taibuivan/folio/pkg/patch"
)

// # Domain Entities

// Chapter is an ordered section of a book.
type Chapter struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// PageCount is filled by list reads only.
	PageCount *int `json:"pageCount,omitempty"`
}

// Detail is a chapter with its pages ascending by order.
type Detail struct {
	*Chapter
	Pages []*page.Page `json:"pages"`
}

// CreateInput carries the caller-supplied fields of a new chapter.
// A nil Order appends the chapter after the book's last chapter.
type CreateInput struct {
	Title       string
	Description *string
	Order       *int
}

// Patch is a partial chapter update.
type Patch struct {
	Title       *string
	Description patch.Field[string]
	Order       *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Order == nil
}

// Apply writes the patch onto an in-memory chapter.
func (p Patch) Apply(chapter *Chapter) {
	if p.Title != nil {
		chapter.Title = *p.Title
	}
	chapter.Description = p.Description.Apply(chapter.Description)
	if p.Order != nil {
		chapter.Order = *p.Order
	}
}
