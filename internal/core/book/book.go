// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book manages the root of the authoring hierarchy.

A Book belongs to exactly one user for its whole life. Every read and write is
scoped by (id, userId), so another user's book is indistinguishable from a
missing one. Deleting a book cascades to its chapters and their pages.
*/
package book

import (
	"time"

	"github.com/taibuivan/folio/pkg/patch"
)

// # Enumerations

// Category classifies a book for the dashboard.
type Category string

const (
	CategoryMemoir   Category = "MEMOIR"
	CategoryBusiness Category = "BUSINESS"
	CategoryYearbook Category = "YEARBOOK"
	CategoryOther    Category = "OTHER"
)

// Categories lists every accepted [Category].
var Categories = []string{
	string(CategoryMemoir),
	string(CategoryBusiness),
	string(CategoryYearbook),
	string(CategoryOther),
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMemoir, CategoryBusiness, CategoryYearbook, CategoryOther:
		return true
	}
	return false
}

// Status is the publication state of a book.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Statuses lists every accepted [Status].
var Statuses = []string{
	string(StatusDraft),
	string(StatusPublished),
	string(StatusArchived),
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// # Domain Entities

// Book is the root entity of the hierarchy.
type Book struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Category    Category  `json:"category"`
	CoverImage  *string   `json:"coverImage"`
	CoverColor  *string   `json:"coverColor"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the caller-supplied fields of a new book.
// Empty Category and Status take their defaults.
type CreateInput struct {
	Title       string
	Description *string
	Category    Category
	CoverImage  *string
	CoverColor  *string
	Status      Status
}

// Patch is a partial update. Nil pointers and unset fields are left alone;
// the nullable columns can also be cleared with an explicit null.
type Patch struct {
	Title       *string
	Description patch.Field[string]
	Category    *Category
	CoverImage  patch.Field[string]
	CoverColor  patch.Field[string]
	Status      *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && p.Category == nil &&
		!p.CoverImage.Set && !p.CoverColor.Set && p.Status == nil
}

// apply writes the patch onto b.
func (p Patch) apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	b.Description = p.Description.Apply(b.Description)
	b.CoverImage = p.CoverImage.Apply(b.CoverImage)
	b.CoverColor = p.CoverColor.Apply(b.CoverColor)
}
