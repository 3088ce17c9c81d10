// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table       string
	ID          string
	BookID      string
	Title       string
	Description string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:       "core.chapter",
	ID:          "id",
	BookID:      "bookid",
	Title:       "title",
	Description: "description",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all column names in scan order
func (t CoreChapterTable) Columns() []string {
	return []string{t.ID, t.BookID, t.Title, t.Description, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
