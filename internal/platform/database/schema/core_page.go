// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CorePageTable represents the 'core.page' table
type CorePageTable struct {
	Table       string
	ID          string
	ChapterID   string
	Content     string
	TextContent string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
}

// CorePage is the schema definition for core.page
var CorePage = CorePageTable{
	Table:       "core.page",
	ID:          "id",
	ChapterID:   "chapterid",
	Content:     "content",
	TextContent: "textcontent",
	SortOrder:   "sortorder",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all column names in scan order
func (t CorePageTable) Columns() []string {
	return []string{t.ID, t.ChapterID, t.Content, t.TextContent, t.SortOrder, t.CreatedAt, t.UpdatedAt}
}
