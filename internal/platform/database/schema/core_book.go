// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreBookTable represents the 'core.book' table
type CoreBookTable struct {
	Table       string
	ID          string
	UserID      string
	Title       string
	Description string
	Category    string
	CoverImage  string
	CoverColor  string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// CoreBook is the schema definition for core.book
var CoreBook = CoreBookTable{
	Table:       "core.book",
	ID:          "id",
	UserID:      "userid",
	Title:       "title",
	Description: "description",
	Category:    "category",
	CoverImage:  "coverimage",
	CoverColor:  "covercolor",
	Status:      "status",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all column names in scan order
func (t CoreBookTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Title, t.Description, t.Category,
		t.CoverImage, t.CoverColor, t.Status, t.CreatedAt, t.UpdatedAt,
	}
}
