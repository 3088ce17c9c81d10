// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package page manages the ordered pages of a chapter.

Page content is an opaque JSON document owned by the editor; the service only
checks that it is well-formed. textContent is a plain-text projection used for
previews, stored in Unicode NFC.
*/
package page

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/taibuivan/folio/pkg/patch"
)

// # Domain Entities

// Page is a single ordered unit of content inside a chapter.
type Page struct {
	ID          string          `json:"id"`
	ChapterID   string          `json:"chapterId"`
	Content     json.RawMessage `json:"content"`
	TextContent *string         `json:"textContent"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateInput carries the caller-supplied fields of a new page.
// A nil Order appends the page after its last sibling.
type CreateInput struct {
	Content     json.RawMessage
	TextContent *string
	Order       *int
}

// Patch is a partial page update. Content and TextContent distinguish an
// omitted key (untouched) from an explicit null (cleared).
type Patch struct {
	Content     patch.Field[json.RawMessage]
	TextContent patch.Field[string]
	Order       *int
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return !p.Content.Set && !p.TextContent.Set && p.Order == nil
}

// Apply writes the patch onto an in-memory page.
func (p Patch) Apply(page *Page) {
	if p.Content.Set {
		page.Content = nil
		if !p.Content.Null {
			page.Content = nullIfEmpty(p.Content.Value)
		}
	}
	page.TextContent = p.TextContent.Apply(page.TextContent)
	if p.Order != nil {
		page.Order = *p.Order
	}
}

// nullIfEmpty folds an absent or literal-null document into SQL NULL.
func nullIfEmpty(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return raw
}
