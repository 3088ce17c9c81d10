// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ownership decides whether a caller may touch a book, chapter or page.

Every chapter and page belongs to exactly one book, and the book's owner is the
transitive owner of everything beneath it. The decision itself is a pure
function of (caller, ancestry); [Guard] only adds the lookup.

Outcomes:

  - Book targets: any miss is NOT_FOUND. A caller cannot learn that someone
    else's book exists.
  - Chapter and page targets: a missing entity or ancestor is NOT_FOUND; an
    existing entity under another owner's book is UNAUTHORIZED.
*/
package ownership

import (
	"github.com/taibuivan/folio/internal/platform/apperr"
)

// Verdict is the outcome of an ownership decision.
type Verdict int

const (
	// Allowed lets the caller act on the target.
	Allowed Verdict = iota
	// NotFound reports a missing target or ancestor, or a book the caller
	// does not own. Maps to 404.
	NotFound
	// Unauthorized reports a chapter or page that exists under another
	// owner's book. Maps to 401.
	Unauthorized
)

func (verdict Verdict) String() string {
	switch verdict {
	case Allowed:
		return "allowed"
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Ancestry is the containment chain of a chapter or page as stored.
// Empty ids mean the row was not found.
type Ancestry struct {
	PageID    string
	ChapterID string
	BookID    string
	OwnerID   string
}

// Lineage is the verified chain handed to the operation after an allow.
type Lineage struct {
	BookID    string
	ChapterID string
	PageID    string
}

// Result carries a verdict and, when allowed, the verified lineage.
type Result struct {
	Verdict Verdict
	Lineage Lineage
	Reason  string
}

// Err converts the result into the error returned to callers; nil when allowed.
func (result Result) Err() error {
	switch result.Verdict {
	case Allowed:
		return nil
	case Unauthorized:
		return apperr.Unauthorized(result.Reason)
	default:
		return apperr.NotFoundMessage(result.Reason)
	}
}

func deny(verdict Verdict, reason string) Result {
	return Result{Verdict: verdict, Reason: reason}
}

// DecideBook judges a book target from the (id, owner) compound lookup.
func DecideBook(bookID string, ownedByCaller bool) Result {
	if !ownedByCaller {
		return deny(NotFound, "Book not found")
	}
	return Result{Verdict: Allowed, Lineage: Lineage{BookID: bookID}}
}

// DecideChapter judges a chapter target. ancestry is nil when the chapter is missing.
func DecideChapter(userID string, ancestry *Ancestry) Result {
	switch {
	case ancestry == nil || ancestry.ChapterID == "":
		return deny(NotFound, "Chapter not found")
	case ancestry.BookID == "":
		return deny(NotFound, "Book not found")
	case ancestry.OwnerID != userID:
		return deny(Unauthorized, "You do not have access to this chapter")
	}
	return Result{Verdict: Allowed, Lineage: Lineage{BookID: ancestry.BookID, ChapterID: ancestry.ChapterID}}
}

// DecideChapterInBook judges a chapter addressed under a claimed book.
// A chapter living under a different book does not exist at that path.
func DecideChapterInBook(userID, claimedBookID string, ancestry *Ancestry) Result {
	result := DecideChapter(userID, ancestry)
	if result.Verdict == Allowed && result.Lineage.BookID != claimedBookID {
		return deny(NotFound, "Chapter not found")
	}
	return result
}

// DecidePage judges a page target. ancestry is nil when the page is missing.
func DecidePage(userID string, ancestry *Ancestry) Result {
	switch {
	case ancestry == nil || ancestry.PageID == "":
		return deny(NotFound, "Page not found")
	case ancestry.ChapterID == "":
		return deny(NotFound, "Chapter not found for this page")
	case ancestry.BookID == "":
		return deny(NotFound, "Book not found for this page")
	case ancestry.OwnerID != userID:
		return deny(Unauthorized, "You do not have access to this page")
	}
	return Result{Verdict: Allowed, Lineage: Lineage{
		BookID:    ancestry.BookID,
		ChapterID: ancestry.ChapterID,
		PageID:    ancestry.PageID,
	}}
}
