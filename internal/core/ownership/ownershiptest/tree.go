// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ownershiptest provides an in-memory [ownership.Lookup] for tests.
package ownershiptest

import (
	"context"
	"sync"

	"github.com/taibuivan/folio/internal/core/ownership"
)

// Tree records which user owns each book, which book holds each chapter,
// and which chapter holds each page.
type Tree struct {
	mu       sync.RWMutex
	books    map[string]string
	chapters map[string]string
	pages    map[string]string
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		books:    make(map[string]string),
		chapters: make(map[string]string),
		pages:    make(map[string]string),
	}
}

// AddBook registers a book owned by userID.
func (tree *Tree) AddBook(bookID, userID string) *Tree {
	tree.mu.Lock()
	defer tree.mu.Unlock()
	tree.books[bookID] = userID
	return tree
}

// AddChapter registers a chapter under bookID.
func (tree *Tree) AddChapter(chapterID, bookID string) *Tree {
	tree.mu.Lock()
	defer tree.mu.Unlock()
	tree.chapters[chapterID] = bookID
	return tree
}

// AddPage registers a page under chapterID.
func (tree *Tree) AddPage(pageID, chapterID string) *Tree {
	tree.mu.Lock()
	defer tree.mu.Unlock()
	tree.pages[pageID] = chapterID
	return tree
}

// BookOwnedBy implements [ownership.Lookup].
func (tree *Tree) BookOwnedBy(_ context.Context, bookID, userID string) (bool, error) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()
	owner, ok := tree.books[bookID]
	return ok && owner == userID, nil
}

// ChapterAncestry implements [ownership.Lookup].
func (tree *Tree) ChapterAncestry(_ context.Context, chapterID string) (*ownership.Ancestry, error) {
	tree.mu.RLock()
	defer tree.mu.RUnlock()

	bookID, ok := tree.chapters[chapterID]
	if !ok {
		return nil, nil
	}
	ancestry := &ownership.Ancestry{ChapterID: chapterID}
	if owner, ok := tree.books[bookID]; ok {
		ancestry.BookID, ancestry.OwnerID = bookID, owner
	}
	return ancestry, nil
}

// PageAncestry implements [ownership.Lookup].
func (tree *Tree) PageAncestry(ctx context.Context, pageID string) (*ownership.Ancestry, error) {
	tree.mu.RLock()
	chapterID, ok := tree.pages[pageID]
	tree.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	ancestry := &ownership.Ancestry{PageID: pageID}
	parent, _ := tree.ChapterAncestry(ctx, chapterID)
	if parent != nil {
		ancestry.ChapterID, ancestry.BookID, ancestry.OwnerID = parent.ChapterID, parent.BookID, parent.OwnerID
	}
	return ancestry, nil
}
