// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/pointer"
)

var (
	book    = schema.CoreBook
	chapter = schema.CoreChapter
	page    = schema.CorePage
)

// PostgresLookup implements [Lookup] with LEFT JOINs so a broken chain is
// reported as a missing ancestor rather than a missing target.
type PostgresLookup struct {
	pool *pgxpool.Pool
}

// NewPostgresLookup creates a new PostgreSQL-backed ancestry lookup.
func NewPostgresLookup(pool *pgxpool.Pool) *PostgresLookup {
	return &PostgresLookup{pool: pool}
}

// BookOwnedBy implements [Lookup].
func (repository *PostgresLookup) BookOwnedBy(ctx context.Context, bookID, userID string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		book.Table, book.ID, book.UserID)

	var owned bool
	err := postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, bookID, userID).Scan(&owned)
	return owned, err
}

// ChapterAncestry implements [Lookup].
func (repository *PostgresLookup) ChapterAncestry(ctx context.Context, chapterID string) (*Ancestry, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, b.%s, b.%s
		FROM %s c
		LEFT JOIN %s b ON b.%s = c.%s
		WHERE c.%s = $1`,
		chapter.ID, book.ID, book.UserID,
		chapter.Table,
		book.Table, book.ID, chapter.BookID,
		chapter.ID,
	)

	var chapterIDOut string
	var bookID, ownerID *string
	err := postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, chapterID).Scan(&chapterIDOut, &bookID, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &Ancestry{ChapterID: chapterIDOut, BookID: pointer.Val(bookID), OwnerID: pointer.Val(ownerID)}, nil
}

// PageAncestry implements [Lookup].
func (repository *PostgresLookup) PageAncestry(ctx context.Context, pageID string) (*Ancestry, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, c.%s, b.%s, b.%s
		FROM %s p
		LEFT JOIN %s c ON c.%s = p.%s
		LEFT JOIN %s b ON b.%s = c.%s
		WHERE p.%s = $1`,
		page.ID, chapter.ID, book.ID, book.UserID,
		page.Table,
		chapter.Table, chapter.ID, page.ChapterID,
		book.Table, book.ID, chapter.BookID,
		page.ID,
	)

	var pageIDOut string
	var chapterID, bookID, ownerID *string
	err := postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, pageID).Scan(&pageIDOut, &chapterID, &bookID, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &Ancestry{PageID: pageIDOut, ChapterID: pointer.Val(chapterID), BookID: pointer.Val(bookID), OwnerID: pointer.Val(ownerID)}, nil
}
