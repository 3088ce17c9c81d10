// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/book"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres/postgrestest"
	"github.com/taibuivan/folio/pkg/uuid"
)

func countRows(t *testing.T, pool *pgxpool.Pool, table, column string, ids ...string) int {
	t.Helper()

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ANY($1)", table, column)
	require.NoError(t, pool.QueryRow(context.Background(), query, ids).Scan(&count))
	return count
}

/*
TestPostgres_DeleteCascades removes a book with two chapters of three pages
each and leaves no child rows behind.
*/
func TestPostgres_DeleteCascades(t *testing.T) {
	pool := postgrestest.Open(t)
	ctx := context.Background()
	owner := postgrestest.Account(t, pool)
	repo := book.NewBookRepository(pool)

	created := &book.Book{
		ID:       uuid.New(),
		UserID:   owner,
		Title:    "Family Recipes",
		Category: book.CategoryMemoir,
		Status:   book.StatusDraft,
	}
	require.NoError(t, repo.Create(ctx, created))

	var chapters []string
	for order := 1; order <= 2; order++ {
		chapterID := postgrestest.Chapter(t, pool, created.ID, order)
		chapters = append(chapters, chapterID)
		for pageOrder := 1; pageOrder <= 3; pageOrder++ {
			postgrestest.Page(t, pool, chapterID, pageOrder)
		}
	}
	require.Equal(t, 6, countRows(t, pool, schema.CorePage.Table, schema.CorePage.ChapterID, chapters...))

	deleted, err := repo.DeleteOwned(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "Family Recipes", deleted.Title)

	assert.Zero(t, countRows(t, pool, schema.CoreBook.Table, schema.CoreBook.ID, created.ID))
	assert.Zero(t, countRows(t, pool, schema.CoreChapter.Table, schema.CoreChapter.BookID, created.ID))
	assert.Zero(t, countRows(t, pool, schema.CorePage.Table, schema.CorePage.ChapterID, chapters...))
}

/*
TestPostgres_DeleteRequiresOwner leaves another user's book and its children
in place and reports no rows.
*/
func TestPostgres_DeleteRequiresOwner(t *testing.T) {
	pool := postgrestest.Open(t)
	ctx := context.Background()
	owner := postgrestest.Account(t, pool)
	stranger := postgrestest.Account(t, pool)
	repo := book.NewBookRepository(pool)

	bookID := postgrestest.Book(t, pool, owner)
	postgrestest.Chapter(t, pool, bookID, 1)

	_, err := repo.DeleteOwned(ctx, bookID, stranger)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = repo.FindOwned(ctx, bookID, stranger)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	found, err := repo.FindOwned(ctx, bookID, owner)
	require.NoError(t, err)
	assert.Equal(t, bookID, found.ID)
	assert.Equal(t, 1, countRows(t, pool, schema.CoreChapter.Table, schema.CoreChapter.BookID, bookID))
}
