// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/chapter"
	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/internal/platform/postgres/postgrestest"
	"github.com/taibuivan/folio/pkg/patch"
	"github.com/taibuivan/folio/pkg/pointer"
	"github.com/taibuivan/folio/pkg/uuid"
)

/*
TestPostgres_UpdateKeepsReorderedPosition renames a chapter after a reorder
moved it; only the title column changes.
*/
func TestPostgres_UpdateKeepsReorderedPosition(t *testing.T) {
	pool := postgrestest.Open(t)
	ctx := context.Background()
	bookID := postgrestest.Book(t, pool, postgrestest.Account(t, pool))

	repo := chapter.NewChapterRepository(pool)
	first := &chapter.Chapter{ID: uuid.New(), BookID: bookID, Title: "One", Description: pointer.To("notes"), Order: 1}
	require.NoError(t, repo.Create(ctx, first))
	second := postgrestest.Chapter(t, pool, bookID, 2)

	engine := ordering.NewEngine(ordering.NewPostgresStore(pool), postgres.NewTransactor(pool), discard)
	_, err := engine.Reorder(ctx, ordering.ChapterScope(bookID), []ordering.Placement{
		{ID: first.ID, Order: 2},
		{ID: second, Order: 1},
	})
	require.NoError(t, err)

	renamed, err := repo.Update(ctx, first.ID, chapter.Patch{Title: pointer.To("Uno")})
	require.NoError(t, err)
	assert.Equal(t, "Uno", renamed.Title)
	assert.Equal(t, 2, renamed.Order)
	require.NotNil(t, renamed.Description)
	assert.Equal(t, "notes", *renamed.Description)

	cleared, err := repo.Update(ctx, first.ID, chapter.Patch{Description: patch.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Equal(t, "Uno", cleared.Title)

	assert.Equal(t, map[string]int{first.ID: 2, second: 1}, postgrestest.ChapterOrders(t, pool, bookID))

	_, err = repo.Update(ctx, uuid.New(), chapter.Patch{Title: pointer.To("Missing")})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
