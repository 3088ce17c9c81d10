// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/core/ownership"
	"github.com/taibuivan/folio/internal/core/page"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/internal/platform/postgres/postgrestest"
	"github.com/taibuivan/folio/pkg/patch"
	"github.com/taibuivan/folio/pkg/pointer"
	"github.com/taibuivan/folio/pkg/uuid"
)

/*
TestPostgres_UpdateWritesPatchedColumnsOnly moves a page after it was created
and then edits its text; the stored order must survive the edit.
*/
func TestPostgres_UpdateWritesPatchedColumnsOnly(t *testing.T) {
	pool := postgrestest.Open(t)
	ctx := context.Background()
	owner := postgrestest.Account(t, pool)
	chapterID := postgrestest.Chapter(t, pool, postgrestest.Book(t, pool, owner), 1)

	repo := page.NewPageRepository(pool)
	created := &page.Page{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		Content:     json.RawMessage(`{"blocks":[]}`),
		TextContent: pointer.To("hello"),
		Order:       1,
	}
	require.NoError(t, repo.Create(ctx, created))

	engine := ordering.NewEngine(ordering.NewPostgresStore(pool), postgres.NewTransactor(pool), discard)
	_, err := engine.Reorder(ctx, ordering.PageScope(chapterID), []ordering.Placement{{ID: created.ID, Order: 7}})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, page.Patch{TextContent: patch.Of("draft")})
	require.NoError(t, err)

	assert.Equal(t, 7, updated.Order)
	assert.Equal(t, "draft", *updated.TextContent)
	assert.JSONEq(t, `{"blocks":[]}`, string(updated.Content))

	cleared, err := repo.Update(ctx, created.ID, page.Patch{Content: patch.Null[json.RawMessage]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Content)
	assert.Equal(t, "draft", *cleared.TextContent)
	assert.Equal(t, 7, cleared.Order)

	_, err = repo.Update(ctx, uuid.New(), page.Patch{TextContent: patch.Null[string]()})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

/*
TestPostgres_ServiceUpdateOrder runs a page order change through the service
against the UNIQUE (chapterid, sortorder) constraint.
*/
func TestPostgres_ServiceUpdateOrder(t *testing.T) {
	pool := postgrestest.Open(t)
	ctx := context.Background()
	owner := postgrestest.Account(t, pool)
	chapterID := postgrestest.Chapter(t, pool, postgrestest.Book(t, pool, owner), 1)
	first := postgrestest.Page(t, pool, chapterID, 1)
	second := postgrestest.Page(t, pool, chapterID, 2)

	engine := ordering.NewEngine(ordering.NewPostgresStore(pool), postgres.NewTransactor(pool), discard)
	service := page.NewService(page.NewPageRepository(pool), ownership.NewGuard(ownership.NewPostgresLookup(pool)), engine, discard)

	_, err := service.Update(ctx, owner, first, page.Patch{Order: pointer.To(2)})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	moved, err := service.Update(ctx, owner, first, page.Patch{Order: pointer.To(3), TextContent: patch.Of("Café")})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Order)
	assert.Equal(t, "Café", *moved.TextContent)

	assert.Equal(t, map[string]int{first: 3, second: 2}, postgrestest.PageOrders(t, pool, chapterID))
}
