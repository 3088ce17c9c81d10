// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ordering_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/internal/platform/postgres/postgrestest"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # PostgreSQL Integration

// pgFixture is one owned book with a chapter, backed by a migrated database.
type pgFixture struct {
	pool      *pgxpool.Pool
	engine    *ordering.Engine
	store     *ordering.PostgresStore
	bookID    string
	chapterID string
}

func newPgFixture(t *testing.T) *pgFixture {
	t.Helper()

	pool := postgrestest.Open(t)
	owner := postgrestest.Account(t, pool)
	bookID := postgrestest.Book(t, pool, owner)

	store := ordering.NewPostgresStore(pool)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &pgFixture{
		pool:      pool,
		engine:    ordering.NewEngine(store, postgres.NewTransactor(pool), logger),
		store:     store,
		bookID:    bookID,
		chapterID: postgrestest.Chapter(t, pool, bookID, 1),
	}
}

func (f *pgFixture) addPage(t *testing.T, order int) string {
	t.Helper()
	return postgrestest.Page(t, f.pool, f.chapterID, order)
}

func (f *pgFixture) pageOrders(t *testing.T) map[string]int {
	t.Helper()
	return postgrestest.PageOrders(t, f.pool, f.chapterID)
}

/*
TestPostgres_ReorderSwap swaps two pages under the non-deferrable UNIQUE
(chapterid, sortorder) constraint.
*/
func TestPostgres_ReorderSwap(t *testing.T) {
	f := newPgFixture(t)
	first, second, third := f.addPage(t, 1), f.addPage(t, 2), f.addPage(t, 3)

	_, err := f.engine.Reorder(context.Background(), ordering.PageScope(f.chapterID), []ordering.Placement{
		{ID: first, Order: 2},
		{ID: second, Order: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{first: 2, second: 1, third: 3}, f.pageOrders(t))
}

/*
TestPostgres_ReorderRotateFromZero moves every page, including the one at
order 0, so each final value is held by another row before the reorder.
*/
func TestPostgres_ReorderRotateFromZero(t *testing.T) {
	f := newPgFixture(t)
	a, b, c := f.addPage(t, 0), f.addPage(t, 1), f.addPage(t, 2)

	_, err := f.engine.Reorder(context.Background(), ordering.PageScope(f.chapterID), []ordering.Placement{
		{ID: a, Order: 1},
		{ID: b, Order: 2},
		{ID: c, Order: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{a: 1, b: 2, c: 0}, f.pageOrders(t))
}

/*
TestPostgres_ReorderForeignIDRollsBack names a page of another chapter; the
quarantine already written for the first placement must be rolled back.
*/
func TestPostgres_ReorderForeignIDRollsBack(t *testing.T) {
	f := newPgFixture(t)
	first, second := f.addPage(t, 1), f.addPage(t, 2)

	otherChapter := postgrestest.Chapter(t, f.pool, f.bookID, 2)
	foreign := postgrestest.Page(t, f.pool, otherChapter, 1)

	_, err := f.engine.Reorder(context.Background(), ordering.PageScope(f.chapterID), []ordering.Placement{
		{ID: first, Order: 5},
		{ID: foreign, Order: 6},
	})

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, map[string]int{first: 1, second: 2}, f.pageOrders(t))
	assert.Equal(t, map[string]int{foreign: 1}, postgrestest.PageOrders(t, f.pool, otherChapter))
}

/*
TestPostgres_ReorderCollisionWithUntouched targets an order still held by a
page outside the placements; the unique violation surfaces as CONFLICT.
*/
func TestPostgres_ReorderCollisionWithUntouched(t *testing.T) {
	f := newPgFixture(t)
	first, second, third := f.addPage(t, 1), f.addPage(t, 2), f.addPage(t, 3)

	_, err := f.engine.Reorder(context.Background(), ordering.PageScope(f.chapterID), []ordering.Placement{
		{ID: first, Order: 3},
	})

	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, map[string]int{first: 1, second: 2, third: 3}, f.pageOrders(t))
}

/*
TestPostgres_ChapterReorder runs the same swap on the chapter scope of a book.
*/
func TestPostgres_ChapterReorder(t *testing.T) {
	f := newPgFixture(t)
	second := postgrestest.Chapter(t, f.pool, f.bookID, 2)

	_, err := f.engine.Reorder(context.Background(), ordering.ChapterScope(f.bookID), []ordering.Placement{
		{ID: f.chapterID, Order: 2},
		{ID: second, Order: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{f.chapterID: 2, second: 1}, postgrestest.ChapterOrders(t, f.pool, f.bookID))
}

/*
TestPostgres_ConcurrentAppends places pages from several goroutines at once;
the scope lock hands each one a distinct order.
*/
func TestPostgres_ConcurrentAppends(t *testing.T) {
	f := newPgFixture(t)
	scope := ordering.PageScope(f.chapterID)

	const writers = 8

	var mu sync.Mutex
	placed := map[string]int{}

	group, ctx := errgroup.WithContext(context.Background())
	for range writers {
		group.Go(func() error {
			id := uuid.New()
			return f.engine.Place(ctx, scope, nil, func(txCtx context.Context, order int) error {
				if err := postgrestest.InsertPage(txCtx, f.pool, id, f.chapterID, order); err != nil {
					return err
				}
				mu.Lock()
				placed[id] = order
				mu.Unlock()
				return nil
			})
		})
	}
	require.NoError(t, group.Wait())

	assert.Equal(t, placed, f.pageOrders(t))

	seen := map[int]bool{}
	for _, order := range placed {
		seen[order] = true
	}
	for order := 1; order <= writers; order++ {
		assert.True(t, seen[order], "order %d", order)
	}
}

/*
TestPostgres_NextAndMaxOrder reads the append default straight from the table.
*/
func TestPostgres_NextAndMaxOrder(t *testing.T) {
	f := newPgFixture(t)
	scope := ordering.PageScope(f.chapterID)

	next, err := f.engine.Next(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	f.addPage(t, 4)
	f.addPage(t, ordering.MaxValue)

	maxOrder, found, err := f.store.MaxOrder(context.Background(), scope)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ordering.MaxValue, maxOrder)

	_, err = f.engine.Next(context.Background(), scope)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestPostgresStore_LockRequiresTransaction(t *testing.T) {
	f := newPgFixture(t)

	err := f.store.Lock(context.Background(), ordering.PageScope(f.chapterID))

	require.Error(t, err)
}
