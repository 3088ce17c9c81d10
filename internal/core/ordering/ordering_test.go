// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ordering_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/ordering"
	"github.com/taibuivan/folio/internal/core/ordering/orderingtest"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/pointer"
)

var chapterOne = ordering.PageScope("chapter-1")

func newEngine(t *testing.T, seed map[string]int) (*ordering.Engine, *orderingtest.MemoryStore) {
	t.Helper()

	store := orderingtest.NewMemoryStore()
	for id, order := range seed {
		require.NoError(t, store.Insert(chapterOne, id, order))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ordering.NewEngine(store, store, logger), store
}

func orders(store *orderingtest.MemoryStore, ids ...string) map[string]int {
	result := make(map[string]int, len(ids))
	for _, id := range ids {
		result[id], _ = store.Order(chapterOne, id)
	}
	return result
}

/*
TestReorder_Swap verifies that swapping two adjacent siblings never collides.
*/
func TestReorder_Swap(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1, "B": 2})

	result, err := engine.Reorder(context.Background(), chapterOne, []ordering.Placement{{ID: "A", Order: 2}, {ID: "B", Order: 1}})
	require.NoError(t, err)

	assert.Equal(t, []ordering.Placement{{ID: "A", Order: 2}, {ID: "B", Order: 1}}, result)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, orders(store, "A", "B"))
	assert.Equal(t, 4, store.Statements)
	assert.Equal(t, 1, store.Commits)
}

/*
TestReorder_PartialKeepsUntouched verifies that siblings outside the request keep their order.
*/
func TestReorder_PartialKeepsUntouched(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1, "B": 2, "C": 3})

	_, err := engine.Reorder(context.Background(), chapterOne, []ordering.Placement{{ID: "A", Order: 3}, {ID: "C", Order: 1}})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 3, "B": 2, "C": 1}, orders(store, "A", "B", "C"))
}

/*
TestReorder_ForeignIDRollsBack verifies that an id outside the scope aborts
every write, including quarantine writes already applied.
*/
func TestReorder_ForeignIDRollsBack(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1, "B": 2})
	require.NoError(t, store.Insert(ordering.PageScope("chapter-2"), "X", 1))

	_, err := engine.Reorder(context.Background(), chapterOne, []ordering.Placement{
		{ID: "A", Order: 2},
		{ID: "B", Order: 1},
		{ID: "X", Order: 3},
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, "Page X not found in this chapter", ae.Message)

	assert.Equal(t, map[string]int{"A": 1, "B": 2}, orders(store, "A", "B"))
	x, _ := store.Order(ordering.PageScope("chapter-2"), "X")
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, store.Rollbacks)
}

/*
TestReorder_ZeroOrderQuarantine verifies that a target order of zero is moved
off the non-negative range during quarantine.
*/
func TestReorder_ZeroOrderQuarantine(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 0, "B": 5})

	// B is quarantined first while A still holds 0.
	_, err := engine.Reorder(context.Background(), chapterOne, []ordering.Placement{{ID: "B", Order: 0}, {ID: "A", Order: 5}})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"A": 5, "B": 0}, orders(store, "A", "B"))
}

/*
TestReorder_CollisionWithUntouchedSibling surfaces a conflict and rolls back.
*/
func TestReorder_CollisionWithUntouchedSibling(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1, "B": 2, "C": 3})

	_, err := engine.Reorder(context.Background(), chapterOne, []ordering.Placement{{ID: "A", Order: 3}})

	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 3}, orders(store, "A", "B", "C"))
}

/*
TestReorder_Empty is a no-op that opens no transaction.
*/
func TestReorder_Empty(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1})

	result, err := engine.Reorder(context.Background(), chapterOne, nil)
	require.NoError(t, err)

	assert.Empty(t, result)
	assert.NotNil(t, result)
	assert.Zero(t, store.Commits+store.Rollbacks)
}

/*
TestReorder_RejectsInvalidInput never reaches the store.
*/
func TestReorder_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		placements []ordering.Placement
		field      string
	}{
		{"duplicate_order", []ordering.Placement{{ID: "A", Order: 2}, {ID: "B", Order: 2}}, "items[1].order"},
		{"duplicate_id", []ordering.Placement{{ID: "A", Order: 1}, {ID: "A", Order: 2}}, "items[1].id"},
		{"negative_order", []ordering.Placement{{ID: "A", Order: -1}}, "items[0].order"},
		{"order_past_integer_column", []ordering.Placement{{ID: "A", Order: 1}, {ID: "B", Order: ordering.MaxValue + 1}}, "items[1].order"},
		{"blank_id", []ordering.Placement{{ID: " ", Order: 1}}, "items[0].id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store := newEngine(t, map[string]int{"A": 1, "B": 2})

			_, err := engine.Reorder(context.Background(), chapterOne, tt.placements)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.field, ae.Details[0].Field)
			assert.Zero(t, store.Statements)
		})
	}
}

/*
TestPlace_AppendsSequentially verifies the append default from an empty scope.
*/
func TestPlace_AppendsSequentially(t *testing.T) {
	engine, store := newEngine(t, nil)
	ctx := context.Background()

	for i, id := range []string{"P1", "P2", "P3", "P4"} {
		err := engine.Place(ctx, chapterOne, nil, func(_ context.Context, order int) error {
			assert.Equal(t, i+1, order)
			return store.Insert(chapterOne, id, order)
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []ordering.Placement{{ID: "P1", Order: 1}, {ID: "P2", Order: 2}, {ID: "P3", Order: 3}, {ID: "P4", Order: 4}}, store.Sorted(chapterOne))
}

/*
TestPlace_ExplicitAndGaps verifies that explicit orders are kept and appends
continue from the current maximum.
*/
func TestPlace_ExplicitAndGaps(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1})
	ctx := context.Background()

	require.NoError(t, engine.Place(ctx, chapterOne, pointer.To(10), func(_ context.Context, order int) error {
		return store.Insert(chapterOne, "B", order)
	}))

	next, err := engine.Next(ctx, chapterOne)
	require.NoError(t, err)
	assert.Equal(t, 11, next)

	err = engine.Place(ctx, chapterOne, pointer.To(-1), func(context.Context, int) error {
		t.Fatal("insert must not run")
		return nil
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestPlace_OrderCeiling keeps every stored order inside the INTEGER column and
leaves room for one more append.
*/
func TestPlace_OrderCeiling(t *testing.T) {
	engine, store := newEngine(t, map[string]int{"A": 1})
	ctx := context.Background()

	err := engine.Place(ctx, chapterOne, pointer.To(ordering.MaxValue+1), func(context.Context, int) error {
		t.Fatal("insert must not run")
		return nil
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	require.NoError(t, engine.Place(ctx, chapterOne, pointer.To(ordering.MaxValue), func(_ context.Context, order int) error {
		return store.Insert(chapterOne, "B", order)
	}))

	_, err = engine.Next(ctx, chapterOne)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "order", ae.Details[0].Field)

	err = engine.Place(ctx, chapterOne, nil, func(context.Context, int) error {
		t.Fatal("insert must not run")
		return nil
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	last, _ := store.Order(chapterOne, "B")
	assert.Equal(t, ordering.MaxValue, last)
}

/*
TestPlace_InsertFailureRollsBack propagates insert errors unchanged.
*/
func TestPlace_InsertFailureRollsBack(t *testing.T) {
	engine, store := newEngine(t, nil)
	boom := errors.New("boom")

	err := engine.Place(context.Background(), chapterOne, nil, func(context.Context, int) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.Rollbacks)
}

func TestQuarantineValue(t *testing.T) {
	for _, order := range []int{0, 1, 2, 1000} {
		assert.Less(t, ordering.QuarantineValue(order), 0)
	}
	assert.NotEqual(t, ordering.QuarantineValue(1), ordering.QuarantineValue(2))
}

func TestScope(t *testing.T) {
	assert.Equal(t, "chapter:book-1", ordering.ChapterScope("book-1").Key())
	assert.Equal(t, "page:chapter-1", ordering.PageScope("chapter-1").Key())
}
