// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package orderingtest provides an in-memory [ordering.Store] and
// [ordering.Transactor] for tests.
//
// The store enforces the same unique (parent, order) rule as the database on
// every single write, and rolls back all writes of a failed transaction.
package orderingtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/folio/internal/core/ordering"
)

type txMarker struct{}

// MemoryStore keeps sibling orders per scope.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	orders map[ordering.Scope]map[string]int

	// Statements counts SetOrders statements, including failed ones.
	Statements int
	// Commits and Rollbacks count finished outermost transactions.
	Commits   int
	Rollbacks int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[ordering.Scope]map[string]int)}
}

// Insert adds a sibling, failing on an order collision like the unique constraint would.
func (store *MemoryStore) Insert(scope ordering.Scope, id string, order int) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	siblings := store.scope(scope)
	if holder, taken := store.holder(siblings, order, id); taken {
		return collision(scope, holder, order)
	}
	siblings[id] = order
	return nil
}

// Remove deletes a sibling.
func (store *MemoryStore) Remove(scope ordering.Scope, id string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.scope(scope), id)
}

// RemoveScope deletes every sibling of a scope.
func (store *MemoryStore) RemoveScope(scope ordering.Scope) {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.orders, scope)
}

// Order returns the current order of id.
func (store *MemoryStore) Order(scope ordering.Scope, id string) (int, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	order, ok := store.scope(scope)[id]
	return order, ok
}

// Sorted returns the siblings of scope ascending by order.
func (store *MemoryStore) Sorted(scope ordering.Scope) []ordering.Placement {
	store.mu.Lock()
	defer store.mu.Unlock()

	result := make([]ordering.Placement, 0, len(store.orders[scope]))
	for id, order := range store.orders[scope] {
		result = append(result, ordering.Placement{ID: id, Order: order})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result
}

// WithinTx implements [ordering.Transactor]. Whole transactions are
// serialised, and a failed one restores the state it started from.
func (store *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	store.txMu.Lock()
	defer store.txMu.Unlock()

	snapshot := store.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		store.mu.Lock()
		store.orders = snapshot
		store.Rollbacks++
		store.mu.Unlock()
		return err
	}

	store.mu.Lock()
	store.Commits++
	store.mu.Unlock()
	return nil
}

// Lock implements [ordering.Store]. Transactions are already serialised, so it
// only checks that one is open.
func (store *MemoryStore) Lock(ctx context.Context, _ ordering.Scope) error {
	if ctx.Value(txMarker{}) == nil {
		return errors.New("orderingtest: lock outside transaction")
	}
	return nil
}

// MaxOrder implements [ordering.Store].
func (store *MemoryStore) MaxOrder(_ context.Context, scope ordering.Scope) (int, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	maxOrder, found := 0, false
	for _, order := range store.orders[scope] {
		if !found || order > maxOrder {
			maxOrder, found = order, true
		}
	}
	return maxOrder, found, nil
}

// SetOrders implements [ordering.Store], applying statements one at a time.
func (store *MemoryStore) SetOrders(_ context.Context, scope ordering.Scope, placements []ordering.Placement) ([]int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	siblings := store.scope(scope)
	counts := make([]int64, 0, len(placements))

	for _, placement := range placements {
		store.Statements++

		if _, exists := siblings[placement.ID]; !exists {
			counts = append(counts, 0)
			continue
		}
		if holder, taken := store.holder(siblings, placement.Order, placement.ID); taken {
			return nil, collision(scope, holder, placement.Order)
		}

		siblings[placement.ID] = placement.Order
		counts = append(counts, 1)
	}
	return counts, nil
}

func (store *MemoryStore) scope(scope ordering.Scope) map[string]int {
	siblings, ok := store.orders[scope]
	if !ok {
		siblings = make(map[string]int)
		store.orders[scope] = siblings
	}
	return siblings
}

func (store *MemoryStore) holder(siblings map[string]int, order int, except string) (string, bool) {
	for id, existing := range siblings {
		if id != except && existing == order {
			return id, true
		}
	}
	return "", false
}

func (store *MemoryStore) snapshot() map[ordering.Scope]map[string]int {
	store.mu.Lock()
	defer store.mu.Unlock()

	clone := make(map[ordering.Scope]map[string]int, len(store.orders))
	for scope, siblings := range store.orders {
		inner := make(map[string]int, len(siblings))
		for id, order := range siblings {
			inner[id] = order
		}
		clone[scope] = inner
	}
	return clone
}

func collision(scope ordering.Scope, holder string, order int) error {
	return &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: fmt.Sprintf("uq_%s_parent_sortorder", scope.Kind),
		Detail:         fmt.Sprintf("order %d held by %s", order, holder),
	}
}
