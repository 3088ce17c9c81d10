// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

// scopeTable is the SQL surface of one scope kind.
type scopeTable struct {
	table     string
	parent    string
	sortOrder string
	updatedAt string
}

// scopeTables whitelists the identifiers interpolated into SQL.
var scopeTables = map[Kind]scopeTable{
	KindChapter: {
		table:     schema.CoreChapter.Table,
		parent:    schema.CoreChapter.BookID,
		sortOrder: schema.CoreChapter.SortOrder,
		updatedAt: schema.CoreChapter.UpdatedAt,
	},
	KindPage: {
		table:     schema.CorePage.Table,
		parent:    schema.CorePage.ChapterID,
		sortOrder: schema.CorePage.SortOrder,
		updatedAt: schema.CorePage.UpdatedAt,
	},
}

// PostgresStore implements [Store] on the chapter and page tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed order store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func lookup(scope Scope) (scopeTable, error) {
	table, ok := scopeTables[scope.Kind]
	if !ok {
		return scopeTable{}, fmt.Errorf("ordering: unknown scope kind %q", scope.Kind)
	}
	return table, nil
}

// Lock takes a transaction-scoped advisory lock keyed by the scope.
// Outside a transaction the lock would be released at once, so it refuses.
func (repository *PostgresStore) Lock(ctx context.Context, scope Scope) error {
	if !postgres.InTx(ctx) {
		return errors.New("ordering: scope lock requires a transaction")
	}

	_, err := postgres.Conn(ctx, repository.pool).Exec(ctx,
		"SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", scope.Key())
	return err
}

// MaxOrder returns MAX(sortorder) for the scope.
func (repository *PostgresStore) MaxOrder(ctx context.Context, scope Scope) (int, bool, error) {
	table, err := lookup(scope)
	if err != nil {
		return 0, false, err
	}

	query := fmt.Sprintf("SELECT MAX(%s) FROM %s WHERE %s = $1", table.sortOrder, table.table, table.parent)

	var maxOrder *int
	if err := postgres.Conn(ctx, repository.pool).QueryRow(ctx, query, scope.ParentID).Scan(&maxOrder); err != nil {
		return 0, false, err
	}
	if maxOrder == nil {
		return 0, false, nil
	}
	return *maxOrder, true, nil
}

// SetOrders pipelines one UPDATE per placement in a single batch.
func (repository *PostgresStore) SetOrders(ctx context.Context, scope Scope, placements []Placement) ([]int64, error) {
	table, err := lookup(scope)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = now() WHERE id = $2 AND %s = $3",
		table.table, table.sortOrder, table.updatedAt, table.parent,
	)

	batch := &pgx.Batch{}
	for _, placement := range placements {
		batch.Queue(query, placement.Order, placement.ID, scope.ParentID)
	}

	results := postgres.Conn(ctx, repository.pool).SendBatch(ctx, batch)

	counts := make([]int64, 0, len(placements))
	for range placements {
		tag, execErr := results.Exec()
		if execErr != nil {
			_ = results.Close()
			return nil, execErr
		}
		counts = append(counts, tag.RowsAffected())
	}

	if err := results.Close(); err != nil {
		return nil, err
	}
	return counts, nil
}
