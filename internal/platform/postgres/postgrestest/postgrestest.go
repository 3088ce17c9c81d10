// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postgrestest connects integration tests to a real PostgreSQL.

Tests that call [Open] are skipped unless FOLIO_TEST_DATABASE_URL points at a
database the suite may migrate and write to. Every seeded account is removed
when its test ends; the schema cascades the rest.
*/
package postgrestest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/migration"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/uuid"
)

// EnvDatabaseURL names the variable holding the test database DSN.
const EnvDatabaseURL = "FOLIO_TEST_DATABASE_URL"

var (
	migrateOnce sync.Once
	migrateErr  error
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Open migrates the test database once per process and returns a pool that
// closes with t.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}

	migrateOnce.Do(func() {
		migrateErr = migration.RunUp(dsn, migrationsDir(), discard)
	})
	require.NoError(t, migrateErr)

	pool, err := postgres.NewPool(context.Background(), dsn, discard)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// migrationsDir resolves data/migrations from this file's location, so the
// suite runs from any package directory.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}

// # Seeding

// Account inserts a user and deletes it, with everything it owns, at cleanup.
func Account(t testing.TB, pool *pgxpool.Pool) string {
	t.Helper()

	id := uuid.New()
	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
		schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.AuthSubject)
	_, err := pool.Exec(context.Background(), query, id, "test|"+id)
	require.NoError(t, err)

	t.Cleanup(func() {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.UserAccount.Table, schema.UserAccount.ID)
		_, _ = pool.Exec(context.Background(), query, id)
	})
	return id
}

// Book inserts a draft book owned by ownerID.
func Book(t testing.TB, pool *pgxpool.Pool, ownerID string) string {
	t.Helper()

	id := uuid.New()
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
		schema.CoreBook.Table, schema.CoreBook.ID, schema.CoreBook.UserID, schema.CoreBook.Title)
	_, err := pool.Exec(context.Background(), query, id, ownerID, "Book "+id[len(id)-4:])
	require.NoError(t, err)
	return id
}

// Chapter inserts a chapter of bookID at order.
func Chapter(t testing.TB, pool *pgxpool.Pool, bookID string, order int) string {
	t.Helper()

	id := uuid.New()
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)",
		schema.CoreChapter.Table, schema.CoreChapter.ID, schema.CoreChapter.BookID,
		schema.CoreChapter.Title, schema.CoreChapter.SortOrder)
	_, err := pool.Exec(context.Background(), query, id, bookID, fmt.Sprintf("Chapter %d", order), order)
	require.NoError(t, err)
	return id
}

// Page inserts an empty page of chapterID at order.
func Page(t testing.TB, pool *pgxpool.Pool, chapterID string, order int) string {
	t.Helper()

	id := uuid.New()
	require.NoError(t, InsertPage(context.Background(), pool, id, chapterID, order))
	return id
}

// InsertPage inserts an empty page on the transaction carried by ctx, if any.
func InsertPage(ctx context.Context, pool *pgxpool.Pool, id, chapterID string, order int) error {
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
		schema.CorePage.Table, schema.CorePage.ID, schema.CorePage.ChapterID, schema.CorePage.SortOrder)
	_, err := postgres.Conn(ctx, pool).Exec(ctx, query, id, chapterID, order)
	return err
}

// # Reading

// Orders returns id → sortorder for every row of table whose parent column
// equals parentID.
func Orders(t testing.TB, pool *pgxpool.Pool, table, parentColumn, parentID string) map[string]int {
	t.Helper()

	query := fmt.Sprintf("SELECT id, sortorder FROM %s WHERE %s = $1", table, parentColumn)
	rows, err := pool.Query(context.Background(), query, parentID)
	require.NoError(t, err)
	defer rows.Close()

	orders := map[string]int{}
	for rows.Next() {
		var id string
		var order int
		require.NoError(t, rows.Scan(&id, &order))
		orders[id] = order
	}
	require.NoError(t, rows.Err())
	return orders
}

// PageOrders returns the page orders of a chapter.
func PageOrders(t testing.TB, pool *pgxpool.Pool, chapterID string) map[string]int {
	t.Helper()
	return Orders(t, pool, schema.CorePage.Table, schema.CorePage.ChapterID, chapterID)
}

// ChapterOrders returns the chapter orders of a book.
func ChapterOrders(t testing.TB, pool *pgxpool.Pool, bookID string) map[string]int {
	t.Helper()
	return Orders(t, pool, schema.CoreChapter.Table, schema.CoreChapter.BookID, bookID)
}
