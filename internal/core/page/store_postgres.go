// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

var columns = strings.Join(schema.CorePage.Columns(), ", ")

// # PostgreSQL Repository

// pageRepository implements the [PageRepository] interface using pgx.
type pageRepository struct {
	pool *pgxpool.Pool
}

// NewPageRepository constructs a PostgreSQL backed page store.
func NewPageRepository(pool *pgxpool.Pool) PageRepository {
	return &pageRepository{pool: pool}
}

// scanPage reads a row in [schema.CorePageTable.Columns] order.
// jsonb is scanned as raw bytes; NULL stays nil.
func scanPage(row pgx.Row) (*Page, error) {
	var page Page
	var content []byte

	err := row.Scan(
		&page.ID,
		&page.ChapterID,
		&content,
		&page.TextContent,
		&page.Order,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	page.Content = content
	return &page, nil
}

// Create implements [PageRepository].
func (repository *pageRepository) Create(context context.Context, page *Page) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.CorePage.Table,
		schema.CorePage.ID, schema.CorePage.ChapterID, schema.CorePage.Content,
		schema.CorePage.TextContent, schema.CorePage.SortOrder,
		schema.CorePage.CreatedAt, schema.CorePage.UpdatedAt,
	)

	return postgres.Conn(context, repository.pool).QueryRow(context, query,
		page.ID, page.ChapterID, []byte(page.Content), page.TextContent, page.Order,
	).Scan(&page.CreatedAt, &page.UpdatedAt)
}

// ListByChapter implements [PageRepository].
func (repository *pageRepository) ListByChapter(context context.Context, chapterID string) ([]*Page, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC",
		columns, schema.CorePage.Table, schema.CorePage.ChapterID, schema.CorePage.SortOrder)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := []*Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// FindByID implements [PageRepository].
func (repository *pageRepository) FindByID(context context.Context, id string) (*Page, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", columns, schema.CorePage.Table, schema.CorePage.ID)
	return scanPage(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
}

// Update implements [PageRepository].
func (repository *pageRepository) Update(context context.Context, id string, p Patch) (*Page, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = now()", schema.CorePage.Table, schema.CorePage.UpdatedAt))

	var args []any
	argID := 1

	if p.Content.Set {
		var content []byte
		if !p.Content.Null {
			content = p.Content.Value
		}
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CorePage.Content, argID))
		args = append(args, content)
		argID++
	}
	if p.TextContent.Set {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CorePage.TextContent, argID))
		args = append(args, p.TextContent.Ptr())
		argID++
	}
	if p.Order != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CorePage.SortOrder, argID))
		args = append(args, *p.Order)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d RETURNING %s", schema.CorePage.ID, argID, columns))
	args = append(args, id)

	return scanPage(postgres.Conn(context, repository.pool).QueryRow(context, queryBuilder.String(), args...))
}

// Delete implements [PageRepository].
func (repository *pageRepository) Delete(context context.Context, id string) (*Page, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 RETURNING %s", schema.CorePage.Table, schema.CorePage.ID, columns)
	return scanPage(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
}
