// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

var columns = strings.Join(schema.CoreChapter.Columns(), ", ")

// # PostgreSQL Repositories

// chapterRepository implements the [ChapterRepository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewChapterRepository constructs a PostgreSQL backed chapter store.
func NewChapterRepository(pool *pgxpool.Pool) ChapterRepository {
	return &chapterRepository{pool: pool}
}

func scanChapter(row pgx.Row, extra ...any) (*Chapter, error) {
	var chapter Chapter
	targets := []any{
		&chapter.ID,
		&chapter.BookID,
		&chapter.Title,
		&chapter.Description,
		&chapter.Order,
		&chapter.CreatedAt,
		&chapter.UpdatedAt,
	}
	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// # Chapter Repository Implementation

/*
ListByBook retrieves all chapters of a book.

Description: Page counts are aggregated in the same statement so the list
shows which chapters have content without loading the pages themselves.
*/
func (repository *chapterRepository) ListByBook(context context.Context, bookID string) ([]*Chapter, error) {
	qualified := make([]string, 0, len(schema.CoreChapter.Columns()))
	for _, column := range schema.CoreChapter.Columns() {
		qualified = append(qualified, "c."+column)
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(p.%s) AS page_count
		FROM %s c
		LEFT JOIN %s p ON p.%s = c.%s
		WHERE c.%s = $1
		GROUP BY c.%s
		ORDER BY c.%s ASC`,
		strings.Join(qualified, ", "), schema.CorePage.ID,
		schema.CoreChapter.Table,
		schema.CorePage.Table, schema.CorePage.ChapterID, schema.CoreChapter.ID,
		schema.CoreChapter.BookID,
		schema.CoreChapter.ID,
		schema.CoreChapter.SortOrder,
	)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	chapters := []*Chapter{}
	for rows.Next() {
		var pageCount int
		chapter, err := scanChapter(rows, &pageCount)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter: %w", err)
		}
		chapter.PageCount = &pageCount
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// FindByID implements [ChapterRepository].
func (repository *chapterRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", columns, schema.CoreChapter.Table, schema.CoreChapter.ID)
	return scanChapter(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
}

// Create implements [ChapterRepository].
func (repository *chapterRepository) Create(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.CoreChapter.Table,
		schema.CoreChapter.ID, schema.CoreChapter.BookID, schema.CoreChapter.Title,
		schema.CoreChapter.Description, schema.CoreChapter.SortOrder,
		schema.CoreChapter.CreatedAt, schema.CoreChapter.UpdatedAt,
	)

	return postgres.Conn(context, repository.pool).QueryRow(context, query,
		chapter.ID, chapter.BookID, chapter.Title, chapter.Description, chapter.Order,
	).Scan(&chapter.CreatedAt, &chapter.UpdatedAt)
}

// Update implements [ChapterRepository].
func (repository *chapterRepository) Update(context context.Context, id string, p Patch) (*Chapter, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = now()", schema.CoreChapter.Table, schema.CoreChapter.UpdatedAt))

	var args []any
	argID := 1

	if p.Title != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreChapter.Title, argID))
		args = append(args, *p.Title)
		argID++
	}
	if p.Description.Set {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreChapter.Description, argID))
		args = append(args, p.Description.Ptr())
		argID++
	}
	if p.Order != nil {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", schema.CoreChapter.SortOrder, argID))
		args = append(args, *p.Order)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d RETURNING %s", schema.CoreChapter.ID, argID, columns))
	args = append(args, id)

	return scanChapter(postgres.Conn(context, repository.pool).QueryRow(context, queryBuilder.String(), args...))
}

// Delete implements [ChapterRepository].
func (repository *chapterRepository) Delete(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 RETURNING %s", schema.CoreChapter.Table, schema.CoreChapter.ID, columns)
	return scanChapter(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
}
