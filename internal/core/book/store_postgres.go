// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

var columns = strings.Join(schema.CoreBook.Columns(), ", ")

// # PostgreSQL Repository

// bookRepository implements the [BookRepository] interface using pgx.
type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository constructs a PostgreSQL backed book store.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

func scanBook(row pgx.Row, book *Book, extra ...any) error {
	targets := []any{
		&book.ID,
		&book.UserID,
		&book.Title,
		&book.Description,
		&book.Category,
		&book.CoverImage,
		&book.CoverColor,
		&book.Status,
		&book.CreatedAt,
		&book.UpdatedAt,
	}
	return row.Scan(append(targets, extra...)...)
}

// Create implements [BookRepository].
func (repository *bookRepository) Create(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s`,
		schema.CoreBook.Table,
		schema.CoreBook.ID, schema.CoreBook.UserID, schema.CoreBook.Title, schema.CoreBook.Description,
		schema.CoreBook.Category, schema.CoreBook.CoverImage, schema.CoreBook.CoverColor, schema.CoreBook.Status,
		schema.CoreBook.CreatedAt, schema.CoreBook.UpdatedAt,
	)

	return postgres.Conn(context, repository.pool).QueryRow(context, query,
		book.ID, book.UserID, book.Title, book.Description,
		book.Category, book.CoverImage, book.CoverColor, book.Status,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
}

/*
ListByOwner implements [BookRepository].

Description: A window count rides along with each row so the page and the
total come back in one round-trip.
*/
func (repository *bookRepository) ListByOwner(context context.Context, userID string, limit, offset int) ([]*Book, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2 OFFSET $3`,
		columns,
		schema.CoreBook.Table,
		schema.CoreBook.UserID,
		schema.CoreBook.UpdatedAt, schema.CoreBook.ID,
	)

	rows, err := postgres.Conn(context, repository.pool).Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list books: %w", err)
	}
	defer rows.Close()

	books := []*Book{}
	total := 0
	for rows.Next() {
		var book Book
		if err := scanBook(rows, &book, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan book: %w", err)
		}
		books = append(books, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// An offset past the end yields no rows and therefore no window count.
	if len(books) == 0 && offset > 0 {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", schema.CoreBook.Table, schema.CoreBook.UserID)
		if err := postgres.Conn(context, repository.pool).QueryRow(context, countQuery, userID).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return books, total, nil
}

// FindOwned implements [BookRepository].
func (repository *bookRepository) FindOwned(context context.Context, id, userID string) (*Book, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2",
		columns, schema.CoreBook.Table, schema.CoreBook.ID, schema.CoreBook.UserID)

	var book Book
	if err := scanBook(postgres.Conn(context, repository.pool).QueryRow(context, query, id, userID), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Update implements [BookRepository].
func (repository *bookRepository) Update(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = now()
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.CoreBook.Table,
		schema.CoreBook.Title, schema.CoreBook.Description, schema.CoreBook.Category,
		schema.CoreBook.CoverImage, schema.CoreBook.CoverColor, schema.CoreBook.Status,
		schema.CoreBook.UpdatedAt,
		schema.CoreBook.ID, schema.CoreBook.UserID,
		schema.CoreBook.UpdatedAt,
	)

	return postgres.Conn(context, repository.pool).QueryRow(context, query,
		book.ID, book.UserID,
		book.Title, book.Description, book.Category,
		book.CoverImage, book.CoverColor, book.Status,
	).Scan(&book.UpdatedAt)
}

// DeleteOwned implements [BookRepository].
func (repository *bookRepository) DeleteOwned(context context.Context, id, userID string) (*Book, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2 RETURNING %s",
		schema.CoreBook.Table, schema.CoreBook.ID, schema.CoreBook.UserID, columns)

	var book Book
	if err := scanBook(postgres.Conn(context, repository.pool).QueryRow(context, query, id, userID), &book); err != nil {
		return nil, err
	}
	return &book, nil
}
