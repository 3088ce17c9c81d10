// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates pgx and PostgreSQL errors into [apperr.AppError].
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/database/schema"
)

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows: NOT_FOUND for resource
//   - unique_violation (23505): CONFLICT
//   - foreign_key_violation (23503): NOT_FOUND for the missing parent
//   - anything else: INTERNAL_ERROR, with the action recorded in the cause
//
// Errors that already are [*apperr.AppError] pass through untouched.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if strings.HasSuffix(pgErr.ConstraintName, schema.OrderConstraintSuffix) {
				return apperr.Conflict("Order already taken in this scope; re-fetch and retry").WithCause(err)
			}
			return apperr.Conflict(resource + " already exists").WithCause(err)
		case pgerrcode.ForeignKeyViolation:
			return apperr.NotFound("Parent of " + strings.ToLower(resource)).WithCause(err)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
