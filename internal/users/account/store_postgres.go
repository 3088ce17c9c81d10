// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/pointer"
)

var columns = strings.Join(schema.UserAccount.Columns(), ", ")

// # PostgreSQL Repository

// accountRepository implements [AccountRepository] using pgx.
type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository constructs a PostgreSQL backed account store.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func scanUser(row pgx.Row, extra ...any) (*User, error) {
	var user User
	targets := []any{
		&user.ID,
		&user.AuthSubject,
		&user.Email,
		&user.Name,
		&user.ProfileImage,
		&user.Credits,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	if err := row.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	return &user, nil
}

/*
Upsert implements [AccountRepository].

Description: INSERT ... ON CONFLICT on the subject makes provisioning a single
idempotent statement. COALESCE keeps stored profile values when the token
omits a claim. xmax is zero only on a freshly inserted row version.
*/
func (repository *accountRepository) Upsert(context context.Context, id string, identity Identity) (*User, bool, error) {
	account := schema.UserAccount

	query := fmt.Sprintf(`
		INSERT INTO %[1]s AS a (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%[3]s) DO UPDATE SET
			%[4]s = COALESCE(EXCLUDED.%[4]s, a.%[4]s),
			%[5]s = COALESCE(EXCLUDED.%[5]s, a.%[5]s),
			%[6]s = COALESCE(EXCLUDED.%[6]s, a.%[6]s),
			%[8]s = now()
		RETURNING %[7]s, (xmax = 0) AS inserted`,
		account.Table,
		account.ID, account.AuthSubject, account.Email, account.Name, account.ProfileImage,
		columns, account.UpdatedAt,
	)

	row := postgres.Conn(context, repository.pool).QueryRow(context, query,
		id, identity.Subject, pointer.NilIfZero(identity.Email), pointer.NilIfZero(identity.Name), pointer.NilIfZero(identity.Picture),
	)
	var inserted bool
	user, err := scanUser(row, &inserted)
	if err != nil {
		return nil, false, err
	}
	return user, inserted, nil
}

// FindByID implements [AccountRepository].
func (repository *accountRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", columns, schema.UserAccount.Table, schema.UserAccount.ID)
	return scanUser(postgres.Conn(context, repository.pool).QueryRow(context, query, id))
}
