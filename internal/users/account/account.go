// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account maps identity-provider subjects onto internal users.

Tokens carry the provider's subject; every other table references the
internal user id. The first authenticated request of a subject provisions the
user, later ones reuse it.

# Architecture

  - Entities: User, Identity (claims projection).
  - Storage: users.account in Postgres, with a Redis subject→id cache in front.
  - Surface: [Service.ResolveUserID] backs the ResolveUser middleware; GET /auth/me.
*/
package account

import (
	"context"
	"time"
)

// # Domain Entities

// User is the internal account behind an identity-provider subject.
type User struct {
	ID           string    `json:"id"`
	AuthSubject  string    `json:"authSubject"`
	Email        *string   `json:"email"`
	Name         *string   `json:"name"`
	ProfileImage *string   `json:"profileImage"`
	Credits      int       `json:"credits"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the part of verified token claims used to provision a user.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		Upsert returns the user for identity.Subject, creating it with id when absent.

		Description: Concurrent first requests for one subject converge on a
		single row through the unique subject constraint. Non-empty profile
		fields from the identity refresh the stored ones.

		Parameters:
		  - context: context.Context
		  - id: string (Used only when a row is inserted)
		  - identity: Identity

		Returns:
		  - *User: The stored user
		  - bool: true when this call inserted the row
		  - error: Storage failures
	*/
	Upsert(context context.Context, id string, identity Identity) (*User, bool, error)

	/*
		FindByID retrieves a user record by internal id.

		Returns:
		  - error: pgx.ErrNoRows if missing
	*/
	FindByID(context context.Context, id string) (*User, error)
}

// IdentityCache remembers which internal user a subject resolved to.
type IdentityCache interface {
	// Get returns the cached user id; found is false on a miss.
	Get(context context.Context, subject string) (userID string, found bool, err error)

	// Set caches the mapping for ttl.
	Set(context context.Context, subject, userID string, ttl time.Duration) error
}
