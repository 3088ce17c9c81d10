// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// # Repository Interfaces

// BookRepository defines persistence operations for books.
// Every method except Create is scoped by the owning user.
type BookRepository interface {
	/*
		Create persists a new book.

		Parameters:
		  - context: context.Context
		  - book: *Book (ID and UserID must be set; timestamps are filled in)

		Returns:
		  - error: Persistence errors
	*/
	Create(context context.Context, book *Book) error

	/*
		ListByOwner returns a page of the user's books, most recently updated first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit, offset: int

		Returns:
		  - []*Book: The requested page
		  - int: Total books owned by the user
		  - error: Persistence errors
	*/
	ListByOwner(context context.Context, userID string, limit, offset int) ([]*Book, int, error)

	/*
		FindOwned returns the book when it exists and belongs to userID.

		Returns:
		  - error: pgx.ErrNoRows otherwise
	*/
	FindOwned(context context.Context, id, userID string) (*Book, error)

	/*
		Update writes every mutable column of book and refreshes UpdatedAt.

		Returns:
		  - error: pgx.ErrNoRows if the book is gone or owned by someone else
	*/
	Update(context context.Context, book *Book) error

	/*
		DeleteOwned removes the book and, by cascade, its chapters and pages.

		Returns:
		  - *Book: The deleted row
		  - error: pgx.ErrNoRows if no owned book matched
	*/
	DeleteOwned(context context.Context, id, userID string) (*Book, error)
}
