// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer converts between values and the pointers Folio uses for
nullable columns and optional request fields.

A nil pointer is SQL NULL on the way into pgx and an absent key on the way
out to JSON, so these helpers sit on both edges of the service layer.
*/
package pointer

// To returns a pointer to a copy of v, e.g. an order literal in a patch.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, or returns the zero value when p is nil. Used when a
// LEFT JOIN column may come back NULL.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NilIfZero returns nil for the zero value of T and a pointer to v otherwise,
// so an empty identity claim is stored as NULL instead of "".
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
