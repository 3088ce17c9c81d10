// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package patch models the three states of a field in a JSON merge-style patch.

	{}                  → absent: leave the stored value alone
	{"content": null}   → null:   clear the stored value
	{"content": {...}}  → value:  replace the stored value

encoding/json only calls UnmarshalJSON for keys that are present, which is what
lets [Field] tell "absent" apart from "null".
*/
package patch

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Field is an optional, nullable patch value.
type Field[T any] struct {
	// Set is true when the key appeared in the payload.
	Set bool
	// Null is true when the key appeared with a JSON null.
	Null bool
	// Value holds the decoded value when Set && !Null.
	Value T
}

// Of returns a Field holding value.
func Of[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

// Null returns a Field that clears the stored value.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (field *Field[T]) UnmarshalJSON(data []byte) error {
	field.Set = true

	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		field.Null = true
		var zero T
		field.Value = zero
		return nil
	}

	field.Null = false
	return json.Unmarshal(data, &field.Value)
}

// MarshalJSON writes null for unset and null fields. Pair with omitzero to drop absent keys.
func (field Field[T]) MarshalJSON() ([]byte, error) {
	if !field.Set || field.Null {
		return jsonNull, nil
	}
	return json.Marshal(field.Value)
}

// IsZero reports whether the field is absent, for the omitzero struct tag.
func (field Field[T]) IsZero() bool {
	return !field.Set
}

// Ptr returns the new value as a pointer: nil for null, &Value otherwise.
// Callers check Set first.
func (field Field[T]) Ptr() *T {
	if field.Null {
		return nil
	}
	value := field.Value
	return &value
}

// Apply returns the patched form of current.
func (field Field[T]) Apply(current *T) *T {
	if !field.Set {
		return current
	}
	return field.Ptr()
}
