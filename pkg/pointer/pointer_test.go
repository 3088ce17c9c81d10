// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/pointer"
)

func TestTo(t *testing.T) {
	order := 3
	p := pointer.To(order)
	order++

	assert.Equal(t, 3, *p)
	assert.Equal(t, 4, order)
}

func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "book-1", pointer.Val(pointer.To("book-1")))
}

func TestNilIfZero(t *testing.T) {
	assert.Nil(t, pointer.NilIfZero(""))
	assert.Nil(t, pointer.NilIfZero(0))
	assert.Equal(t, "ada@example.com", *pointer.NilIfZero("ada@example.com"))
}
