// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/pagination"
)

/*
TestFromRequest checks clamping of query parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query    string
		expected pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"?page=0&limit=0", pagination.Params{Page: 1, Limit: 20}},
		{"?page=x&limit=500", pagination.Params{Page: 1, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/books"+tt.query, nil))
			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestParams_OffsetAndMeta(t *testing.T) {
	params := pagination.Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, params.Offset())

	meta := pagination.NewMeta(params, 41)
	assert.Equal(t, pagination.Meta{Page: 3, Limit: 10, Total: 41, TotalPages: 5}, meta)
}
