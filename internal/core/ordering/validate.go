// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ordering

import (
	"fmt"
	"strings"

	"github.com/taibuivan/folio/internal/platform/validate"
)

// CheckOrder records a field error on v when order falls outside [0, MaxValue].
func CheckOrder(v *validate.Validator, field string, order int) *validate.Validator {
	return v.Range(field, order, 0, MaxValue)
}

// Validate rejects placement lists that cannot produce a well-formed scope:
// blank ids, out-of-range orders, the same id twice, or the same order twice.
// Duplicate orders are refused outright rather than letting one sibling win.
func Validate(placements []Placement) error {
	v := &validate.Validator{}

	seenIDs := make(map[string]int, len(placements))
	seenOrders := make(map[int]int, len(placements))

	for i, placement := range placements {
		field := fmt.Sprintf("items[%d]", i)

		v.Required(field+".id", placement.ID)
		CheckOrder(v, field+".order", placement.Order)

		id := strings.ToLower(placement.ID)
		if first, dup := seenIDs[id]; dup && id != "" {
			v.Custom(field+".id", true, fmt.Sprintf("Duplicate of items[%d].id", first))
		} else {
			seenIDs[id] = i
		}

		if first, dup := seenOrders[placement.Order]; dup {
			v.Custom(field+".order", true, fmt.Sprintf("Duplicate of items[%d].order", first))
		} else {
			seenOrders[placement.Order] = i
		}
	}

	return v.Err()
}
