// Package core defines the ledger document model and the numeric coercion
// rules applied at every boundary.
//
// This file holds the single safe-number parser used wherever monetary values
// cross a boundary (request bodies, store decoding, arithmetic inputs), so
// NaN, infinities and malformed strings collapse to 0 in exactly one place.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SafeFloat coerces an arbitrary decoded JSON value to a finite float64.
// Anything non-numeric or non-finite becomes 0.
//
// Examples:
//
//	SafeFloat(12.5)    -> 12.5
//	SafeFloat("12.5")  -> 12.5
//	SafeFloat("abc")   -> 0
//	SafeFloat(math.NaN()) -> 0
//	SafeFloat(nil)     -> 0
func SafeFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return finiteOrZero(x)
	case float32:
		return finiteOrZero(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	default:
		return 0
	}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
