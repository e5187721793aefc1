// Package controllers holds the HTTP handlers. Handlers decode the wire
// shape, call one service, and write the flat response the dashboard and
// mobile clients expect.
package controllers

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// stringify renders loosely-typed request fields. Clients send identifiers
// like sale_id both as JSON strings and as numbers.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// decimalFrom converts a loosely-typed JSON amount. Clients send amounts both
// as numbers and as numeric strings; absent or unparseable means zero.
func decimalFrom(value any) decimal.Decimal {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}
