// Package currency normalizes salary amounts into the reporting currency
// (rubles) using a fixed rate table.
package currency

import "strings"

var rates = map[string]float64{
	"USD": 88.45,
	"UZS": 0.007,
	"BYR": 27.03,
	"EUR": 95.17,
	"KZT": 0.19,
}

// Convert returns the amount expressed in the reporting currency. A nil
// amount stays nil. Codes are matched case-insensitively; an unknown code
// passes the amount through unchanged, treating it as already normalized.
// No rounding is applied.
func Convert(amount *float64, code string) *float64 {
	if amount == nil {
		return nil
	}

	converted := *amount
	if rate, ok := rates[strings.ToUpper(code)]; ok {
		converted *= rate
	}

	return &converted
}
