// Package core provides the pure domain types of the tracker.
//
// This file contains helpers for parsing and formatting monetary amounts.
// Amounts are decimal values; callers round to 2 places only at the display
// and persistence edges, never inside calculations.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to an amount.
//
// Parsing is strict: the whole string must be a valid decimal number after
// trimming whitespace, with either dot (12.34) or comma (12,34) as the
// decimal separator. Trailing garbage is rejected rather than ignored.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("12abc") -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot.
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// RoundCurrency rounds an amount to 2 decimal places, half up.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
