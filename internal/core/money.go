// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by the user
// and reading back amounts already persisted.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user supplied decimal string to a two-place amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil
//	ParseAmount("abc")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// FormatAmount renders an amount the way it is written to storage.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// StoredAmount reads a persisted amount. Rows written by hand or by older
// versions may hold anything, so unparsable values count as zero.
func StoredAmount(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Value returns the parsed amount of a stored expense.
func (e Expense) Value() decimal.Decimal {
	return StoredAmount(e.Amount)
}
