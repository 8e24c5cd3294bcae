// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and rendering them for display.
package core

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The sign
// is never taken from the input: callers apply it from the transaction type.
// Returns ErrInvalidAmount for signed, malformed or zero values.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatEuros formats an amount the way the dashboard shows balances (e.g. "-1 234,50 €").
func FormatEuros(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + frac + " €"
	if neg {
		return "-" + out
	}
	return out
}

// JSONNumber renders d as a bare JSON number ("3000", "-12.5"), the wire
// form of every amount.
func JSONNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
