// Package money holds the fixed-precision helpers every ledger component uses.
//
// All amounts are shopspring decimals. Rounding is to two decimal places,
// half away from zero: 0.005 becomes 0.01 and -0.005 becomes -0.01.
// Comparisons that decide settlement are always made on rounded values so
// that residues like 0.0000000001 count as zero.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places money is kept at.
const Places = 2

// Zero is the zero amount.
var Zero = decimal.Zero

// Round2 rounds d to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse reads a decimal string such as "33.33" and rounds it to two places.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Round2(d), nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsPositive reports whether d is greater than zero once rounded.
func IsPositive(d decimal.Decimal) bool {
	return Round2(d).IsPositive()
}

// GreaterOrEqual compares a and b after rounding both.
func GreaterOrEqual(a, b decimal.Decimal) bool {
	return Round2(a).GreaterThanOrEqual(Round2(b))
}

// Exceeds reports whether a is strictly greater than b after rounding both.
func Exceeds(a, b decimal.Decimal) bool {
	return Round2(a).GreaterThan(Round2(b))
}

// Remaining returns owed minus paid, clamped at zero and rounded.
func Remaining(owed, paid decimal.Decimal) decimal.Decimal {
	r := Round2(owed.Sub(paid))
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Sum adds the given amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// String formats d with exactly two decimal places.
func String(d decimal.Decimal) string {
	return Round2(d).StringFixed(Places)
}
