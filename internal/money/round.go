// Package money holds the two rounding policies used across the filing:
// the trial balance is presented in whole currency units, downstream
// statements and the tax computation in two decimals.
package money

import "github.com/shopspring/decimal"

// Tolerance is the absolute variance below which two monetary figures are
// treated as reconciled.
const Tolerance = 0.01

// RoundWhole rounds to the nearest whole currency unit (trial balance policy).
func RoundWhole(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// Round2 rounds to two decimal places (statement policy).
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// WithinTolerance reports whether a variance is small enough to ignore.
func WithinTolerance(v float64) bool {
	if v < 0 {
		v = -v
	}
	return v <= Tolerance
}
