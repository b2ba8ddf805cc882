// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/shopspring/decimal"
)

// RoundToMinorUnit rounds half away from zero to the given number of decimal
// places using decimal arithmetic, so values such as 1.005 round to 1.01
// instead of falling victim to their binary representation.
func RoundToMinorUnit(val float64, places int32) float64 {
	return decimal.NewFromFloat(val).Round(places).InexactFloat64()
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// PeriodicRate converts a nominal annual percentage rate into a monthly
// fraction.
func PeriodicRate(annualPercent float64) float64 {
	return annualPercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}
