// README: Money and distance rounding helpers shared across modules.
package types

import (
	"math"
	"strconv"
)

// Round2 rounds v to two decimal places for display. Callers keep the
// unrounded value for any further arithmetic.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format2 renders v with exactly two decimals ("8000.00").
func Format2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// MoneyFromUnits converts the units/nanos pair used by Google APIs into a float amount.
func MoneyFromUnits(units int64, nanos int32) float64 {
	return float64(units) + float64(nanos)/1e9
}
