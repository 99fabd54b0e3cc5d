package util

import "github.com/shopspring/decimal"

// Round rounds to the given number of decimal places using banker's
// rounding. Snapshot history was originally produced with half-to-even
// semantics, so every monetary rollup must round the same way or re-runs
// would drift from stored values.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}

// Round2 is for monetary rollups, applied once at snapshot construction.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// Round4 is for price change metrics.
func Round4(v float64) float64 {
	return Round(v, 4)
}
