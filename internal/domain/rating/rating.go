// Package rating derives the public restaurant rating from the ratings
// recorded on orders.
package rating

import "github.com/shopspring/decimal"

const meanPrecision = 16

// Displayed computes mean = sum/count, rounds it half-up to one decimal
// place and returns the ceiling of that. No ratings means 0.
func Displayed(sum, count int64) int {
	if count <= 0 {
		return 0
	}
	mean := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), meanPrecision)
	return int(mean.Round(1).Ceil().IntPart())
}

// Snapshot is the truncating integer average stored on a new order.
// ok is false when there is nothing to average.
func Snapshot(sum, count int64) (avg int, ok bool) {
	if count <= 0 {
		return 0, false
	}
	return int(sum / count), true
}
