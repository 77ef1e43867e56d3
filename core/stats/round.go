package stats

import (
	"math"

	"github.com/shopspring/decimal"
)

// round1 rounds x half away from zero to one decimal place.
func round1(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(1).InexactFloat64()
}

// percentage returns present/total as a percentage rounded to one decimal place, or 0 when total <= 0.
func percentage(present, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}

func formatPercentage(present, total int) string {
	if total <= 0 {
		return "0"
	}
	return percentage(present, total).StringFixed(1)
}
