package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// Hours returns the wall-clock time between start and end in fractional hours.
func Hours(start, end time.Time) decimal.Decimal {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(elapsed)).Div(nanosPerHour)
}

// Cost bills the interval from start to end at hourlyRate per hour, rounded
// half away from zero to two decimals. An end before start bills nothing.
func Cost(start, end time.Time, hourlyRate float64) float64 {
	return Hours(start, end).
		Mul(decimal.NewFromFloat(hourlyRate)).
		Round(2).
		InexactFloat64()
}
