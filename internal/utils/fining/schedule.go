// Package fining holds the fine eligibility threshold and the tier schedule
// used to size fines. All constants are configuration values, not literals
// baked into the workflows.
package fining

import "github.com/shopspring/decimal"

// Schedule describes when a balance is fineable and how large the fine is.
// Amounts are in minor units.
type Schedule struct {
	// Threshold is the (negative) balance at or below which a user is
	// eligible for a fine.
	Threshold decimal.Decimal
	// Rate is the fraction of the debt charged as a fine.
	Rate decimal.Decimal
	// Minimum and Maximum clamp the computed fine.
	Minimum decimal.Decimal
	Maximum decimal.Decimal
}

// DefaultSchedule returns the standard schedule: eligible at -5.00 or lower,
// fined 20% of the debt, at least 1.00 and at most 5.00.
func DefaultSchedule() Schedule {
	return Schedule{
		Threshold: decimal.NewFromInt(-500),
		Rate:      decimal.NewFromFloat(0.2),
		Minimum:   decimal.NewFromInt(100),
		Maximum:   decimal.NewFromInt(500),
	}
}

// IsFineable reports whether a balance is at or below the threshold.
func (s Schedule) IsFineable(balance decimal.Decimal) bool {
	return balance.LessThanOrEqual(s.Threshold)
}

// FineFor returns the fine for the given balance, zero when the balance is
// not fineable. The fine is Rate times the debt magnitude, rounded down to a
// whole minor unit and clamped into [Minimum, Maximum].
func (s Schedule) FineFor(balance decimal.Decimal) decimal.Decimal {
	if !s.IsFineable(balance) {
		return decimal.Zero
	}
	fine := balance.Abs().Mul(s.Rate).Floor()
	if fine.LessThan(s.Minimum) {
		return s.Minimum
	}
	if fine.GreaterThan(s.Maximum) {
		return s.Maximum
	}
	return fine
}
