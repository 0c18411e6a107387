package calendar

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RANGE - Inclusive begin/end pair
// =============================================================================

// Range is an inclusive [Begin, End] span of calendar days.
//
// Performance periods follow the month-end convention: a period "begins" on
// the last day of the prior month, so MTD as of 2023-04-30 is
// [2023-03-31, 2023-04-30].
type Range struct {
	Begin Date
	End   Date
}

// Valid reports whether Begin is on or before End.
func (r Range) Valid() bool { return r.Begin.BeforeOrEqual(r.End) }

// Contains returns true if d is within [Begin, End].
func (r Range) Contains(d Date) bool {
	return d.AfterOrEqual(r.Begin) && d.BeforeOrEqual(r.End)
}

// Days returns the number of days from Begin to End.
func (r Range) Days() int { return DaysBetween(r.Begin, r.End) }

func (r Range) String() string {
	return "[" + r.Begin.String() + ", " + r.End.String() + "]"
}

// Years returns the span as a fraction of years: whole calendar months / 12
// plus leftover days / 365. When Begin is a month end, months step month-end
// to month-end, so 2021-02-28 -> 2023-02-28 is exactly 2.
func (r Range) Years() decimal.Decimal {
	if !r.Begin.Before(r.End) {
		return decimal.Zero
	}

	months := (r.End.Year()-r.Begin.Year())*12 + int(r.End.Month()) - int(r.Begin.Month())
	anchor := r.stepMonths(months)
	for months > 0 && anchor.After(r.End) {
		months--
		anchor = r.stepMonths(months)
	}
	days := DaysBetween(anchor, r.End)

	whole := decimal.NewFromInt(int64(months)).Div(decimal.NewFromInt(12))
	rest := decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(365))
	return whole.Add(rest)
}

func (r Range) stepMonths(n int) Date {
	if r.Begin.IsMonthEnd() {
		return MonthEndShift(r.Begin.Year(), r.Begin.Month(), n)
	}
	return r.Begin.AddMonthsClamped(n)
}
