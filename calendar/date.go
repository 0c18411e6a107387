/*
Package calendar provides the day-granularity date arithmetic the period
resolver is built on.

KEY CONCEPTS:
  - Date: a calendar day (UTC midnight), rendered as ISO YYYY-MM-DD
  - Month-end resolution: the last day of a month always comes from the real
    calendar (28/29/30/31), never from a fixed 30 or 31
  - Day clamping: day-of-month preserving offsets clamp to the target month's
    last valid day (Mar 31 minus one month is Feb 28, or Feb 29 in leap years)
  - FiscalYearEnd: a month-day anchor for fiscal periods (fiscal.go)
  - Range: an inclusive [Begin, End] pair of dates (range.go)

USAGE:
  d := calendar.NewDate(2021, time.March, 31)
  d.AddMonthsClamped(-1)          // 2021-02-28
  calendar.EndOfMonth(2020, 2)    // 2020-02-29

SEE ALSO:
  - periods/resolver.go: consumes these helpers for every period family
*/
package calendar

import (
	"time"
)

// ISOLayout is the output format for every date the engine renders.
const ISOLayout = "2006-01-02"

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// Date is a calendar day. The zero value is the zero time and reports IsZero.
type Date struct {
	Time time.Time
}

// NewDate returns the given day. Out-of-range days normalize the way time.Date does;
// use ClampedDate when the day must stay inside the month.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day, keeping t's wall-clock date.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ClampedDate returns year-month-day, pulling day back to the month's last day if needed.
func ClampedDate(year int, month time.Month, day int) Date {
	if last := DaysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(year, month, day)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Properties
func (d Date) Year() int          { return d.Time.Year() }
func (d Date) Month() time.Month  { return d.Time.Month() }
func (d Date) Day() int           { return d.Time.Day() }
func (d Date) IsZero() bool       { return d.Time.IsZero() }
func (d Date) String() string     { return d.Time.Format(ISOLayout) }
func (d Date) IsMonthEnd() bool   { return d.Day() == DaysIn(d.Year(), d.Month()) }
func (d Date) AddDays(n int) Date { return FromTime(d.Time.AddDate(0, 0, n)) }

// MonthEnd returns the last day of d's month.
func (d Date) MonthEnd() Date { return EndOfMonth(d.Year(), d.Month()) }

// AddMonthsClamped moves d by n months keeping the day-of-month, clamped to
// the target month's length. Unlike time.AddDate it never spills into the next month.
func (d Date) AddMonthsClamped(n int) Date {
	y, m := ShiftMonth(d.Year(), d.Month(), n)
	return ClampedDate(y, m, d.Day())
}

// AddYearsClamped moves d by n years; Feb 29 lands on Feb 28 in non-leap years.
func (d Date) AddYearsClamped(n int) Date {
	return ClampedDate(d.Year()+n, d.Month(), d.Day())
}

// MarshalText renders the ISO form; the zero Date renders empty.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText parses the ISO form; empty input yields the zero Date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseISO(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// ShiftMonth moves (year, month) by delta months with a true modulo-12 wrap.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	idx := year*12 + int(month) - 1 + delta
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return DaysIn(year, time.February) == 29
}

func EndOfMonth(year int, month time.Month) Date { return NewDate(year, month, DaysIn(year, month)) }
func EndOfYear(year int) Date                    { return NewDate(year, time.December, 31) }

// MonthEndShift returns the last day of the month delta months away from (year, month).
func MonthEndShift(year int, month time.Month, delta int) Date {
	y, m := ShiftMonth(year, month, delta)
	return EndOfMonth(y, m)
}

// DaysBetween counts whole days from -> to (negative when to is earlier).
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// MonthEnds returns every month-end date in [from, to], in order.
func MonthEnds(from, to Date) []Date {
	var out []Date
	if to.Before(from) {
		return out
	}
	current := from.MonthEnd()
	for current.BeforeOrEqual(to) {
		out = append(out, current)
		current = MonthEndShift(current.Year(), current.Month(), 1)
	}
	return out
}
