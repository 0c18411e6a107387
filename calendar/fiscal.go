package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// FISCAL YEAR-END - Month/day anchor for fiscal periods
// =============================================================================

// FiscalYearEnd is the month and day an account's fiscal year closes on,
// e.g. 06-30. It is constant per account, not per call.
type FiscalYearEnd struct {
	Month time.Month
	Day   int
}

// ParseFiscalYearEnd parses "MM-DD" (single-digit parts accepted). Feb 29 is
// allowed and anchors to Feb 28 in non-leap years.
func ParseFiscalYearEnd(s string) (FiscalYearEnd, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return FiscalYearEnd{}, fmt.Errorf("%w: %q is not MM-DD", ErrInvalidFiscalYearEnd, s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return FiscalYearEnd{}, fmt.Errorf("%w: bad month in %q", ErrInvalidFiscalYearEnd, s)
	}
	day, err := strconv.Atoi(parts[1])
	// 2000 is a leap year, so Feb 29 passes.
	if err != nil || day < 1 || day > DaysIn(2000, time.Month(month)) {
		return FiscalYearEnd{}, fmt.Errorf("%w: bad day in %q", ErrInvalidFiscalYearEnd, s)
	}
	return FiscalYearEnd{Month: time.Month(month), Day: day}, nil
}

// MustFiscalYearEnd is ParseFiscalYearEnd for constants; it panics on bad input.
func MustFiscalYearEnd(s string) FiscalYearEnd {
	fye, err := ParseFiscalYearEnd(s)
	if err != nil {
		panic(err)
	}
	return fye
}

func (f FiscalYearEnd) IsZero() bool   { return f.Month == 0 }
func (f FiscalYearEnd) String() string { return fmt.Sprintf("%02d-%02d", int(f.Month), f.Day) }

// In returns the fiscal year-end date falling in the given calendar year.
func (f FiscalYearEnd) In(year int) Date {
	return ClampedDate(year, f.Month, f.Day)
}

// LatestBefore returns the most recent fiscal year-end strictly before d.
func (f FiscalYearEnd) LatestBefore(d Date) Date {
	anchor := f.In(d.Year())
	if !anchor.Before(d) {
		anchor = f.In(d.Year() - 1)
	}
	return anchor
}

// QuarterEndMonths returns the four fiscal quarter-end months, starting with
// the month three after the year-end and finishing on the year-end month.
func (f FiscalYearEnd) QuarterEndMonths() [4]time.Month {
	var months [4]time.Month
	for q := 1; q <= 4; q++ {
		_, m := ShiftMonth(0, f.Month, 3*q)
		months[q-1] = m
	}
	return months
}

// MarshalText renders "MM-DD"; the zero value renders empty.
func (f FiscalYearEnd) MarshalText() ([]byte, error) {
	if f.IsZero() {
		return []byte{}, nil
	}
	return []byte(f.String()), nil
}

func (f *FiscalYearEnd) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*f = FiscalYearEnd{}
		return nil
	}
	parsed, err := ParseFiscalYearEnd(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
