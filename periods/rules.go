package periods

import (
	"fmt"
	"time"

	"github.com/warp/period-engine/calendar"
)

// Every month-end below comes from calendar.EndOfMonth / MonthEndShift, so
// February and 30-day months always get their real length.

func resolveRule(rule Rule, tc TemporalContext, n int) (calendar.Range, error) {
	asOf := tc.AsOf

	switch rule {
	case RuleMonthToDate:
		return toDate(calendar.MonthEndShift(asOf.Year(), asOf.Month(), -1), asOf), nil

	case RuleQuarterToDate:
		// Back to the calendar quarter-end preceding as-of's quarter.
		back := (int(asOf.Month())-1)%3 + 1
		return toDate(calendar.MonthEndShift(asOf.Year(), asOf.Month(), -back), asOf), nil

	case RuleYearToDate:
		return toDate(calendar.EndOfYear(asOf.Year()-1), asOf), nil

	case RuleMostRecentMonth:
		return mostRecentMonth(asOf), nil

	case RulePriorMonth:
		return shiftMonthEnds(mostRecentMonth(asOf), -n), nil

	case RuleMostRecentQuarter:
		return mostRecentQuarter(asOf), nil

	case RulePriorQuarter:
		return shiftMonthEnds(mostRecentQuarter(asOf), -3*n), nil

	case RuleMostRecentYear:
		return mostRecentYear(asOf), nil

	case RulePriorYear:
		return shiftMonthEnds(mostRecentYear(asOf), -12*n), nil

	case RuleMostRecentFiscalQuarter:
		if tc.FiscalYearEnd.IsZero() {
			return calendar.Range{}, ErrMissingFiscalYearEnd
		}
		return mostRecentFiscalQuarter(asOf, tc.FiscalYearEnd), nil

	case RulePriorFiscalQuarter:
		if tc.FiscalYearEnd.IsZero() {
			return calendar.Range{}, ErrMissingFiscalYearEnd
		}
		return shiftMonthEnds(mostRecentFiscalQuarter(asOf, tc.FiscalYearEnd), -3*n), nil

	case RulePriorFiscalYear:
		if tc.FiscalYearEnd.IsZero() {
			return calendar.Range{}, ErrMissingFiscalYearEnd
		}
		// Anchored on the year-end day, as FYTD is; a mid-month year-end
		// does not round to the month end.
		endYear := asOf.Year() - n
		return calendar.Range{
			Begin: tc.FiscalYearEnd.In(endYear - 1),
			End:   tc.FiscalYearEnd.In(endYear),
		}, nil

	case RuleFiscalYearToDate:
		if tc.FiscalYearEnd.IsZero() {
			return calendar.Range{}, ErrMissingFiscalYearEnd
		}
		return toDate(tc.FiscalYearEnd.LatestBefore(asOf), asOf), nil

	case RuleTrailingMonths:
		if asOf.IsMonthEnd() {
			return toDate(calendar.MonthEndShift(asOf.Year(), asOf.Month(), -n), asOf), nil
		}
		return toDate(asOf.AddMonthsClamped(-n), asOf), nil

	case RuleTrailingYears:
		if asOf.IsMonthEnd() {
			return toDate(calendar.EndOfMonth(asOf.Year()-n, asOf.Month()), asOf), nil
		}
		return toDate(asOf.AddYearsClamped(-n), asOf), nil

	case RuleInceptionToDate:
		if tc.Inception.IsZero() {
			return calendar.Range{}, ErrMissingInceptionDate
		}
		if tc.Inception.After(asOf) {
			return calendar.Range{}, fmt.Errorf("%w: %s > %s", ErrInceptionAfterAsOf, tc.Inception, asOf)
		}
		return toDate(tc.Inception, asOf), nil
	}

	return calendar.Range{}, fmt.Errorf("no calculation for rule %q", rule)
}

func toDate(begin, asOf calendar.Date) calendar.Range {
	return calendar.Range{Begin: begin, End: asOf}
}

// shiftMonthEnds moves both month-end boundaries of r by delta months.
func shiftMonthEnds(r calendar.Range, delta int) calendar.Range {
	return calendar.Range{
		Begin: calendar.MonthEndShift(r.Begin.Year(), r.Begin.Month(), delta),
		End:   calendar.MonthEndShift(r.End.Year(), r.End.Month(), delta),
	}
}

// mostRecentMonth is the last completed calendar month. An as-of on a
// month-end completes its own month.
func mostRecentMonth(asOf calendar.Date) calendar.Range {
	end := asOf
	if !asOf.IsMonthEnd() {
		end = calendar.MonthEndShift(asOf.Year(), asOf.Month(), -1)
	}
	return calendar.Range{
		Begin: calendar.MonthEndShift(end.Year(), end.Month(), -1),
		End:   end,
	}
}

// mostRecentQuarter is the latest calendar quarter whose end is on or before as-of.
func mostRecentQuarter(asOf calendar.Date) calendar.Range {
	end := calendar.MonthEndShift(asOf.Year(), asOf.Month(), -(int(asOf.Month()) % 3))
	if end.After(asOf) {
		end = calendar.MonthEndShift(end.Year(), end.Month(), -3)
	}
	return calendar.Range{
		Begin: calendar.MonthEndShift(end.Year(), end.Month(), -3),
		End:   end,
	}
}

// mostRecentYear is the latest completed calendar year, Dec 31 to Dec 31.
func mostRecentYear(asOf calendar.Date) calendar.Range {
	endYear := asOf.Year() - 1
	if asOf.Month() == 12 && asOf.Day() == 31 {
		endYear = asOf.Year()
	}
	return calendar.Range{
		Begin: calendar.EndOfYear(endYear - 1),
		End:   calendar.EndOfYear(endYear),
	}
}

// mostRecentFiscalQuarter walks back one to three months from as-of's month
// until it lands on a fiscal quarter-end month. Quarter boundaries are
// month-ends; the as-of month itself never counts as completed.
func mostRecentFiscalQuarter(asOf calendar.Date, fye calendar.FiscalYearEnd) calendar.Range {
	quarterEnds := fye.QuarterEndMonths()

	var end calendar.Date
	for back := 1; back <= 3; back++ {
		y, m := calendar.ShiftMonth(asOf.Year(), asOf.Month(), -back)
		if containsMonth(quarterEnds, m) {
			end = calendar.EndOfMonth(y, m)
			break
		}
	}
	return calendar.Range{
		Begin: calendar.MonthEndShift(end.Year(), end.Month(), -3),
		End:   end,
	}
}

func containsMonth(months [4]time.Month, m time.Month) bool {
	for _, candidate := range months {
		if candidate == m {
			return true
		}
	}
	return false
}
