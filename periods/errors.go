/*
errors.go - Error taxonomy for period resolution

ERROR CATEGORIES:
  1. Date errors   - as-of / inception date does not match its pattern
  2. Code errors   - unrecognized, ambiguous, or parameter-less period codes
  3. Table errors  - definition table lookup misses and load-time validation
  4. Context errors - temporal context missing what a rule family needs

All failures are deterministic validation errors. Nothing here is retryable:
the resolver and filter fail the call and let the caller decide whether to
skip the code or abort.

USAGE:
  if errors.Is(err, periods.ErrInvalidPeriodCode) { ... }
  var ce *periods.CodeError
  if errors.As(err, &ce) { log(ce.Code) }
*/
package periods

import (
	"errors"
	"fmt"

	"github.com/warp/period-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDateParse is returned when the as-of or inception date is malformed.
	ErrDateParse = errors.New("date parse error")

	// ErrInvalidPeriodCode is returned for any code the resolver cannot resolve.
	ErrInvalidPeriodCode = errors.New("invalid period code")

	// ErrUnknownPeriodCode is returned by the definition table on a lookup miss.
	// The resolver surfaces it wrapped in ErrInvalidPeriodCode.
	ErrUnknownPeriodCode = errors.New("unknown period code")

	// ErrAmbiguousPeriodCode is returned when a code matches more than one rule family.
	ErrAmbiguousPeriodCode = errors.New("ambiguous period code")

	// ErrInvalidTable is returned when a definition table fails load-time validation.
	ErrInvalidTable = errors.New("invalid period definition table")

	// ErrMissingFiscalYearEnd is returned when a fiscal family runs without a fiscal year-end.
	ErrMissingFiscalYearEnd = errors.New("fiscal year-end required")

	// ErrMissingInceptionDate is returned when ITD/ITDA or suppression runs without an inception date.
	ErrMissingInceptionDate = errors.New("inception date required")

	// ErrInceptionAfterAsOf is returned when inception-to-date would end before it begins.
	ErrInceptionAfterAsOf = errors.New("inception date after as-of date")

	// ErrUnknownPreset is returned for preset names that are not registered.
	ErrUnknownPreset = errors.New("unknown period preset")

	// ErrScheduleTooLong is returned when a schedule spans more than MaxScheduleDates as-of dates.
	ErrScheduleTooLong = errors.New("schedule too long")

	// ErrInvalidReturn is returned when a cumulative return cannot be annualized.
	ErrInvalidReturn = errors.New("invalid cumulative return")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DateError reports which context field failed to parse.
type DateError struct {
	Field string // "as_of_date" or "inception_date"
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *DateError) Unwrap() []error {
	return []error{ErrDateParse, e.Err}
}

// CodeError reports a code-level failure. It always matches ErrInvalidPeriodCode
// and additionally the more specific cause (unknown, ambiguous, ...).
type CodeError struct {
	Code   string
	Reason string
	Err    error
}

func (e *CodeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid period code %q", e.Code)
	}
	return fmt.Sprintf("invalid period code %q: %s", e.Code, e.Reason)
}

func (e *CodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPeriodCode}
	}
	return []error{ErrInvalidPeriodCode, e.Err}
}

// BatchError identifies which entry of a period list failed.
type BatchError struct {
	Index int
	Code  string
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("period list entry %d (%q): %v", e.Index, e.Code, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// ScheduleError identifies the as-of date of a schedule that failed.
type ScheduleError struct {
	AsOf calendar.Date
	Err  error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("as of %s: %v", e.AsOf, e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrDateParse) ||
		errors.Is(err, ErrInvalidPeriodCode) ||
		errors.Is(err, ErrMissingFiscalYearEnd) ||
		errors.Is(err, ErrMissingInceptionDate) ||
		errors.Is(err, ErrInceptionAfterAsOf) ||
		errors.Is(err, ErrUnknownPreset) ||
		errors.Is(err, ErrInvalidReturn) ||
		errors.Is(err, ErrScheduleTooLong) ||
		errors.Is(err, calendar.ErrInvalidDate) ||
		errors.Is(err, calendar.ErrInvalidFiscalYearEnd)
}
