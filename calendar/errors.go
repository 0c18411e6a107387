package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when a date string does not match its pattern.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidFiscalYearEnd is returned for fiscal year-ends that are not a real MM-DD.
	ErrInvalidFiscalYearEnd = errors.New("invalid fiscal year-end")
)

// ParseError carries the offending value and the pattern it was parsed against.
type ParseError struct {
	Value   string
	Pattern string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q for pattern %q: %v", e.Value, e.Pattern, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidDate, e.Err}
}
