package calendar

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultPattern is the strftime pattern used when a caller supplies none.
const DefaultPattern = "%Y-%m-%d"

// ParseISO parses a YYYY-MM-DD date.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse(ISOLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ParseError{Value: s, Pattern: DefaultPattern, Err: err}
	}
	return FromTime(t), nil
}

// Parse parses s with pattern, which may be a strftime pattern ("%Y-%m-%dT%H:%M:%S")
// or a Go reference layout ("2006-01-02T15:04:05"). Empty pattern means ISO.
// Any time-of-day component is dropped.
func Parse(s, pattern string) (Date, error) {
	pattern = strings.TrimSpace(pattern)
	s = strings.TrimSpace(s)
	if pattern == "" || pattern == DefaultPattern || pattern == ISOLayout {
		return ParseISO(s)
	}

	var (
		t   time.Time
		err error
	)
	if strings.Contains(pattern, "%") {
		t, err = strftime.Parse(pattern, s)
	} else {
		t, err = time.Parse(pattern, s)
	}
	if err != nil {
		return Date{}, &ParseError{Value: s, Pattern: pattern, Err: err}
	}
	return FromTime(t), nil
}
