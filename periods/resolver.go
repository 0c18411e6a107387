/*
Package periods resolves performance period codes (MTD, QTD, PQ3, 5YA, PFY2,
ITD, ...) into begin/end dates for an account on an as-of date.

KEY CONCEPTS:
  - TemporalContext: as-of date, inception date, fiscal year-end
  - Table: period code -> structural parameters (definition.go)
  - Resolver: code + context -> ResolvedPeriod, one rule family per code
  - Filter: ordered list of codes -> Batch, with inception and duplicate
    suppression (filter.go)

Everything here is a pure function of its inputs. A Resolver holds only the
read-only Table, so one instance can serve any number of goroutines.

USAGE:
  r := periods.NewResolver(periods.DefaultTable())
  tc, err := periods.NewTemporalContext("2023-04-30", "2000-10-31", "06-30", "")
  p, err := r.Resolve("FYTD", tc)    // [2022-06-30, 2023-04-30]

SEE ALSO:
  - rules.go: the date arithmetic of each family
  - rule.go: code classification
*/
package periods

import (
	"fmt"

	"github.com/warp/period-engine/calendar"
)

// =============================================================================
// TEMPORAL CONTEXT - Resolver input envelope
// =============================================================================

// TemporalContext carries the dates every rule family reads from.
type TemporalContext struct {
	AsOf          calendar.Date
	Inception     calendar.Date          // zero when unknown; required by ITD/ITDA
	FiscalYearEnd calendar.FiscalYearEnd // zero when unknown; required by fiscal families
}

// NewTemporalContext parses the string form used by callers. datePattern only
// applies to asOf (strftime or Go layout; empty means ISO). inception must be
// ISO and may be empty, as may fiscalYearEnd.
func NewTemporalContext(asOf, inception, fiscalYearEnd, datePattern string) (TemporalContext, error) {
	var tc TemporalContext

	d, err := calendar.Parse(asOf, datePattern)
	if err != nil {
		return tc, &DateError{Field: "as_of_date", Err: err}
	}
	tc.AsOf = d

	if inception != "" {
		d, err := calendar.ParseISO(inception)
		if err != nil {
			return tc, &DateError{Field: "inception_date", Err: err}
		}
		tc.Inception = d
	}

	if fiscalYearEnd != "" {
		fye, err := calendar.ParseFiscalYearEnd(fiscalYearEnd)
		if err != nil {
			return tc, err
		}
		tc.FiscalYearEnd = fye
	}
	return tc, nil
}

// WithAsOf returns a copy of tc for another as-of date.
func (tc TemporalContext) WithAsOf(asOf calendar.Date) TemporalContext {
	tc.AsOf = asOf
	return tc
}

// =============================================================================
// RESOLVED PERIOD - Resolver output
// =============================================================================

// ResolvedPeriod is one code resolved against one context. Begin <= End always.
type ResolvedPeriod struct {
	Code         string
	Begin        calendar.Date
	End          calendar.Date
	IsAnnualized bool
}

func (p ResolvedPeriod) Range() calendar.Range { return calendar.Range{Begin: p.Begin, End: p.End} }
func (p ResolvedPeriod) BeginDate() string     { return p.Begin.String() }
func (p ResolvedPeriod) EndDate() string       { return p.End.String() }

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver computes begin/end dates for period codes.
type Resolver struct {
	table *Table
}

// NewResolver builds a resolver over table; nil selects DefaultTable.
func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table}
}

// Table returns the definition table the resolver reads magnitudes from.
func (r *Resolver) Table() *Table { return r.table }

// Resolve computes the period for code. Fixed-span codes (MTD, FYTD, ITD, ...)
// resolve without a table entry; parametric codes must be registered.
func (r *Resolver) Resolve(code string, tc TemporalContext) (ResolvedPeriod, error) {
	code = NormalizeCode(code)
	if tc.AsOf.IsZero() {
		return ResolvedPeriod{}, &DateError{Field: "as_of_date", Err: fmt.Errorf("%w: missing", calendar.ErrInvalidDate)}
	}

	c, err := classify(code)
	if err != nil {
		return ResolvedPeriod{}, err
	}

	n := 0
	if m := c.family.magnitude; m != MagnitudeNone {
		def, err := r.table.Lookup(code)
		if err != nil {
			return ResolvedPeriod{}, &CodeError{Code: code, Reason: "not in definition table", Err: ErrUnknownPeriodCode}
		}
		v, ok := def.Magnitude(m)
		if !ok {
			return ResolvedPeriod{}, &CodeError{Code: code, Reason: "definition has no " + string(m)}
		}
		n = v
	}

	rng, err := resolveRule(c.family.rule, tc, n)
	if err != nil {
		return ResolvedPeriod{}, err
	}
	if !rng.Valid() {
		return ResolvedPeriod{}, fmt.Errorf("period %s resolved to inverted range %s", code, rng)
	}

	return ResolvedPeriod{
		Code:         code,
		Begin:        rng.Begin,
		End:          rng.End,
		IsAnnualized: IsAnnualized(code),
	}, nil
}
