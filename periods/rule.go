package periods

import (
	"strconv"
	"strings"
)

// =============================================================================
// RULE FAMILIES - One calculation rule per period code
// =============================================================================

// Rule identifies the calculation a period code resolves with.
type Rule string

const (
	RuleMonthToDate             Rule = "month_to_date"
	RuleQuarterToDate           Rule = "quarter_to_date"
	RuleYearToDate              Rule = "year_to_date"
	RuleMostRecentMonth         Rule = "most_recent_month"
	RulePriorMonth              Rule = "prior_month"
	RuleMostRecentQuarter       Rule = "most_recent_quarter"
	RulePriorQuarter            Rule = "prior_quarter"
	RuleMostRecentYear          Rule = "most_recent_year"
	RulePriorYear               Rule = "prior_year"
	RuleMostRecentFiscalQuarter Rule = "most_recent_fiscal_quarter"
	RulePriorFiscalQuarter      Rule = "prior_fiscal_quarter"
	RulePriorFiscalYear         Rule = "prior_fiscal_year"
	RuleFiscalYearToDate        Rule = "fiscal_year_to_date"
	RuleTrailingMonths          Rule = "trailing_months"
	RuleTrailingYears           Rule = "trailing_years"
	RuleInceptionToDate         Rule = "inception_to_date"
)

// Magnitude names the definition-table field a parametric family reads.
type Magnitude string

const (
	MagnitudeNone     Magnitude = ""
	MagnitudeMonths   Magnitude = "months"
	MagnitudeQuarters Magnitude = "quarters"
	MagnitudeYears    Magnitude = "years"
)

type matchKind int

const (
	matchExact matchKind = iota
	matchPrefix
	matchSuffix
)

// family is one pattern that selects a rule. Several families may share a
// rule (YC and YA, ITD and ITDA).
type family struct {
	pattern   string
	kind      matchKind
	rule      Rule
	magnitude Magnitude
}

// families lists every pattern the resolver understands. Order is only used
// for error messages: a code must match exactly one entry.
var families = []family{
	{"MTD", matchExact, RuleMonthToDate, MagnitudeNone},
	{"QTD", matchExact, RuleQuarterToDate, MagnitudeNone},
	{"YTD", matchExact, RuleYearToDate, MagnitudeNone},
	{"MRM", matchExact, RuleMostRecentMonth, MagnitudeNone},
	{"MRQ", matchExact, RuleMostRecentQuarter, MagnitudeNone},
	{"MRY", matchExact, RuleMostRecentYear, MagnitudeNone},
	{"MRFQ", matchExact, RuleMostRecentFiscalQuarter, MagnitudeNone},
	{"FYTD", matchExact, RuleFiscalYearToDate, MagnitudeNone},
	{"ITD", matchExact, RuleInceptionToDate, MagnitudeNone},
	{"ITDA", matchExact, RuleInceptionToDate, MagnitudeNone},
	{"PM", matchPrefix, RulePriorMonth, MagnitudeMonths},
	{"PQ", matchPrefix, RulePriorQuarter, MagnitudeQuarters},
	{"PY", matchPrefix, RulePriorYear, MagnitudeYears},
	{"PFQ", matchPrefix, RulePriorFiscalQuarter, MagnitudeQuarters},
	{"PFY", matchPrefix, RulePriorFiscalYear, MagnitudeYears},
	{"MT", matchSuffix, RuleTrailingMonths, MagnitudeMonths},
	{"YC", matchSuffix, RuleTrailingYears, MagnitudeYears},
	{"YA", matchSuffix, RuleTrailingYears, MagnitudeYears},
}

func (f family) matches(code string) bool {
	switch f.kind {
	case matchExact:
		return code == f.pattern
	case matchPrefix:
		return strings.HasPrefix(code, f.pattern)
	default:
		return strings.HasSuffix(code, f.pattern)
	}
}

// param returns the numeric part of a parametric code ("PQ3" -> "3", "12MT" -> "12").
func (f family) param(code string) string {
	switch f.kind {
	case matchPrefix:
		return strings.TrimPrefix(code, f.pattern)
	case matchSuffix:
		return strings.TrimSuffix(code, f.pattern)
	default:
		return ""
	}
}

// classification is the single family a code resolved to, plus its parsed parameter.
type classification struct {
	family family
	param  int
}

// classify selects the one family matching code. Zero matches and multiple
// matches both fail; nothing is decided by evaluation order.
func classify(code string) (classification, error) {
	var matched []family
	for _, f := range families {
		if f.matches(code) {
			matched = append(matched, f)
		}
	}

	switch len(matched) {
	case 0:
		return classification{}, &CodeError{Code: code, Reason: "no rule family matches"}
	case 1:
	default:
		names := make([]string, len(matched))
		for i, f := range matched {
			names[i] = f.pattern
		}
		return classification{}, &CodeError{
			Code:   code,
			Reason: "matches families " + strings.Join(names, ", "),
			Err:    ErrAmbiguousPeriodCode,
		}
	}

	f := matched[0]
	c := classification{family: f}
	if f.magnitude == MagnitudeNone {
		return c, nil
	}

	raw := f.param(code)
	if raw == "" {
		return classification{}, &CodeError{Code: code, Reason: "missing numeric parameter"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || strings.ContainsAny(raw, "+-") {
		return classification{}, &CodeError{Code: code, Reason: "parameter " + strconv.Quote(raw) + " is not a non-negative integer"}
	}
	c.param = n
	return c, nil
}

// RuleFor reports the rule family a code resolves with.
func RuleFor(code string) (Rule, error) {
	c, err := classify(NormalizeCode(code))
	if err != nil {
		return "", err
	}
	return c.family.rule, nil
}

// NormalizeCode trims and upper-cases a code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsAnnualized is true iff the code ends in "YA" or is "ITDA".
func IsAnnualized(code string) bool {
	code = NormalizeCode(code)
	return strings.HasSuffix(code, "YA") || code == "ITDA"
}
