package periods_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/periods"
)

func intPtr(v int) *int { return &v }

// =============================================================================
// DEFAULT TABLE
// =============================================================================

func TestDefaultTable_CoversUniverse(t *testing.T) {
	table := periods.DefaultTable()
	assert.Equal(t, 83, table.Len())

	required := []string{
		"MTD", "QTD", "YTD", "ITD", "ITDA", "FYTD",
		"PQ1", "PQ4", "PY1", "PY10",
		"1MT", "3MT", "6MT", "9MT", "12MT",
		"2YC", "30YC", "2YA", "30YA",
		"PFQ1", "PFQ4", "PFY1", "PFY10",
		"MRM", "MRQ", "MRY", "MRFQ", "PM1", "PM12",
	}
	for _, code := range required {
		assert.True(t, table.Has(code), code)
	}
}

func TestDefaultTable_Lookup(t *testing.T) {
	table := periods.DefaultTable()

	d, err := table.Lookup("pq3")
	require.NoError(t, err)
	assert.Equal(t, "PQ3", d.Code)
	assert.Equal(t, periods.RulePriorQuarter, d.Rule())
	q, ok := d.Magnitude(periods.MagnitudeQuarters)
	assert.True(t, ok)
	assert.Equal(t, 3, q)
	_, ok = d.Magnitude(periods.MagnitudeYears)
	assert.False(t, ok)

	d, err = table.Lookup("MTD")
	require.NoError(t, err)
	assert.Equal(t, "Month to Date", d.DisplayName)
	assert.Nil(t, d.Months)

	_, err = table.Lookup("PQ9")
	assert.ErrorIs(t, err, periods.ErrUnknownPeriodCode)
}

func TestDefaultTable_DefinitionsKeepFileOrder(t *testing.T) {
	defs := periods.DefaultTable().Definitions()
	require.NotEmpty(t, defs)
	assert.Equal(t, "MTD", defs[0].Code)

	// callers cannot mutate the table through the returned slice
	defs[0].Code = "CHANGED"
	assert.Equal(t, "MTD", periods.DefaultTable().Definitions()[0].Code)
}

// =============================================================================
// LOAD-TIME VALIDATION
// =============================================================================

func TestLoadTable(t *testing.T) {
	src := `
periods:
  - code: QTD
    display_name: Quarter to Date
  - code: PQ1
    display_name: Prior Quarter 1
    quarters: 1
  - code: 3YA
    years: 3
`
	table, err := periods.LoadTable(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	// GIVEN: a resolver over the injected table
	r := periods.NewResolver(table)
	tc := newContext(t, "2023-04-30", "", "")

	// THEN: registered parametric codes resolve
	_, err = r.Resolve("PQ1", tc)
	assert.NoError(t, err)

	// THEN: unregistered parametric codes fail as invalid
	_, err = r.Resolve("PQ2", tc)
	assert.ErrorIs(t, err, periods.ErrInvalidPeriodCode)
	assert.ErrorIs(t, err, periods.ErrUnknownPeriodCode)

	// THEN: fixed-span codes need no entry
	p, err := r.Resolve("MTD", tc)
	require.NoError(t, err)
	assert.Equal(t, "2023-03-31", p.BeginDate())
}

func TestLoadTable_JSONAccepted(t *testing.T) {
	src := `{"periods": [{"code": "12MT", "display_name": "Trailing 12 Months", "months": 12}]}`
	table, err := periods.LoadTable(strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, table.Has("12MT"))
}

func TestLoadTable_RejectsUnknownFields(t *testing.T) {
	src := `
periods:
  - code: PQ1
    quartrs: 1
`
	_, err := periods.LoadTable(strings.NewReader(src))
	assert.ErrorIs(t, err, periods.ErrInvalidTable)
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name string
		defs []periods.Definition
	}{
		{"empty code", []periods.Definition{{Code: ""}}},
		{"not normalized", []periods.Definition{{Code: "qtd"}}},
		{"duplicate", []periods.Definition{{Code: "QTD"}, {Code: "QTD"}}},
		{"no family", []periods.Definition{{Code: "WTD"}}},
		{"ambiguous", []periods.Definition{{Code: "PMT", Months: intPtr(0)}}},
		{"missing magnitude", []periods.Definition{{Code: "PQ3"}}},
		{"wrong field", []periods.Definition{{Code: "PQ3", Months: intPtr(3)}}},
		{"mismatch", []periods.Definition{{Code: "PQ3", Quarters: intPtr(2)}}},
		{"negative", []periods.Definition{{Code: "QTD", Years: intPtr(-1)}}},
		{"bad parameter", []periods.Definition{{Code: "PQX", Quarters: intPtr(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := periods.NewTable(tt.defs)
			assert.ErrorIs(t, err, periods.ErrInvalidTable)
		})
	}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestRuleFor(t *testing.T) {
	tests := map[string]periods.Rule{
		"MTD":   periods.RuleMonthToDate,
		"itda":  periods.RuleInceptionToDate,
		"PM3":   periods.RulePriorMonth,
		"PFQ2":  periods.RulePriorFiscalQuarter,
		"PFY7":  periods.RulePriorFiscalYear,
		"PY7":   periods.RulePriorYear,
		"9MT":   periods.RuleTrailingMonths,
		"12YC":  periods.RuleTrailingYears,
		"12YA":  periods.RuleTrailingYears,
		"MRFQ":  periods.RuleMostRecentFiscalQuarter,
		"PQ11":  periods.RulePriorQuarter,
		" fytd": periods.RuleFiscalYearToDate,
	}
	for code, want := range tests {
		got, err := periods.RuleFor(code)
		require.NoError(t, err, code)
		assert.Equal(t, want, got, code)
	}

	_, err := periods.RuleFor("PY3YA")
	assert.ErrorIs(t, err, periods.ErrAmbiguousPeriodCode)
}

func TestIsAnnualized(t *testing.T) {
	assert.True(t, periods.IsAnnualized("ITDA"))
	assert.True(t, periods.IsAnnualized("5ya"))
	assert.False(t, periods.IsAnnualized("ITD"))
	assert.False(t, periods.IsAnnualized("5YC"))
	assert.False(t, periods.IsAnnualized("PY1"))
	assert.False(t, periods.IsAnnualized("YTD"))
}

func TestResolvedPeriod_Range(t *testing.T) {
	r := periods.NewResolver(nil)
	p := mustResolve(t, r, "12MT", newContext(t, "2023-04-30", "", ""))
	assert.Equal(t, calendar.Range{Begin: p.Begin, End: p.End}, p.Range())
	assert.Equal(t, 365, p.Range().Days())
}
