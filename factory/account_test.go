package factory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/periods"
)

func TestParseProfile_YAML(t *testing.T) {
	f := factory.NewAccountFactory(nil)

	acct, set, err := f.ParseProfile([]byte(`
code: acme-growth
name: Acme Growth Composite
inception_date: 2000-10-31
fiscal_year_end: "06-30"
period_set: performance
`))
	require.NoError(t, err)
	assert.Nil(t, set)
	assert.Equal(t, "ACME-GROWTH", acct.Code)
	assert.Equal(t, "2000-10-31", acct.InceptionDate.String())
	assert.Equal(t, "06-30", acct.FiscalYearEnd.String())
	assert.Equal(t, "performance", acct.PeriodSet)
}

func TestParseProfile_JSONWithInlinePeriods(t *testing.T) {
	f := factory.NewAccountFactory(nil)

	acct, set, err := f.ParseProfile([]byte(`{
		"code": "NW-ENDOW",
		"name": "Northwind Endowment",
		"inception_date": "1995-06-30",
		"periods": ["qtd", " fytd", "PFY1", "5ya"]
	}`))
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, "nw-endow-periods", set.Name)
	assert.Equal(t, []string{"QTD", "FYTD", "PFY1", "5YA"}, set.Codes)
	assert.Equal(t, set.Name, acct.PeriodSet)
}

func TestParseProfile_GeneratesCode(t *testing.T) {
	f := factory.NewAccountFactory(nil)

	a1, _, err := f.ParseProfile([]byte(`name: Unnamed`))
	require.NoError(t, err)
	a2, _, err := f.ParseProfile([]byte(`name: Unnamed`))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a1.Code, "ACCT-"))
	assert.NotEqual(t, a1.Code, a2.Code)
}

func TestParseProfile_Invalid(t *testing.T) {
	f := factory.NewAccountFactory(nil)

	tests := []struct {
		name string
		src  string
	}{
		{"no name", `code: X`},
		{"bad inception", "name: X\ninception_date: 10/31/2000"},
		{"bad fiscal year-end", "name: X\nfiscal_year_end: \"13-01\""},
		{"unknown field", "name: X\ninception: 2000-10-31"},
		{"unknown period", "name: X\nperiods: [QTD, PQ9]"},
		{"ambiguous period", "name: X\nperiods: [PMT]"},
		{"not yaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.ParseProfile([]byte(tt.src))
			assert.ErrorIs(t, err, factory.ErrInvalidProfile)
		})
	}
}

func TestParseProfile_PeriodErrorsKeepCause(t *testing.T) {
	f := factory.NewAccountFactory(nil)
	_, _, err := f.ParseProfile([]byte("name: X\nperiods: [PQ9]"))
	assert.ErrorIs(t, err, periods.ErrUnknownPeriodCode)
}

func TestToProfile_RoundTrip(t *testing.T) {
	f := factory.NewAccountFactory(nil)

	in := factory.AccountProfile{
		Code:          "RT",
		Name:          "Round Trip",
		InceptionDate: "2001-01-31",
		FiscalYearEnd: "09-30",
		Periods:       []string{"MTD", "ITD"},
		Description:   "inline",
	}
	acct, set, err := f.FromProfile(in)
	require.NoError(t, err)

	out := f.ToProfile(acct, set)
	assert.Equal(t, in.Code, out.Code)
	assert.Equal(t, in.InceptionDate, out.InceptionDate)
	assert.Equal(t, in.FiscalYearEnd, out.FiscalYearEnd)
	assert.Equal(t, in.Periods, out.Periods)
	assert.Equal(t, "rt-periods", out.PeriodSet)
}

func TestSampleProfiles_AreValid(t *testing.T) {
	f := factory.NewAccountFactory(nil)

	samples, err := factory.SampleProfiles()
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	for _, p := range samples {
		acct, _, err := f.FromProfile(p)
		require.NoError(t, err, p.Code)
		assert.False(t, acct.InceptionDate.IsZero(), p.Code)
		assert.False(t, acct.FiscalYearEnd.IsZero(), p.Code)
		if len(p.Periods) == 0 {
			_, err := periods.PresetCodes(acct.PeriodSet)
			assert.NoError(t, err, p.Code)
		}
	}
}
