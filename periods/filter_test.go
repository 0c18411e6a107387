package periods_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/periods"
)

// =============================================================================
// PERIOD-LIST FILTER
// =============================================================================

func TestResolveAll_EndToEnd(t *testing.T) {
	// GIVEN: an account whose inception predates every requested period
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "2000-10-31", "06-30")

	// WHEN: the list is resolved with both suppressions on
	batch, err := r.ResolveAll(periods.ParseCodeList("QTD,YTD,5YA,ITDA"), tc, periods.FilterOptions{
		SuppressNotApplicable: true,
		SuppressDuplicates:    true,
	})
	require.NoError(t, err)

	// THEN: all four survive in input order
	require.Len(t, batch, 4)
	assert.Equal(t, []string{"QTD", "YTD", "5YA", "ITDA"}, batch.Codes())

	itda, ok := batch.Find("itda")
	require.True(t, ok)
	assert.True(t, itda.IsAnnualized)
	assert.Equal(t, "2000-10-31", itda.BeginDate())

	fiveYA, _ := batch.Find("5YA")
	assert.True(t, fiveYA.IsAnnualized)
	assert.Equal(t, "2018-04-30", fiveYA.BeginDate())

	qtd, _ := batch.Find("QTD")
	assert.False(t, qtd.IsAnnualized)
	assert.Equal(t, "2023-03-31", qtd.BeginDate())
}

func TestResolveAll_SuppressNotApplicable(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "2010-05-21", "06-30")
	codes := []string{"YTD", "20YC", "10YA", "15YA", "ITD"}

	// WHEN: suppression is on, periods beginning before inception are dropped
	batch, err := r.ResolveAll(codes, tc, periods.FilterOptions{SuppressNotApplicable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"YTD", "10YA", "ITD"}, batch.Codes())

	// WHEN: suppression is off, they are kept
	batch, err = r.ResolveAll(codes, tc, periods.FilterOptions{})
	require.NoError(t, err)
	assert.Equal(t, codes, batch.Codes())

	p, _ := batch.Find("20YC")
	assert.Equal(t, "2003-04-30", p.BeginDate())
}

func TestResolveAll_SuppressNotApplicableKeepsInceptionBegin(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "2018-04-30", "")

	batch, err := r.ResolveAll([]string{"5YC", "6YC"}, tc, periods.FilterOptions{SuppressNotApplicable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"5YC"}, batch.Codes(), "a period beginning on inception is applicable")
}

func TestResolveAll_SuppressNotApplicableNeedsInception(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "", "")

	_, err := r.ResolveAll([]string{"YTD"}, tc, periods.FilterOptions{SuppressNotApplicable: true})
	assert.ErrorIs(t, err, periods.ErrMissingInceptionDate)
}

func TestResolveAll_SuppressDuplicatesFirstWins(t *testing.T) {
	// GIVEN: as of an April month-end, QTD, MTD, MRM and 1MT share one span
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "", "")
	codes := []string{"QTD", "MTD", "MRM", "1MT", "3YC", "3YA"}

	batch, err := r.ResolveAll(codes, tc, periods.FilterOptions{SuppressDuplicates: true})
	require.NoError(t, err)

	// THEN: only the first survives; 3YA differs from 3YC by its annualized flag
	assert.Equal(t, []string{"QTD", "3YC", "3YA"}, batch.Codes())

	batch, err = r.ResolveAll(codes, tc, periods.FilterOptions{})
	require.NoError(t, err)
	assert.Len(t, batch, len(codes))
}

func TestResolveAll_RepeatedCodeIsDuplicate(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "", "")

	batch, err := r.ResolveAll([]string{"YTD", "ytd", "YTD"}, tc, periods.FilterOptions{SuppressDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"YTD"}, batch.Codes())
}

func TestResolveAll_FailsWholeBatch(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "2000-10-31", "06-30")

	batch, err := r.ResolveAll([]string{"QTD", "BOGUS", "YTD"}, tc, periods.FilterOptions{})
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.ErrorIs(t, err, periods.ErrInvalidPeriodCode)

	var be *periods.BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 1, be.Index)
	assert.Equal(t, "BOGUS", be.Code)
}

func TestResolveAll_EmptyList(t *testing.T) {
	r := periods.NewResolver(nil)
	batch, err := r.ResolveAll(nil, newContext(t, "2023-04-30", "", ""), periods.FilterOptions{SuppressDuplicates: true})
	require.NoError(t, err)
	assert.Empty(t, batch)
}

// =============================================================================
// PRESETS AND CODE LISTS
// =============================================================================

func TestParseCodeList(t *testing.T) {
	assert.Equal(t, []string{"QTD", "YTD", "5YA", "QTD"}, periods.ParseCodeList(" qtd, YTD,,5ya ,QTD,"))
	assert.Empty(t, periods.ParseCodeList(""))
	assert.Empty(t, periods.ParseCodeList(" , ,"))
}

func TestPresets_ResolveAgainstDefaultTable(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "1980-01-31", "06-30")

	for _, name := range periods.PresetNames() {
		codes, err := periods.PresetCodes(name)
		require.NoError(t, err)
		require.NotEmpty(t, codes, name)

		batch, err := r.ResolveAll(codes, tc, periods.FilterOptions{})
		require.NoError(t, err, name)
		assert.Len(t, batch, len(codes), name)
	}
}

func TestPresets_PerformanceList(t *testing.T) {
	codes, err := periods.PresetCodes(" Performance ")
	require.NoError(t, err)

	assert.Equal(t, "QTD", codes[0])
	assert.Contains(t, codes, "PY10")
	assert.Contains(t, codes, "30YC")
	assert.Contains(t, codes, "12YA")
	assert.Contains(t, codes, "PFY10")
	assert.NotContains(t, codes, "11YA")
	assert.Len(t, codes, 2+4+10+5+14+1+14+2+4+10)
}

func TestPresets_UnknownAndCopy(t *testing.T) {
	_, err := periods.PresetCodes("weekly")
	assert.ErrorIs(t, err, periods.ErrUnknownPreset)
	assert.True(t, periods.IsClientError(err))

	codes, err := periods.PresetCodes(periods.PresetStandard)
	require.NoError(t, err)
	codes[0] = "CHANGED"

	again, err := periods.PresetCodes(periods.PresetStandard)
	require.NoError(t, err)
	assert.Equal(t, "MTD", again[0])
}

// =============================================================================
// SCHEDULES
// =============================================================================

func TestResolveSchedule_KeepsAsOfOrder(t *testing.T) {
	r := periods.NewResolver(nil)
	base := newContext(t, "2023-06-30", "2000-10-31", "06-30")
	asOfs := calendar.MonthEnds(calendar.NewDate(2023, 1, 1), calendar.NewDate(2023, 6, 30))
	require.Len(t, asOfs, 6)

	out, err := r.ResolveSchedule(context.Background(), asOfs, base, []string{"MTD", "FYTD", "ITD"}, periods.FilterOptions{}, 2)
	require.NoError(t, err)
	require.Len(t, out, len(asOfs))

	for i, sb := range out {
		assert.Equal(t, asOfs[i], sb.AsOf)
		require.Len(t, sb.Periods, 3)
		for _, p := range sb.Periods {
			assert.Equal(t, asOfs[i], p.End, "%s as of %s", p.Code, sb.AsOf)
		}
		fytd, _ := sb.Periods.Find("FYTD")
		assert.Equal(t, "2022-06-30", fytd.BeginDate())
	}
}

func TestResolveSchedule_FailsOnBadCode(t *testing.T) {
	r := periods.NewResolver(nil)
	base := newContext(t, "2023-06-30", "", "")
	asOfs := calendar.MonthEnds(calendar.NewDate(2022, 1, 1), calendar.NewDate(2022, 12, 31))

	out, err := r.ResolveSchedule(context.Background(), asOfs, base, []string{"MTD", "NOPE"}, periods.FilterOptions{}, 0)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, periods.ErrInvalidPeriodCode)

	var se *periods.ScheduleError
	assert.True(t, errors.As(err, &se))
}

func TestResolveSchedule_Cancelled(t *testing.T) {
	r := periods.NewResolver(nil)
	base := newContext(t, "2023-06-30", "", "")
	asOfs := calendar.MonthEnds(calendar.NewDate(2022, 1, 1), calendar.NewDate(2022, 12, 31))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ResolveSchedule(ctx, asOfs, base, []string{"MTD"}, periods.FilterOptions{}, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveSchedule_Limit(t *testing.T) {
	r := periods.NewResolver(nil)
	base := newContext(t, "2023-06-30", "", "")

	// GIVEN: exactly fifty years of month-ends
	asOfs := calendar.MonthEnds(calendar.NewDate(1971, 1, 1), calendar.NewDate(2020, 12, 31))
	require.Len(t, asOfs, periods.MaxScheduleDates)
	out, err := r.ResolveSchedule(context.Background(), asOfs, base, []string{"MTD"}, periods.FilterOptions{}, 0)
	require.NoError(t, err)
	assert.Len(t, out, periods.MaxScheduleDates)

	// WHEN: one year more
	asOfs = calendar.MonthEnds(calendar.NewDate(1970, 1, 1), calendar.NewDate(2020, 12, 31))
	out, err = r.ResolveSchedule(context.Background(), asOfs, base, []string{"MTD"}, periods.FilterOptions{}, 0)

	// THEN: nothing is resolved
	assert.Nil(t, out)
	assert.ErrorIs(t, err, periods.ErrScheduleTooLong)
	assert.True(t, periods.IsClientError(err))
}

// =============================================================================
// ANNUALIZATION
// =============================================================================

func TestAnnualize(t *testing.T) {
	r := periods.NewResolver(nil)
	tc := newContext(t, "2023-04-30", "2000-10-31", "06-30")

	// GIVEN: a five-year annualized period with 61.051% cumulative growth
	p := mustResolve(t, r, "5YA", tc)
	assert.True(t, p.Years().Equal(decimal.NewFromInt(5)))

	// WHEN: annualized
	got, err := periods.Annualize(decimal.RequireFromString("0.61051"), p)
	require.NoError(t, err)

	// THEN: 1.1^5 = 1.61051, so the annual rate is 10%
	diff := got.Sub(decimal.RequireFromString("0.1")).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.000000001")), "got %s", got)

	// Cumulative periods pass through unchanged
	cum := mustResolve(t, r, "5YC", tc)
	got, err = periods.Annualize(decimal.RequireFromString("0.61051"), cum)
	require.NoError(t, err)
	assert.Equal(t, "0.61051", got.String())

	// ITDA spans 22.5 years
	itda := mustResolve(t, r, "ITDA", tc)
	assert.Equal(t, "22.5", itda.Years().String())
}

func TestAnnualize_ShortOrTotalLoss(t *testing.T) {
	r := periods.NewResolver(nil)

	// ITDA shorter than a year is not annualized
	tc := newContext(t, "2023-04-30", "2022-10-31", "")
	p := mustResolve(t, r, "ITDA", tc)
	got, err := periods.Annualize(decimal.RequireFromString("0.05"), p)
	require.NoError(t, err)
	assert.Equal(t, "0.05", got.String())

	// a -100% return has no annual rate
	tc = newContext(t, "2023-04-30", "2000-10-31", "")
	_, err = periods.Annualize(decimal.RequireFromString("-1"), mustResolve(t, r, "ITDA", tc))
	assert.ErrorIs(t, err, periods.ErrInvalidReturn)
	assert.True(t, periods.IsClientError(err))
}
