package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/period-engine/periods"
)

// run executes rootCmd with args and returns what it printed. Flag values
// live on package-level commands, so they are reset before every run.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func decodeRows[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "resolve", "5YA", "--as-of", "2023-04-30", "--json")
	require.NoError(t, err)

	rows := decodeRows[[]batchRow](t, out)
	assert.Equal(t, []batchRow{
		{Period: "5YA", BeginDate: "2018-04-30", EndDate: "2023-04-30", IsAnnualized: true, Years: "5.0000"},
	}, rows)
}

func TestResolveCommand_TableAndPattern(t *testing.T) {
	out, err := run(t, "resolve", "PFY1", "--as-of", "04/30/2023", "--date-pattern", "%m/%d/%Y", "--fye", "06-30")
	require.NoError(t, err)

	assert.Contains(t, out, "PERIOD")
	assert.Contains(t, out, "2021-06-30")
	assert.Contains(t, out, "2022-06-30")
}

func TestResolveCommand_Errors(t *testing.T) {
	_, err := run(t, "resolve", "5YA")
	assert.Error(t, err, "--as-of is required")

	_, err = run(t, "resolve", "NOPE", "--as-of", "2023-04-30")
	assert.ErrorIs(t, err, periods.ErrInvalidPeriodCode)

	_, err = run(t, "resolve", "5YA", "--as-of", "2023-13-01")
	assert.ErrorIs(t, err, periods.ErrDateParse)
}

func TestValidCommand(t *testing.T) {
	out, err := run(t, "valid",
		"--periods", "QTD,YTD,5YA,ITDA",
		"--as-of", "2023-04-30",
		"--inception", "2000-10-31",
		"--json")
	require.NoError(t, err)

	rows := decodeRows[[]batchRow](t, out)
	require.Len(t, rows, 4)
	assert.Equal(t, batchRow{Period: "QTD", BeginDate: "2023-03-31", EndDate: "2023-04-30", Years: "0.0833"}, rows[0])
	assert.Equal(t, "22.5000", rows[3].Years)
}

func TestValidCommand_Suppression(t *testing.T) {
	// GIVEN: an account incepted after the five-year window opens
	out, err := run(t, "valid",
		"--periods", "QTD,5YA,ITD,MRQ",
		"--as-of", "2023-04-30",
		"--inception", "2020-10-31",
		"--suppress-not-applicable",
		"--suppress-duplicates",
		"--json")
	require.NoError(t, err)

	// THEN: 5YA is dropped, and MRQ repeats nothing earlier
	var codes []string
	for _, r := range decodeRows[[]batchRow](t, out) {
		codes = append(codes, r.Period)
	}
	assert.Equal(t, []string{"QTD", "ITD", "MRQ"}, codes)

	// Flags from the previous run do not leak into this one
	out, err = run(t, "valid", "--periods", "5YA", "--as-of", "2023-04-30", "--json")
	require.NoError(t, err)
	assert.Len(t, decodeRows[[]batchRow](t, out), 1)
}

func TestValidCommand_Errors(t *testing.T) {
	_, err := run(t, "valid", "--as-of", "2023-04-30")
	assert.Error(t, err, "no codes")

	_, err = run(t, "valid", "--preset", "nope", "--as-of", "2023-04-30")
	assert.ErrorIs(t, err, periods.ErrUnknownPreset)

	_, err = run(t, "valid", "--periods", "QTD", "--as-of", "2023-04-30", "--suppress-not-applicable")
	assert.ErrorIs(t, err, periods.ErrMissingInceptionDate)
}

func TestScheduleCommand(t *testing.T) {
	out, err := run(t, "schedule", "--periods", "MTD", "--from", "2023-01-01", "--to", "2023-03-31", "--json")
	require.NoError(t, err)

	rows := decodeRows[[]scheduleRow](t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, "2023-01-31", rows[0].AsOf)
	assert.Equal(t, "2022-12-31", rows[0].Periods[0].BeginDate)
	assert.Equal(t, "2023-03-31", rows[2].Periods[0].EndDate)
}

func TestScheduleCommand_Limit(t *testing.T) {
	// GIVEN: more than fifty years of month-ends
	out, err := run(t, "schedule", "--periods", "MTD", "--from", "1900-01-01", "--to", "2023-12-31", "--json")

	// THEN: the run fails before printing any batch
	assert.ErrorIs(t, err, periods.ErrScheduleTooLong)
	assert.NotContains(t, out, "as_of")

	_, err = run(t, "schedule", "--periods", "MTD", "--from", "2023-03-31", "--to", "2023-01-01")
	assert.Error(t, err)
}
