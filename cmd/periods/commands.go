package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/periods"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// --- Resolve Command ---

var resolveCmd = &cobra.Command{
	Use:   "resolve [code]",
	Short: "Resolve a single period code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tc, err := contextFromFlags(cmd)
		if err != nil {
			return err
		}
		p, err := resolver.Resolve(args[0], tc)
		if err != nil {
			return err
		}
		return printBatch(cmd, periods.Batch{p})
	},
}

// --- Valid Command ---

var validCmd = &cobra.Command{
	Use:   "valid",
	Short: "Resolve a period list and apply suppression",
	RunE: func(cmd *cobra.Command, args []string) error {
		codes, err := codesFromFlags(cmd)
		if err != nil {
			return err
		}
		tc, err := contextFromFlags(cmd)
		if err != nil {
			return err
		}
		batch, err := resolver.ResolveAll(codes, tc, filterFromFlags(cmd))
		if err != nil {
			return err
		}
		return printBatch(cmd, batch)
	},
}

// --- Schedule Command ---

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Resolve a period list at every month-end between two dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		codes, err := codesFromFlags(cmd)
		if err != nil {
			return err
		}
		from, to, err := scheduleBounds(cmd)
		if err != nil {
			return err
		}

		base, err := baseContext(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		workers := cfg.Periods.ScheduleWorkers
		out, err := resolver.ResolveSchedule(ctx, calendar.MonthEnds(from, to), base, codes, filterFromFlags(cmd), workers)
		if err != nil {
			return err
		}

		if asJSON(cmd) {
			rows := make([]scheduleRow, len(out))
			for i, sb := range out {
				rows[i] = scheduleRow{AsOf: sb.AsOf.String(), Periods: batchRows(sb.Periods)}
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(rows)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "AS OF\tPERIOD\tBEGIN\tEND\tANNUALIZED\tYEARS")
		for _, sb := range out {
			for _, p := range sb.Periods {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n", sb.AsOf, p.Code, p.BeginDate(), p.EndDate(), p.IsAnnualized, years(p))
			}
		}
		return tw.Flush()
	},
}

func scheduleBounds(cmd *cobra.Command) (calendar.Date, calendar.Date, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := calendar.ParseISO(fromStr)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("--from: %w", err)
	}
	to, err := calendar.ParseISO(toStr)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("--to: %w", err)
	}
	if to.Before(from) {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return from, to, nil
}

// --- Definitions Command ---

var definitionsCmd = &cobra.Command{
	Use:   "definitions",
	Short: "List the period definition table",
	RunE: func(cmd *cobra.Command, args []string) error {
		defs := resolver.Table().Definitions()
		if asJSON(cmd) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(defs)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tRULE\tMONTHS\tQUARTERS\tYEARS\tNAME")
		for _, d := range defs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.Code, d.Rule(), optInt(d.Months), optInt(d.Quarters), optInt(d.Years), d.DisplayName)
		}
		return tw.Flush()
	},
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

// --- Presets Command ---

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in period presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := make(map[string][]string)
		for _, name := range periods.PresetNames() {
			out[name], _ = periods.PresetCodes(name)
		}
		if asJSON(cmd) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		}
		for _, name := range periods.PresetNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, strings.Join(out[name], ","))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, validCmd, scheduleCmd} {
		c.Flags().String("inception", "", "inception date (YYYY-MM-DD)")
		c.Flags().String("fye", "", "fiscal year-end (MM-DD, default from config)")
	}
	for _, c := range []*cobra.Command{resolveCmd, validCmd} {
		c.Flags().String("as-of", "", "as-of date")
		c.Flags().String("date-pattern", "", "as-of date pattern (strftime or Go layout)")
		c.MarkFlagRequired("as-of")
	}

	for _, c := range []*cobra.Command{validCmd, scheduleCmd} {
		c.Flags().String("periods", "", "comma-separated period codes")
		c.Flags().String("preset", "", "preset name (used when --periods is empty)")
		c.Flags().Bool("suppress-not-applicable", false, "drop periods that begin before inception")
		c.Flags().Bool("suppress-duplicates", false, "drop periods whose span repeats an earlier one")
	}

	scheduleCmd.Flags().String("from", "", "first date (YYYY-MM-DD)")
	scheduleCmd.Flags().String("to", "", "last date (YYYY-MM-DD)")
	scheduleCmd.MarkFlagRequired("from")
	scheduleCmd.MarkFlagRequired("to")
}

// =============================================================================
// FLAG HELPERS
// =============================================================================

// baseContext reads --inception and --fye; the as-of date stays zero.
func baseContext(cmd *cobra.Command) (periods.TemporalContext, error) {
	inception, _ := cmd.Flags().GetString("inception")
	fye, _ := cmd.Flags().GetString("fye")

	tc := periods.TemporalContext{FiscalYearEnd: cfg.DefaultFiscalYearEnd()}
	if inception != "" {
		d, err := calendar.ParseISO(inception)
		if err != nil {
			return tc, &periods.DateError{Field: "inception_date", Err: err}
		}
		tc.Inception = d
	}
	if fye != "" {
		f, err := calendar.ParseFiscalYearEnd(fye)
		if err != nil {
			return tc, err
		}
		tc.FiscalYearEnd = f
	}
	return tc, nil
}

func contextFromFlags(cmd *cobra.Command) (periods.TemporalContext, error) {
	tc, err := baseContext(cmd)
	if err != nil {
		return tc, err
	}

	asOf, _ := cmd.Flags().GetString("as-of")
	pattern, _ := cmd.Flags().GetString("date-pattern")
	if pattern == "" {
		pattern = cfg.Periods.DatePattern
	}
	d, err := calendar.Parse(asOf, pattern)
	if err != nil {
		return tc, &periods.DateError{Field: "as_of_date", Err: err}
	}
	return tc.WithAsOf(d), nil
}

func codesFromFlags(cmd *cobra.Command) ([]string, error) {
	list, _ := cmd.Flags().GetString("periods")
	if codes := periods.ParseCodeList(list); len(codes) > 0 {
		return codes, nil
	}
	preset, _ := cmd.Flags().GetString("preset")
	if preset == "" {
		return nil, fmt.Errorf("provide --periods or --preset")
	}
	return periods.PresetCodes(preset)
}

func filterFromFlags(cmd *cobra.Command) periods.FilterOptions {
	na, _ := cmd.Flags().GetBool("suppress-not-applicable")
	dup, _ := cmd.Flags().GetBool("suppress-duplicates")
	return periods.FilterOptions{SuppressNotApplicable: na, SuppressDuplicates: dup}
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

type batchRow struct {
	Period       string `json:"period"`
	BeginDate    string `json:"begin_date"`
	EndDate      string `json:"end_date"`
	IsAnnualized bool   `json:"is_annualized"`
	Years        string `json:"years"`
}

type scheduleRow struct {
	AsOf    string     `json:"as_of"`
	Periods []batchRow `json:"periods"`
}

func years(p periods.ResolvedPeriod) string { return p.Years().StringFixed(4) }

func batchRows(batch periods.Batch) []batchRow {
	rows := make([]batchRow, len(batch))
	for i, p := range batch {
		rows[i] = batchRow{p.Code, p.BeginDate(), p.EndDate(), p.IsAnnualized, years(p)}
	}
	return rows
}

func printBatch(cmd *cobra.Command, batch periods.Batch) error {
	if asJSON(cmd) {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(batchRows(batch))
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tBEGIN\tEND\tANNUALIZED\tYEARS")
	for _, p := range batch {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", p.Code, p.BeginDate(), p.EndDate(), p.IsAnnualized, years(p))
	}
	return tw.Flush()
}
