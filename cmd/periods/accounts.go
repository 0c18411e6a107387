package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/periods"
	"github.com/warp/period-engine/store/sqlite"
)

// --- Accounts Command ---

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage the account registry",
}

var accountsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		profiles, err := factory.SampleProfiles()
		if err != nil {
			return err
		}
		f := factory.NewAccountFactory(resolver.Table())
		for _, p := range profiles {
			acct, set, err := f.FromProfile(p)
			if err != nil {
				return err
			}
			if set != nil {
				if err := store.SavePeriodSet(cmd.Context(), *set); err != nil {
					return err
				}
			}
			if err := store.SaveAccount(cmd.Context(), acct); err != nil {
				return err
			}
			logrus.WithField("account", acct.Code).Debug("Seeded")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d accounts\n", len(profiles))
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add [profile.yaml]",
	Short: "Create or update an account from a YAML/JSON profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		acct, set, err := factory.NewAccountFactory(resolver.Table()).ParseProfile(data)
		if err != nil {
			return err
		}

		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if set != nil {
			if err := store.SavePeriodSet(cmd.Context(), *set); err != nil {
				return err
			}
		}
		if err := store.SaveAccount(cmd.Context(), acct); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), acct.Code)
		return nil
	},
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		accounts, err := store.ListAccounts(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON(cmd) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(accounts)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tINCEPTION\tFYE\tPERIOD SET\tNAME")
		for _, a := range accounts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.Code, a.InceptionDate, a.FiscalYearEnd, a.PeriodSet, a.Name)
		}
		return tw.Flush()
	},
}

var accountsPeriodsCmd = &cobra.Command{
	Use:   "periods [code]",
	Short: "Resolve an account's period set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		acct, err := store.GetAccount(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if acct == nil {
			return fmt.Errorf("account %s not found", args[0])
		}

		asOfStr, _ := cmd.Flags().GetString("as-of")
		asOf, err := calendar.Parse(asOfStr, cfg.Periods.DatePattern)
		if err != nil {
			return err
		}

		setName := acct.PeriodSet
		if setName == "" {
			setName = periods.PresetStandard
		}
		codes, err := periods.PresetCodes(setName)
		if err != nil {
			ps, lookupErr := store.GetPeriodSet(cmd.Context(), setName)
			if lookupErr != nil {
				return lookupErr
			}
			if ps == nil {
				return err
			}
			codes = ps.Codes
		}

		batch, err := resolver.ResolveAll(codes, acct.TemporalContext(asOf), periods.FilterOptions{
			SuppressNotApplicable: !acct.InceptionDate.IsZero(),
			SuppressDuplicates:    true,
		})
		if err != nil {
			return err
		}
		return printBatch(cmd, batch)
	},
}

func openStore(cmd *cobra.Command) (*sqlite.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Database.Path
	}
	return sqlite.New(path)
}

func init() {
	accountsCmd.PersistentFlags().String("db", "", "SQLite database path (default from config)")
	accountsPeriodsCmd.Flags().String("as-of", "", "as-of date")
	accountsPeriodsCmd.MarkFlagRequired("as-of")

	accountsCmd.AddCommand(accountsSeedCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsPeriodsCmd)
}
