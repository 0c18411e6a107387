// periods resolves reporting period codes from the command line.
//
// Examples:
//
//	periods resolve 5YA --as-of 2023-04-30
//	periods valid --preset performance --as-of 2023-04-30 --inception 2000-10-31 --fye 06-30 --suppress-not-applicable
//	periods schedule --periods QTD,YTD --from 2023-01-01 --to 2023-12-31
//	periods accounts seed --db ./data/periods.db
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/period-engine/config"
	"github.com/warp/period-engine/periods"
)

var (
	cfg      *config.Config
	resolver *periods.Resolver
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "periods",
	Short: "Resolve reporting period codes into begin/end dates",
	Long: `periods turns codes such as MTD, QTD, PY1, PFY2, 5YA or ITDA into
concrete date ranges relative to an as-of date, an optional inception date
and an optional fiscal year-end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Log.Level = level
		}
		cfg.SetupLogging()
		logrus.SetOutput(os.Stderr)

		table, err := cfg.LoadTable()
		if err != nil {
			return err
		}
		resolver = periods.NewResolver(table)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "INI config path (default: built-in defaults)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of a table")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(validCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(definitionsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(accountsCmd)
}
