package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"financeflow/internal/cli"
	"financeflow/internal/config"
	applog "financeflow/internal/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "financeflow",
		Short: "Track personal income, expenses and grocery receipts",
		Long: `FinanceFlow keeps a per-user ledger of income and expenses with itemized
grocery receipts. It serves a JSON API, exports ledgers to CSV, JSON or
Google Sheets and reports statistics from the command line.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (.env, .yaml, .json)")

	load := func(logOut io.Writer) (*config.Config, *applog.Logger, error) {
		cli.LoadEnvFile()
		cfg, err := cli.LoadConfig(configFile)
		if err != nil {
			return nil, nil, err
		}
		return cfg, cli.SetupLogger(cfg.LogLevel, logOut), nil
	}

	root.AddCommand(
		newServeCmd(load),
		newExportCmd(load),
		newStatsCmd(load),
		newWatchCmd(load),
	)
	return root
}

// loadFunc reads the configuration and sets up logging on the given writer.
type loadFunc func(logOut io.Writer) (*config.Config, *applog.Logger, error)
