package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"financeflow/internal/auth"
	"financeflow/internal/cli"
	"financeflow/internal/core"
	"financeflow/internal/export"
	applog "financeflow/internal/log"
)

func newExportCmd(load loadFunc) *cobra.Command {
	var (
		email  string
		format string
		period string
		out    string
		sheets bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's transactions to CSV, JSON or Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := export.ParsePeriod(period)
			if err != nil {
				return err
			}

			cfg, logger, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			be, err := cli.OpenBackend(ctx, logger, cfg)
			if err != nil {
				return err
			}
			defer be.Close()

			user := auth.MockUser(email)
			txs, err := newLedger(cfg, be).Transactions(ctx, user.ID)
			if err != nil {
				return err
			}
			today := time.Now()
			count := len(export.Select(txs, p, today))

			if sheets {
				if be.Exporter == nil {
					return fmt.Errorf("google sheets export is not configured (set GOOGLE_SPREADSHEET_ID)")
				}
				if err := export.Publish(ctx, be.Exporter, txs, p, today); err != nil {
					return err
				}
				logger.Info("Exported transactions to Google Sheets",
					applog.NewFields().WithOperation(applog.OpExport).WithUser(user.ID).WithExport("sheets", string(p), count).ToSlice()...)
				return nil
			}

			if out == "-" {
				if err := export.Export(cmd.OutOrStdout(), txs, f, p, today); err != nil {
					return err
				}
			} else {
				if out == "" {
					out = export.Filename(f, today)
				}
				if err := writeExportFile(out, txs, f, p, today); err != nil {
					return err
				}
			}
			logger.Info("Exported transactions",
				applog.NewFields().WithOperation(applog.OpExport).WithUser(user.ID).WithExport(string(f), string(p), count).ToSlice()...)
			if out != "-" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user whose ledger is exported")
	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv or json")
	cmd.Flags().StringVar(&period, "period", "all", "export period: all, month or year")
	cmd.Flags().StringVar(&out, "out", "", `output file ("-" for stdout, default transactions_<format>_<date>.<ext>)`)
	cmd.Flags().BoolVar(&sheets, "sheets", false, "write to the configured Google Sheets tab instead of a file")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// writeExportFile writes the export to path. A failed close is reported,
// since buffered data may not have reached the disk.
func writeExportFile(path string, txs []core.Transaction, f export.Format, p core.Period, today time.Time) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return export.Export(file, txs, f, p, today)
}
