package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"financeflow/internal/auth"
	"financeflow/internal/cli"
	"financeflow/internal/core"
	"financeflow/internal/grocery"
)

func newStatsCmd(load loadFunc) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print balance, statistics and grocery analytics for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			txs, err := newLedger(cfg, be).Transactions(ctx, auth.MockUser(email).ID)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), email, txs)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func printStats(w io.Writer, email string, txs []core.Transaction) {
	s := core.Summarize(txs)
	fmt.Fprintf(w, "Ledger of %s (%d transactions)\n\n", email, len(txs))
	fmt.Fprintf(w, "Balance:        %s\n", core.FormatEuros(s.Total))
	fmt.Fprintf(w, "Income:         %s\n", core.FormatEuros(s.TotalIncome))
	fmt.Fprintf(w, "Expenses:       %s\n", core.FormatEuros(s.TotalExpenses))
	fmt.Fprintf(w, "Savings rate:   %s%%\n", s.SavingsRate.StringFixed(1))

	if len(s.ByCategory) > 0 {
		fmt.Fprintln(w, "\nExpenses by category")
		for _, c := range s.ByCategory {
			fmt.Fprintf(w, "  %-16s %s\n", c.Name, core.FormatEuros(c.Amount))
		}
	}
	if len(s.Monthly) > 0 {
		fmt.Fprintln(w, "\nMonthly trend")
		for _, m := range s.Monthly {
			fmt.Fprintf(w, "  %s  income %s  expenses %s  savings %s\n", m.Month,
				core.FormatEuros(m.Income), core.FormatEuros(m.Expenses), core.FormatEuros(m.Savings))
		}
	}

	report := grocery.Analyze(txs)
	if len(report.Items) == 0 {
		return
	}
	fmt.Fprintln(w, "\nGroceries")
	fmt.Fprintf(w, "  Total spent:      %s\n", core.FormatEuros(report.Overview.TotalSpent))
	fmt.Fprintf(w, "  Avg per receipt:  %s\n", core.FormatEuros(report.Overview.AvgTransaction))
	fmt.Fprintf(w, "  Items bought:     %d (%d distinct)\n", report.Overview.TotalItems, report.Overview.UniqueItems)
	for _, it := range report.TopBySpend(5) {
		fmt.Fprintf(w, "  %-16s %s\n", it.Name, core.FormatEuros(it.TotalSpent))
	}
	for _, tr := range grocery.Suggest(grocery.Observations(txs)).Trending {
		fmt.Fprintf(w, "  trend %-10s %s\n", tr.Name, tr.Label())
	}
}
