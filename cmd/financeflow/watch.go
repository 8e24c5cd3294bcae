package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"financeflow/internal/amqp"
	"financeflow/internal/auth"
	"financeflow/internal/cli"
	"financeflow/internal/core"
	applog "financeflow/internal/log"
	"financeflow/internal/worker"
)

func newWatchCmd(load loadFunc) *cobra.Command {
	var syncEmail string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Consume ledger change events from AMQP",
		Long: `Watch logs every ledger change event published by the server. With
--sync-email, the ledger of that user is also mirrored to the configured
Google Sheets tab after each change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load(os.Stdout)
			if err != nil {
				return err
			}
			if !cfg.AMQPEnabled() {
				return errors.New("watch needs AMQP_URL")
			}

			ctx, stop := cli.GracefulShutdown(cmd.Context(), logger)
			defer stop()

			be, err := cli.OpenBackend(ctx, logger, cfg)
			if err != nil {
				return err
			}
			defer be.Close()
			if be.Events == nil {
				return errors.New("AMQP broker is unreachable")
			}

			logger = logger.WithComponent(applog.ComponentAMQP)
			handle := func(_ context.Context, msg *amqp.LedgerEventMessage) error {
				logEvent(logger, msg)
				return nil
			}

			if syncEmail != "" {
				if be.Exporter == nil {
					return fmt.Errorf("--sync-email needs Google Sheets (set GOOGLE_SPREADSHEET_ID)")
				}
				sw := worker.NewSyncWorker(be.Ledger, be.Exporter, auth.MockUser(syncEmail).ID, core.PeriodAll)
				if err := sw.Sync(ctx); err != nil {
					logger.Warn("Startup sync failed", "error", err)
				}
				handle = func(ctx context.Context, msg *amqp.LedgerEventMessage) error {
					logEvent(logger, msg)
					return sw.HandleLedgerEvent(ctx, msg)
				}
			}

			logger.Info("Watching ledger events", "queue", cfg.AMQPQueue, "exchange", cfg.AMQPExchange)
			err = be.Events.ConsumeLedgerEvents(ctx, func(msg *amqp.LedgerEventMessage) error {
				return handle(ctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&syncEmail, "sync-email", "", "mirror this user's ledger to Google Sheets on every change")
	return cmd
}

func logEvent(logger *applog.Logger, msg *amqp.LedgerEventMessage) {
	ev := msg.Event
	fields := applog.NewFields().WithUser(ev.UserID).ToSlice()
	logger.Info("Ledger changed", append(fields,
		"action", ev.Action,
		"transaction_id", ev.TransactionID,
		"count", ev.Count,
		"balance", ev.Balance.String(),
		"published_at", msg.PublishedAt)...)
}
