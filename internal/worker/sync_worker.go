// Package worker mirrors ledgers into an external sink when ledger change
// events arrive over AMQP.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financeflow/internal/amqp"
	"financeflow/internal/core"
	"financeflow/internal/export"
	"financeflow/internal/store"
)

// SyncWorker re-publishes the ledger of one user to a RowWriter (the Google
// Sheets tab) every time that ledger changes.
type SyncWorker struct {
	ledgers store.LedgerStore
	sink    export.RowWriter
	userID  string
	period  core.Period
	now     func() time.Time
}

func NewSyncWorker(ledgers store.LedgerStore, sink export.RowWriter, userID string, period core.Period) *SyncWorker {
	if period == "" {
		period = core.PeriodAll
	}
	return &SyncWorker{
		ledgers: ledgers,
		sink:    sink,
		userID:  userID,
		period:  period,
		now:     time.Now,
	}
}

// HandleLedgerEvent syncs the tracked ledger. Events of other users are acknowledged and skipped.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	ev := msg.Event
	if ev.UserID != w.userID {
		slog.DebugContext(ctx, "Skipping ledger event of untracked user", "user_id", ev.UserID)
		return nil
	}

	slog.InfoContext(ctx, "Processing ledger event",
		"user_id", ev.UserID,
		"action", ev.Action,
		"transaction_id", ev.TransactionID,
		"count", ev.Count)

	if err := w.Sync(ctx); err != nil {
		return fmt.Errorf("sync after %s: %w", ev.Action, err)
	}
	return nil
}

// Sync publishes the stored ledger of the tracked user. A user with no saved
// ledger is left untouched.
func (w *SyncWorker) Sync(ctx context.Context) error {
	txs, ok, err := w.ledgers.Load(ctx, w.userID)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	if !ok {
		slog.InfoContext(ctx, "No saved ledger to sync", "user_id", w.userID)
		return nil
	}

	if err := export.Publish(ctx, w.sink, txs, w.period, w.now()); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Ledger synced",
		"user_id", w.userID,
		"period", w.period,
		"count", len(export.Select(txs, w.period, w.now())))
	return nil
}
