package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financeflow/internal/amqp"
	"financeflow/internal/export/sheets"
	"financeflow/internal/store"
	"financeflow/internal/store/memory"
	"financeflow/internal/store/sqlite"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the key-value store and the optional integrations.
// Integration failures are logged and the backend runs without them.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		kv      store.KeyValue
		ready   = func(context.Context) error { return nil }
		closers []func() error
	)

	switch config.Type {
	case SQLiteBackend:
		db, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		kv, ready = db, db.Ping
		closers = append(closers, db.Close)
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		kv = memory.New()
		f.logger.Info("Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	res := &BackendResult{KV: kv, Ledger: store.NewJSONLedger(kv), Ready: ready}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without ledger events", "error", err)
		} else {
			res.Notifier, res.Events = client, client
			closers = append(closers, client.Close)
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}

	if config.GoogleSpreadsheetID != "" {
		client, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			f.logger.Warn("Failed to initialize Google Sheets export, continuing without it", "error", err)
		} else {
			res.Exporter = client
			f.logger.Info("Initialized Google Sheets export", "sheet", config.GoogleSheetName)
		}
	}

	res.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return res, nil
}
