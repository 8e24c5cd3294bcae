package backend

import (
	"context"

	"financeflow/internal/amqp"
	"financeflow/internal/export"
	"financeflow/internal/ledger"
	"financeflow/internal/store"
)

// EventConsumer delivers ledger change events until ctx is done.
type EventConsumer interface {
	ConsumeLedgerEvents(ctx context.Context, handler func(*amqp.LedgerEventMessage) error) error
}

// CleanupFunc releases the resources of a backend.
type CleanupFunc func() error

// BackendResult bundles everything the application needs from its
// infrastructure. Notifier, Events and Exporter are nil when not configured.
type BackendResult struct {
	KV       store.KeyValue
	Ledger   store.LedgerStore
	Notifier ledger.Notifier
	Events   EventConsumer
	Exporter export.RowWriter
	// Ready reports whether the storage can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
