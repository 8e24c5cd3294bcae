// Package store defines the persistence ports of the ledger: a key-value
// store of JSON blobs and the per-user ledger view built on top of it.
package store

import (
	"context"
	"errors"

	"financeflow/internal/core"
)

// ErrNotFound is returned by KeyValue.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// Ports for outbound adapters.
type (
	KeyValue interface {
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte) error
		Remove(ctx context.Context, key string) error
	}

	// LedgerStore loads and saves the whole transaction list of a user.
	LedgerStore interface {
		// Load returns ok=false when nothing was ever saved for the user.
		Load(ctx context.Context, userID string) (txs []core.Transaction, ok bool, err error)
		Save(ctx context.Context, userID string, txs []core.Transaction) error
	}
)
