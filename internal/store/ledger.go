package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"financeflow/internal/core"
)

// TransactionsKey is the key under which a user's transaction list is stored.
func TransactionsKey(userID string) string {
	return "transactions_" + userID
}

// UserKey is the key under which the user record of a session is stored.
func UserKey(token string) string {
	return "user_" + token
}

// JSONLedger persists ledgers as JSON arrays in a KeyValue store.
type JSONLedger struct {
	kv KeyValue
}

var _ LedgerStore = (*JSONLedger)(nil)

func NewJSONLedger(kv KeyValue) *JSONLedger {
	return &JSONLedger{kv: kv}
}

func (l *JSONLedger) Load(ctx context.Context, userID string) ([]core.Transaction, bool, error) {
	b, err := l.kv.Get(ctx, TransactionsKey(userID))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get transactions: %w", err)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(b, &txs); err != nil {
		return nil, false, fmt.Errorf("decode transactions: %w", err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, true, nil
}

func (l *JSONLedger) Save(ctx context.Context, userID string, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	b, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := l.kv.Set(ctx, TransactionsKey(userID), b); err != nil {
		return fmt.Errorf("set transactions: %w", err)
	}
	return nil
}
