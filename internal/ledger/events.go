package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"financeflow/internal/core"
)

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type Action string

// Event describes a persisted change of a user's ledger.
type Event struct {
	UserID        string          `json:"userId"`
	Action        Action          `json:"action"`
	TransactionID int64           `json:"transactionId"`
	Count         int             `json:"count"`
	Balance       decimal.Decimal `json:"balance"`
	Timestamp     time.Time       `json:"timestamp"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UserID        string      `json:"userId"`
		Action        Action      `json:"action"`
		TransactionID int64       `json:"transactionId"`
		Count         int         `json:"count"`
		Balance       json.Number `json:"balance"`
		Timestamp     time.Time   `json:"timestamp"`
	}{e.UserID, e.Action, e.TransactionID, e.Count, core.JSONNumber(e.Balance), e.Timestamp})
}

// Notifier receives ledger events. Failures are logged by the ledger, never returned to callers.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }
