// Package ledger owns the ordered, most-recent-first transaction list of
// each user. Every mutation rewrites the user's whole list in the store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"financeflow/internal/core"
	"financeflow/internal/store"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrPersist wraps store failures. The in-memory list keeps the change.
	ErrPersist = errors.New("failed to save transactions")
)

// Draft is a transaction as entered by the user, before id, sign and
// category resolution.
type Draft struct {
	Type     core.TransactionType `json:"type"`
	Amount   decimal.Decimal      `json:"amount"`
	Category string               `json:"category"` // id or free text
	Date     core.Date            `json:"date"`
	Details  []core.GroceryItem   `json:"details"`
}

type Option func(*Service)

// WithNotifier publishes an Event after every successful persist.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the clock used for ids and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDemoSeed controls whether users with no stored list start from the demo transactions.
func WithDemoSeed(enabled bool) Option {
	return func(s *Service) { s.seedDemo = enabled }
}

type Service struct {
	store    store.LedgerStore
	notifier Notifier
	now      func() time.Time
	seedDemo bool

	mu      sync.Mutex
	ledgers map[string][]core.Transaction
	// writers serializes the mutations of one user, Save included, so the
	// store always ends with the latest list.
	writers map[string]*sync.Mutex
	loads   singleflight.Group
}

func NewService(st store.LedgerStore, opts ...Option) *Service {
	s := &Service{
		store:    st,
		now:      time.Now,
		seedDemo: true,
		ledgers:  map[string][]core.Transaction{},
		writers:  map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the user's list, reading it from the store on first use.
// Users with nothing stored get the demo transactions, which are not
// persisted until the first mutation.
func (s *Service) Load(ctx context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	if txs, ok := s.ledgers[userID]; ok {
		s.mu.Unlock()
		return clone(txs), nil
	}
	s.mu.Unlock()

	v, err, _ := s.loads.Do(userID, func() (any, error) {
		txs, ok, err := s.store.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			txs = []core.Transaction{}
			if s.seedDemo {
				txs = DemoTransactions()
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		// A mutation may have raced in while the store was read.
		if cur, ok := s.ledgers[userID]; ok {
			return clone(cur), nil
		}
		s.ledgers[userID] = txs
		return clone(txs), nil
	})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return clone(v.([]core.Transaction)), nil
}

// Transactions is Load under the name used by read-only callers.
func (s *Service) Transactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.Load(ctx, userID)
}

// Balance returns the sum of the user's amounts.
func (s *Service) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	txs, err := s.Load(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return core.Balance(txs), nil
}

// Add creates a transaction from d and prepends it to the user's list.
func (s *Service) Add(ctx context.Context, userID string, d Draft) (core.Transaction, error) {
	w := s.writer(userID)
	w.Lock()
	defer w.Unlock()

	if _, err := s.Load(ctx, userID); err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		ID:       s.now().UnixMilli(),
		Type:     d.Type,
		Amount:   d.Type.Signed(d.Amount),
		Category: core.ResolveCategoryLabel(d.Category),
		Date:     d.Date,
	}
	if core.IsGroceryCategory(tx.Category) && len(d.Details) > 0 {
		tx.Details = append([]core.GroceryItem(nil), d.Details...)
		tx.Amount = d.Type.Signed(tx.DetailsTotal())
	}

	s.mu.Lock()
	tx.ID = uniqueID(s.ledgers[userID], tx.ID)
	txs := append([]core.Transaction{tx}, s.ledgers[userID]...)
	s.ledgers[userID] = txs
	snapshot := clone(txs)
	s.mu.Unlock()

	return tx, s.persist(ctx, userID, snapshot, Event{Action: ActionCreated, TransactionID: tx.ID})
}

// Edit replaces the transaction with the same id. The sign follows the type
// and the category is resolved like Add. Details omitted from tx are kept.
func (s *Service) Edit(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	w := s.writer(userID)
	w.Lock()
	defer w.Unlock()

	if _, err := s.Load(ctx, userID); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	txs := s.ledgers[userID]
	idx := indexOf(txs, tx.ID)
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, fmt.Errorf("%w: %d", ErrNotFound, tx.ID)
	}
	tx.Amount = tx.Type.Signed(tx.Amount)
	tx.Category = core.ResolveCategoryLabel(tx.Category)
	if tx.Details == nil {
		tx.Details = txs[idx].Details
	}
	updated := clone(txs)
	updated[idx] = tx
	s.ledgers[userID] = updated
	snapshot := clone(updated)
	s.mu.Unlock()

	return tx, s.persist(ctx, userID, snapshot, Event{Action: ActionUpdated, TransactionID: tx.ID})
}

// Delete removes the transaction with id. An unknown id leaves the list
// unchanged but is still persisted.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	w := s.writer(userID)
	w.Lock()
	defer w.Unlock()

	if _, err := s.Load(ctx, userID); err != nil {
		return err
	}

	s.mu.Lock()
	cur := s.ledgers[userID]
	kept := make([]core.Transaction, 0, len(cur))
	for _, t := range cur {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.ledgers[userID] = kept
	snapshot := clone(kept)
	s.mu.Unlock()

	return s.persist(ctx, userID, snapshot, Event{Action: ActionDeleted, TransactionID: id})
}

// Forget drops the cached list of a user so the next Load reads the store.
func (s *Service) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ledgers, userID)
}

func (s *Service) writer(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.writers[userID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[userID] = w
	}
	return w
}

func (s *Service) persist(ctx context.Context, userID string, txs []core.Transaction, ev Event) error {
	if err := s.store.Save(ctx, userID, txs); err != nil {
		slog.ErrorContext(ctx, "Failed to persist transactions", "user_id", userID, "count", len(txs), "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if s.notifier == nil {
		return nil
	}

	ev.UserID = userID
	ev.Count = len(txs)
	ev.Balance = core.Balance(txs)
	ev.Timestamp = s.now().UTC()
	if err := s.notifier.Notify(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event", "user_id", userID, "action", ev.Action, "error", err)
	}
	return nil
}

// uniqueID bumps id past collisions with records created in the same millisecond.
func uniqueID(txs []core.Transaction, id int64) int64 {
	for indexOf(txs, id) >= 0 {
		id++
	}
	return id
}

func indexOf(txs []core.Transaction, id int64) int {
	for i, t := range txs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(txs []core.Transaction) []core.Transaction {
	return append([]core.Transaction{}, txs...)
}
