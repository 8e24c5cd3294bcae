package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"financeflow/internal/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "financeflow.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	if _, err := s.Get(ctx, "transactions_u"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "transactions_u", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "transactions_u", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, "transactions_u")
	if err != nil || string(got) != `[{"id":1}]` {
		t.Fatalf("unexpected value %q (err=%v)", got, err)
	}
	if err := s.Remove(ctx, "transactions_u"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "transactions_u"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestStore_ReopenKeepsDataAndMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	if err := s.Set(ctx, "user_tok", []byte(`{"email":"a@b.c"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	got, err := again.Get(ctx, "user_tok")
	if err != nil || string(got) != `{"email":"a@b.c"}` {
		t.Fatalf("unexpected value %q (err=%v)", got, err)
	}
	if err := again.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestStore_WithJSONLedger(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	l := store.NewJSONLedger(s)

	if err := l.Save(ctx, "u", nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	txs, ok, err := l.Load(ctx, "u")
	if err != nil || !ok || len(txs) != 0 {
		t.Fatalf("expected saved empty ledger, got %v ok=%v err=%v", txs, ok, err)
	}
}
