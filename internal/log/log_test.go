package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "": slog.LevelInfo, "WARN": slog.LevelWarn, "error": slog.LevelError}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %v, got %v (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf})
	l.Info("saved", FieldUserID, "u1")

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "user_id=u1") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentAMQP).Warn("down")
	if !strings.Contains(buf.String(), "component=amqp") {
		t.Fatalf("expected amqp component, got: %s", buf.String())
	}
}

func TestFields(t *testing.T) {
	f := NewFields().
		WithUser("u").
		WithTransaction(7, "Loyer", decimal.NewFromInt(-500)).
		WithError(errors.New("boom")).
		WithError(nil)

	if f[FieldUserID] != "u" || f[FieldTransactionID] != int64(7) || f[FieldAmount] != "-500" || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("slice length mismatch")
	}
}

func TestMiddlewareAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf})

	var got *Logger
	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
			got.Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil || !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("expected request id in log, got: %s", buf.String())
	}

	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatal("expected fallback logger")
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(Config{Output: &buf}))
	r := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)

	LogHTTPEnd(ctx, r, http.StatusInternalServerError, 12, "1.2.3.4")
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "status_code=500") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}
