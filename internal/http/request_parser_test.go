package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"financeflow/internal/core"
)

func TestParseFilter(t *testing.T) {
	spec, err := parseFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != core.AllTypes || spec.Category != core.AllCategories || spec.Period != core.PeriodAll {
		t.Fatalf("unexpected defaults: %+v", spec)
	}

	spec, err = parseFilter(url.Values{
		"search": {"cour"}, "type": {"EXPENSE"}, "category": {"groceries"},
		"period": {"custom"}, "from": {"2024-03-01"}, "to": {"2024-03-31"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Type != "expense" || spec.Period != core.PeriodCustom || !spec.Range.Complete() {
		t.Fatalf("unexpected spec: %+v", spec)
	}

	for _, q := range []url.Values{
		{"type": {"gift"}},
		{"period": {"decade"}},
		{"from": {"2024/03/01"}},
		{"to": {"tomorrow"}},
	} {
		if _, err := parseFilter(q); !errors.Is(err, ErrBadRequest) {
			t.Fatalf("%v: expected ErrBadRequest, got %v", q, err)
		}
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}
	for header, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := bearerToken(r); got != want {
			t.Fatalf("%q: expected %q, got %q", header, want, got)
		}
	}
}

func TestDraftGroceriesWithoutAmount(t *testing.T) {
	in := transactionInput{
		Type:     "expense",
		Category: "groceries",
		Date:     core.NewDate(2024, 3, 3),
		Details: []core.GroceryItem{
			{Name: "Pain", Price: decimal.NewFromInt(2), Quantity: 3},
		},
	}
	d, err := in.draft()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Type != core.Expense || len(d.Details) != 1 {
		t.Fatalf("unexpected draft: %+v", d)
	}

	in.Category = "rent"
	if _, err := in.draft(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without amount, got %v", err)
	}
}

func TestDraftAmountForms(t *testing.T) {
	cases := []struct {
		body string
		want string
		ok   bool
	}{
		{`{"type":"expense","amount":42.5,"category":"rent","date":"2024-03-10"}`, "42.5", true},
		{`{"type":"expense","amount":"12,50","category":"rent","date":"2024-03-10"}`, "12.5", true},
		{`{"type":"income","amount":" 3000 ","category":"salary","date":"2024-03-10"}`, "3000", true},
		{`{"type":"expense","amount":"-3","category":"rent","date":"2024-03-10"}`, "", false},
		{`{"type":"expense","amount":"abc","category":"rent","date":"2024-03-10"}`, "", false},
		{`{"type":"expense","amount":null,"category":"rent","date":"2024-03-10"}`, "", false},
	}
	for _, tc := range cases {
		var in transactionInput
		if err := json.Unmarshal([]byte(tc.body), &in); err != nil {
			t.Fatalf("%s: decode: %v", tc.body, err)
		}
		d, err := in.draft()
		if !tc.ok {
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.body, err)
			}
			continue
		}
		if err != nil || !d.Amount.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: expected %s, got %s (err=%v)", tc.body, tc.want, d.Amount, err)
		}
	}
}
