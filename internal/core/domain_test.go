package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want TransactionType
		ok   bool
	}{
		{"income", Income, true},
		{"EXPENSE", Expense, true},
		{" expense ", Expense, true},
		{"all", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidType) {
			t.Fatalf("%q expected ErrInvalidType, got %v", tc.in, err)
		}
	}
}

func TestSigned(t *testing.T) {
	ten := decimal.NewFromInt(10)
	if got := Expense.Signed(ten); !got.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("expense sign: got %s", got)
	}
	if got := Income.Signed(ten.Neg()); !got.Equal(ten) {
		t.Fatalf("income sign: got %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 3, 1)
	b, err := json.Marshal(d)
	if err != nil || string(b) != `"2024-03-01"` {
		t.Fatalf("marshal: %s (err=%v)", b, err)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"2024-03-01T10:00:00.000Z"`), &back); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("expected %s, got %s", d, back)
	}

	if err := json.Unmarshal([]byte(`"03/01/2024"`), &back); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestTransactionJSONShape(t *testing.T) {
	tx := Transaction{
		ID:       1,
		Type:     Income,
		Amount:   decimal.NewFromInt(3000),
		Category: "Salaire",
		Date:     NewDate(2024, 3, 1),
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"type":"income","amount":3000,"category":"Salaire","date":"2024-03-01","details":null}`
	if string(b) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", b, want)
	}
}

func TestDetailsTotal(t *testing.T) {
	tx := Transaction{Details: []GroceryItem{
		{Name: "Pain", Price: decimal.NewFromInt(2), Quantity: 3},
		{Name: "Lait", Price: decimal.NewFromInt(1), Quantity: 4},
	}}
	if got := tx.DetailsTotal(); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10, got %s", got)
	}
	if tx.ItemCount() != 7 {
		t.Fatalf("expected 7 items, got %d", tx.ItemCount())
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Expense,
		Amount:   decimal.NewFromInt(-500),
		Category: "Loyer",
		Date:     NewDate(2024, 3, 2),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "other", Amount: decimal.NewFromInt(-1), Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: decimal.NewFromInt(-1), Category: "c"},
		{Type: Expense, Amount: decimal.NewFromInt(-1), Category: " ", Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: decimal.Zero, Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: decimal.NewFromInt(5), Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Income, Amount: decimal.NewFromInt(-5), Category: "c", Date: NewDate(2024, 1, 1)},
		{Type: Expense, Amount: decimal.NewFromInt(-1), Category: "c", Date: NewDate(2024, 1, 1),
			Details: []GroceryItem{{Name: "x", Price: decimal.NewFromInt(1), Quantity: 0}}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
