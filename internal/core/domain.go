package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// DateLayout is the wire format of a calendar date.
	DateLayout = "2006-01-02"
)

type (
	TransactionType string

	// Date is a calendar date without time component, always stored at UTC midnight.
	Date struct {
		time.Time
	}

	GroceryItem struct {
		ID       int64           `json:"id"`
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Quantity int             `json:"quantity"`
	}

	Transaction struct {
		ID       int64           `json:"id"`
		Type     TransactionType `json:"type"`
		Amount   decimal.Decimal `json:"amount"` // positive for income, negative for expense
		Category string          `json:"category"`
		Date     Date            `json:"date"`
		Details  []GroceryItem   `json:"details"`
	}

	User struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrSignMismatch    = errors.New("amount sign does not match transaction type")
	ErrZeroDate        = errors.New("date cannot be zero")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrEmptyItemName   = errors.New("empty item name")
)

// ParseType accepts "income" or "expense".
func ParseType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case Income, Expense:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Signed returns the absolute value of amount carrying the sign convention of t.
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Expense {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as observed in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before and After compare calendar dates.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (g GroceryItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       int64       `json:"id"`
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{g.ID, g.Name, JSONNumber(g.Price), g.Quantity})
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       int64           `json:"id"`
		Type     TransactionType `json:"type"`
		Amount   json.Number     `json:"amount"`
		Category string          `json:"category"`
		Date     Date            `json:"date"`
		Details  []GroceryItem   `json:"details"`
	}{t.ID, t.Type, JSONNumber(t.Amount), t.Category, t.Date, t.Details})
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Tolerate full timestamps; only the calendar part is kept.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Total returns price times quantity.
func (g GroceryItem) Total() decimal.Decimal {
	return g.Price.Mul(decimal.NewFromInt(int64(g.Quantity)))
}

func (g GroceryItem) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyItemName
	}
	if g.Price.IsNegative() {
		return ErrNegativePrice
	}
	if g.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// HasDetails reports whether the transaction carries itemized lines.
func (t Transaction) HasDetails() bool {
	return len(t.Details) > 0
}

// DetailsTotal sums price×quantity over the itemized lines, unsigned.
func (t Transaction) DetailsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Details {
		total = total.Add(item.Total())
	}
	return total
}

// ItemCount sums quantities over the itemized lines.
func (t Transaction) ItemCount() int {
	n := 0
	for _, item := range t.Details {
		n += item.Quantity
	}
	return n
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if t.Type == Income && t.Amount.IsNegative() || t.Type == Expense && t.Amount.IsPositive() {
		return ErrSignMismatch
	}
	for _, item := range t.Details {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", item.Name, err)
		}
	}
	return nil
}
