package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"financeflow/internal/core"
	"financeflow/internal/ledger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var (
	// ErrBadRequest marks malformed requests (400).
	ErrBadRequest = errors.New("bad request")
	// ErrInvalidInput marks well-formed requests with invalid values (422).
	ErrInvalidInput = errors.New("invalid input")
)

// decodeJSON reads a single JSON document from the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", ErrBadRequest)
	}
	return nil
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// parseID reads the {id} route variable.
func parseID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid transaction id %q", ErrBadRequest, raw)
	}
	return id, nil
}

// parseTypeParam accepts "", "all", "income" and "expense".
func parseTypeParam(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == core.AllTypes {
		return core.AllTypes, nil
	}
	t, err := core.ParseType(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return string(t), nil
}

// parseFilter builds the filter spec from the query string.
func parseFilter(q url.Values) (core.FilterSpec, error) {
	spec := core.FilterSpec{
		Search:   q.Get("search"),
		Category: strings.TrimSpace(q.Get("category")),
	}
	if spec.Category == "" {
		spec.Category = core.AllCategories
	}

	var err error
	if spec.Type, err = parseTypeParam(q.Get("type")); err != nil {
		return spec, err
	}
	if spec.Period, err = core.ParsePeriod(q.Get("period")); err != nil {
		return spec, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if spec.Range.From, err = core.ParseDate(v); err != nil {
			return spec, fmt.Errorf("%w: invalid from date: %v", ErrBadRequest, err)
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		if spec.Range.To, err = core.ParseDate(v); err != nil {
			return spec, fmt.Errorf("%w: invalid to date: %v", ErrBadRequest, err)
		}
	}
	return spec, nil
}

// amountInput holds the amount as typed by the user. Both JSON numbers and
// strings are accepted, so "12,50" from a form field parses like 12.5.
type amountInput string

func (a *amountInput) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amountInput(s)
		return nil
	}
	*a = amountInput(data)
	return nil
}

// value parses the amount. An empty amount is zero.
func (a amountInput) value() (decimal.Decimal, error) {
	if strings.TrimSpace(string(a)) == "" {
		return decimal.Zero, nil
	}
	return core.ParseAmount(string(a))
}

// transactionInput is the body of create and update requests.
type transactionInput struct {
	Type     string             `json:"type"`
	Amount   amountInput        `json:"amount"`
	Category string             `json:"category"`
	Date     core.Date          `json:"date"`
	Details  []core.GroceryItem `json:"details"`
}

// draft validates the input. The amount may be omitted for groceries with
// items since it is computed from them.
func (in transactionInput) draft() (ledger.Draft, error) {
	t, err := core.ParseType(in.Type)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return ledger.Draft{}, fmt.Errorf("%w: %v", ErrInvalidInput, core.ErrEmptyCategory)
	}
	if in.Date.IsZero() {
		return ledger.Draft{}, fmt.Errorf("%w: %v", ErrInvalidInput, core.ErrZeroDate)
	}
	for _, item := range in.Details {
		if err := item.Validate(); err != nil {
			return ledger.Draft{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, item.Name, err)
		}
	}

	computed := core.IsGroceryCategory(core.ResolveCategoryLabel(category)) && len(in.Details) > 0
	amount, err := in.Amount.value()
	if computed && err != nil {
		amount, err = decimal.Zero, nil
	}
	if err == nil && !computed && !amount.IsPositive() {
		err = core.ErrInvalidAmount
	}
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("%w: amount must be a positive number: %v", ErrInvalidInput, err)
	}

	return ledger.Draft{
		Type:     t,
		Amount:   amount,
		Category: category,
		Date:     in.Date,
		Details:  in.Details,
	}, nil
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
