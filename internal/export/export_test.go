package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeflow/internal/core"
)

var today = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func salaire() core.Transaction {
	return core.Transaction{ID: 1, Type: core.Income, Amount: decimal.NewFromInt(3000), Category: "Salaire", Date: core.NewDate(2024, 1, 1)}
}

func TestCSVExample(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []core.Transaction{salaire()}, CSV, core.PeriodAll, today))
	assert.Equal(t, "Date,Type,Catégorie,Montant\n2024-01-01,income,Salaire,3000", buf.String())
}

func TestCSVAmounts(t *testing.T) {
	txs := []core.Transaction{
		{ID: 2, Type: core.Expense, Amount: decimal.RequireFromString("-12.50"), Category: "Courses", Date: core.NewDate(2024, 3, 3)},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))
	assert.Equal(t, "Date,Type,Catégorie,Montant\n2024-03-03,expense,Courses,-12.5", buf.String())
}

func TestJSONRoundTrip(t *testing.T) {
	groceries := core.Transaction{
		ID: 2, Type: core.Expense, Amount: decimal.NewFromInt(-10), Category: "Courses", Date: core.NewDate(2024, 3, 2),
		Details: []core.GroceryItem{
			{ID: 1, Name: "Pain", Price: decimal.NewFromInt(2), Quantity: 3},
			{ID: 2, Name: "Lait", Price: decimal.NewFromInt(1), Quantity: 4},
		},
	}
	in := []core.Transaction{groceries, salaire()}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, in, JSON, core.PeriodAll, today))
	assert.Contains(t, buf.String(), "\n  {\n    \"id\": 2,")

	var out []core.Transaction
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Type, out[i].Type)
		assert.True(t, in[i].Amount.Equal(out[i].Amount))
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.True(t, in[i].Date.Equal(out[i].Date))
		require.Len(t, out[i].Details, len(in[i].Details))
		for j := range in[i].Details {
			assert.Equal(t, in[i].Details[j].Name, out[i].Details[j].Name)
			assert.True(t, in[i].Details[j].Price.Equal(out[i].Details[j].Price))
			assert.Equal(t, in[i].Details[j].Quantity, out[i].Details[j].Quantity)
		}
	}
}

func TestExportPeriod(t *testing.T) {
	txs := []core.Transaction{
		{ID: 3, Type: core.Expense, Amount: decimal.NewFromInt(-5), Category: "Loyer", Date: core.NewDate(2024, 3, 2)},
		{ID: 2, Type: core.Expense, Amount: decimal.NewFromInt(-5), Category: "Loyer", Date: core.NewDate(2023, 3, 2)},
		salaire(),
	}
	assert.Len(t, Select(txs, core.PeriodMonth, today), 1)
	assert.Len(t, Select(txs, core.PeriodYear, today), 2)
	assert.Len(t, Select(txs, core.PeriodAll, today), 3)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil, JSON, core.PeriodMonth, today))
	assert.Equal(t, "[]", buf.String())
}

func TestFilenameAndContentType(t *testing.T) {
	assert.Equal(t, "transactions_csv_2024-03-15.csv", Filename(CSV, today))
	assert.Equal(t, "transactions_json_2024-03-15.json", Filename(JSON, today))
	assert.Equal(t, "text/csv;charset=utf-8", CSV.ContentType())
	assert.Equal(t, "text/json;charset=utf-8", JSON.ContentType())
}

func TestParse(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
	_, err = ParseFormat("xlsx")
	assert.Error(t, err)

	p, err := ParsePeriod("year")
	require.NoError(t, err)
	assert.Equal(t, core.PeriodYear, p)
	_, err = ParsePeriod("week")
	assert.Error(t, err)
}

type recordingWriter struct {
	rows [][]string
	err  error
}

func (r *recordingWriter) WriteRows(_ context.Context, rows [][]string) error {
	r.rows = rows
	return r.err
}

func TestPublish(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, Publish(context.Background(), w, []core.Transaction{salaire()}, core.PeriodAll, today))
	require.Len(t, w.rows, 2)
	assert.Equal(t, []string{"2024-01-01", "income", "Salaire", "3000"}, w.rows[1])

	boom := errors.New("boom")
	err := Publish(context.Background(), &recordingWriter{err: boom}, nil, core.PeriodAll, today)
	assert.ErrorIs(t, err, boom)
}
