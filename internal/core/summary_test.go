package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalance(t *testing.T) {
	assert.True(t, Balance(sampleLedger()).Equal(dec("2650")))
	assert.True(t, Balance(nil).IsZero())
}

func TestBalanceEqualsIncomeMinusExpenses(t *testing.T) {
	s := Summarize(sampleLedger())
	assert.True(t, s.Total.Equal(s.TotalIncome.Sub(s.TotalExpenses)), "total %s", s.Total)
}

func TestSummarize(t *testing.T) {
	txs := append(sampleLedger(),
		Transaction{ID: 6, Type: Expense, Amount: dec("-50"), Category: "Courses", Date: NewDate(2024, 2, 20)},
	)
	s := Summarize(txs)

	assert.True(t, s.TotalIncome.Equal(dec("3500")))
	assert.True(t, s.TotalExpenses.Equal(dec("900")))
	// (3500-900)/3500*100
	assert.Equal(t, "74.29", s.SavingsRate.StringFixed(2))

	require.Len(t, s.ByCategory, 3)
	assert.Equal(t, "Loyer", s.ByCategory[0].Name)
	assert.Equal(t, "Courses", s.ByCategory[1].Name)
	assert.True(t, s.ByCategory[1].Amount.Equal(dec("250")))
	assert.Equal(t, "Transport", s.ByCategory[2].Name)

	require.Len(t, s.Monthly, 2)
	assert.Equal(t, "2024-02", s.Monthly[0].Month)
	assert.True(t, s.Monthly[0].Savings.Equal(dec("-50")))
	assert.Equal(t, "2024-03", s.Monthly[1].Month)
	assert.True(t, s.Monthly[1].Income.Equal(dec("3500")))
	assert.True(t, s.Monthly[1].Expenses.Equal(dec("850")))
}

func TestSummarizeWithoutIncome(t *testing.T) {
	s := Summarize([]Transaction{
		{ID: 1, Type: Expense, Amount: dec("-10"), Category: "Loyer", Date: NewDate(2024, 1, 1)},
	})
	assert.True(t, s.SavingsRate.IsZero())
	assert.True(t, s.Total.Equal(dec("-10")))
}

func TestSummaryJSONUsesNumbers(t *testing.T) {
	s := Summarize([]Transaction{
		{ID: 1, Type: Income, Amount: dec("3000"), Category: "Salaire", Date: NewDate(2024, 3, 1)},
		{ID: 2, Type: Expense, Amount: dec("-12.5"), Category: "Loyer", Date: NewDate(2024, 3, 2)},
	})
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"total":2987.5`)
	assert.Contains(t, string(b), `{"name":"Loyer","value":12.5}`)
	assert.Contains(t, string(b), `{"date":"2024-03","income":3000,"expenses":12.5,"savings":2987.5}`)

	// the encoding is local to these types
	assert.False(t, decimal.MarshalJSONWithoutQuotes)
	raw, err := json.Marshal(dec("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(raw))
}
