package core

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"value"`
}

// MonthTrend is the income/expense split of one calendar month.
type MonthTrend struct {
	Month    string          `json:"date"` // yyyy-MM
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// Summary is the overall picture shown on the statistics view.
type Summary struct {
	Total         decimal.Decimal  `json:"total"`
	TotalIncome   decimal.Decimal  `json:"totalIncome"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	SavingsRate   decimal.Decimal  `json:"savingsRate"` // percent
	ByCategory    []CategoryAmount `json:"byCategory"`
	Monthly       []MonthTrend     `json:"monthly"`
}

var hundred = decimal.NewFromInt(100)

func (c CategoryAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string      `json:"name"`
		Amount json.Number `json:"value"`
	}{c.Name, JSONNumber(c.Amount)})
}

func (m MonthTrend) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Month    string      `json:"date"`
		Income   json.Number `json:"income"`
		Expenses json.Number `json:"expenses"`
		Savings  json.Number `json:"savings"`
	}{m.Month, JSONNumber(m.Income), JSONNumber(m.Expenses), JSONNumber(m.Savings)})
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total         json.Number      `json:"total"`
		TotalIncome   json.Number      `json:"totalIncome"`
		TotalExpenses json.Number      `json:"totalExpenses"`
		SavingsRate   json.Number      `json:"savingsRate"`
		ByCategory    []CategoryAmount `json:"byCategory"`
		Monthly       []MonthTrend     `json:"monthly"`
	}{JSONNumber(s.Total), JSONNumber(s.TotalIncome), JSONNumber(s.TotalExpenses), JSONNumber(s.SavingsRate), s.ByCategory, s.Monthly})
}

// Balance sums the signed amounts.
func Balance(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Amount)
	}
	return total
}

// Summarize computes totals, the savings rate, expenses per category (first
// seen order) and the monthly trend sorted by month.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		Total:         decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		SavingsRate:   decimal.Zero,
	}

	catIndex := map[string]int{}
	months := map[string]*MonthTrend{}

	for _, t := range txs {
		s.Total = s.Total.Add(t.Amount)

		key := fmt.Sprintf("%04d-%02d", t.Date.Year(), int(t.Date.Month()))
		m, ok := months[key]
		if !ok {
			m = &MonthTrend{Month: key, Income: decimal.Zero, Expenses: decimal.Zero}
			months[key] = m
		}

		if t.Type == Income {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			m.Income = m.Income.Add(t.Amount)
		} else {
			abs := t.Amount.Abs()
			m.Expenses = m.Expenses.Add(abs)
			s.TotalExpenses = s.TotalExpenses.Add(abs)
			if i, ok := catIndex[t.Category]; ok {
				s.ByCategory[i].Amount = s.ByCategory[i].Amount.Add(abs)
			} else {
				catIndex[t.Category] = len(s.ByCategory)
				s.ByCategory = append(s.ByCategory, CategoryAmount{Name: t.Category, Amount: abs})
			}
		}
		m.Savings = m.Income.Sub(m.Expenses)
	}

	if s.TotalIncome.IsPositive() {
		s.SavingsRate = s.TotalIncome.Sub(s.TotalExpenses).Div(s.TotalIncome).Mul(hundred)
	}

	for _, m := range months {
		s.Monthly = append(s.Monthly, *m)
	}
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })

	return s
}
