// Package grocery computes the analytics shown for itemized grocery receipts:
// per-item spend, monthly spend, top lists, purchase suggestions and the
// price history of a single item.
package grocery

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"financeflow/internal/core"
)

// DefaultTopN bounds the top-by-spend and top-by-frequency lists.
const DefaultTopN = 10

var frenchMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

type (
	// PricePoint is one purchase of an item.
	PricePoint struct {
		Date     core.Date       `json:"date"`
		Price    decimal.Decimal `json:"price"`
		Quantity int             `json:"quantity"`
	}

	ItemStats struct {
		Name         string          `json:"name"`
		TotalSpent   decimal.Decimal `json:"totalSpent"`
		Quantity     int             `json:"quantity"`
		Occurrences  int             `json:"occurrences"`
		AvgPrice     decimal.Decimal `json:"avgPrice"`
		PriceHistory []PricePoint    `json:"priceHistory"`
	}

	MonthStats struct {
		Label        string          `json:"month"` // e.g. "mars 2024"
		Year         int             `json:"year"`
		Month        time.Month      `json:"monthNumber"`
		Total        decimal.Decimal `json:"total"`
		Transactions int             `json:"transactions"`
		Items        int             `json:"items"`
	}

	Overview struct {
		TotalSpent     decimal.Decimal `json:"totalSpent"`
		AvgTransaction decimal.Decimal `json:"avgTransaction"`
		TotalItems     int             `json:"totalItems"`
		UniqueItems    int             `json:"uniqueItems"`
	}

	// Report is the result of Analyze. Items keeps first-seen order.
	Report struct {
		Overview Overview     `json:"overview"`
		Items    []ItemStats  `json:"items"`
		Monthly  []MonthStats `json:"monthly"`
	}
)

// MonthLabel renders the French "MMM yyyy" label of a date.
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", frenchMonths[month-1], year)
}

// GroceryTransactions keeps the grocery transactions that carry details.
func GroceryTransactions(txs []core.Transaction) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if core.IsGroceryCategory(t.Category) && t.HasDetails() {
			out = append(out, t)
		}
	}
	return out
}

// Analyze aggregates the grocery transactions of txs. Other transactions are ignored.
func Analyze(txs []core.Transaction) Report {
	groceries := GroceryTransactions(txs)

	r := Report{Overview: Overview{TotalSpent: decimal.Zero, AvgTransaction: decimal.Zero}}
	itemIndex := map[string]int{}
	monthIndex := map[string]int{}

	for _, t := range groceries {
		spent := t.Amount.Abs()
		count := t.ItemCount()
		r.Overview.TotalSpent = r.Overview.TotalSpent.Add(spent)
		r.Overview.TotalItems += count

		key := fmt.Sprintf("%04d-%02d", t.Date.Year(), int(t.Date.Month()))
		mi, ok := monthIndex[key]
		if !ok {
			mi = len(r.Monthly)
			monthIndex[key] = mi
			r.Monthly = append(r.Monthly, MonthStats{
				Label: MonthLabel(t.Date.Year(), t.Date.Month()),
				Year:  t.Date.Year(),
				Month: t.Date.Month(),
				Total: decimal.Zero,
			})
		}
		m := &r.Monthly[mi]
		m.Total = m.Total.Add(spent)
		m.Transactions++
		m.Items += count

		for _, item := range t.Details {
			ii, ok := itemIndex[item.Name]
			if !ok {
				ii = len(r.Items)
				itemIndex[item.Name] = ii
				r.Items = append(r.Items, ItemStats{Name: item.Name, TotalSpent: decimal.Zero})
			}
			s := &r.Items[ii]
			s.TotalSpent = s.TotalSpent.Add(item.Total())
			s.Quantity += item.Quantity
			s.Occurrences++
			s.PriceHistory = append(s.PriceHistory, PricePoint{Date: t.Date, Price: item.Price, Quantity: item.Quantity})
		}
	}

	for i := range r.Items {
		if r.Items[i].Quantity > 0 {
			r.Items[i].AvgPrice = r.Items[i].TotalSpent.Div(decimal.NewFromInt(int64(r.Items[i].Quantity)))
		}
	}
	if n := len(groceries); n > 0 {
		r.Overview.AvgTransaction = r.Overview.TotalSpent.Div(decimal.NewFromInt(int64(n)))
	}
	r.Overview.UniqueItems = len(r.Items)

	sort.SliceStable(r.Monthly, func(i, j int) bool {
		a, b := r.Monthly[i], r.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Month < b.Month
	})
	return r
}

// RecentMonths returns the last n months of the chronological monthly list.
func (r Report) RecentMonths(n int) []MonthStats {
	if n <= 0 {
		return nil
	}
	if len(r.Monthly) <= n {
		return r.Monthly
	}
	return r.Monthly[len(r.Monthly)-n:]
}

// TopBySpend returns up to n items ordered by total spend, ties in first-seen order.
func (r Report) TopBySpend(n int) []ItemStats {
	return top(r.Items, n, func(a, b ItemStats) bool { return a.TotalSpent.GreaterThan(b.TotalSpent) })
}

// TopByFrequency returns up to n items ordered by occurrence count.
func (r Report) TopByFrequency(n int) []ItemStats {
	return top(r.Items, n, func(a, b ItemStats) bool { return a.Occurrences > b.Occurrences })
}

// Item looks up the aggregate of one item by exact name.
func (r Report) Item(name string) (ItemStats, bool) {
	for _, it := range r.Items {
		if it.Name == name {
			return it, true
		}
	}
	return ItemStats{}, false
}

func top(items []ItemStats, n int, less func(a, b ItemStats) bool) []ItemStats {
	sorted := append([]ItemStats(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
