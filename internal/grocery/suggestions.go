package grocery

import (
	"sort"

	"github.com/shopspring/decimal"

	"financeflow/internal/core"
)

// SuggestionLimit bounds each suggestion list.
const SuggestionLimit = 5

type (
	// Observation is one purchased line flattened out of a receipt.
	Observation struct {
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Quantity int             `json:"quantity"`
		Date     core.Date       `json:"date"`
	}

	RecentItem struct {
		Observation
		LastPrice decimal.Decimal `json:"lastPrice"`
	}

	FrequentItem struct {
		Name      string          `json:"name"`
		Count     int             `json:"count"`
		LastPrice decimal.Decimal `json:"lastPrice"`
	}

	TrendingItem struct {
		Name        string          `json:"name"`
		PriceChange decimal.Decimal `json:"priceChange"` // percent, one decimal
		LastPrice   decimal.Decimal `json:"lastPrice"`
	}

	Suggestions struct {
		Recent   []RecentItem   `json:"recent"`
		Frequent []FrequentItem `json:"frequent"`
		Trending []TrendingItem `json:"trending"`
	}
)

// Label renders the change with an explicit sign, e.g. "+20.0%".
func (t TrendingItem) Label() string {
	s := t.PriceChange.StringFixed(1)
	if !t.PriceChange.IsNegative() {
		s = "+" + s
	}
	return s + "%"
}

// Observations flattens the grocery details of txs in ledger order.
func Observations(txs []core.Transaction) []Observation {
	var out []Observation
	for _, t := range GroceryTransactions(txs) {
		for _, item := range t.Details {
			out = append(out, Observation{Name: item.Name, Price: item.Price, Quantity: item.Quantity, Date: t.Date})
		}
	}
	return out
}

// Suggest derives recent, frequent and trending items from obs, which is
// expected most-recent-first.
func Suggest(obs []Observation) Suggestions {
	return Suggestions{
		Recent:   recent(obs),
		Frequent: frequent(obs),
		Trending: trending(obs),
	}
}

func (o Observation) same(other Observation) bool {
	return o.Name == other.Name && o.Price.Equal(other.Price) && o.Quantity == other.Quantity && o.Date.Equal(other.Date)
}

func recent(obs []Observation) []RecentItem {
	head := obs
	if len(head) > SuggestionLimit {
		head = head[:SuggestionLimit]
	}
	out := make([]RecentItem, 0, len(head))
next:
	for _, o := range head {
		for _, seen := range out {
			if seen.same(o) {
				continue next
			}
		}
		out = append(out, RecentItem{Observation: o, LastPrice: o.Price})
	}
	return out
}

func frequent(obs []Observation) []FrequentItem {
	index := map[string]int{}
	var out []FrequentItem
	for _, o := range obs {
		if i, ok := index[o.Name]; ok {
			out[i].Count++
			continue
		}
		index[o.Name] = len(out)
		out = append(out, FrequentItem{Name: o.Name, Count: 1, LastPrice: o.Price})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > SuggestionLimit {
		out = out[:SuggestionLimit]
	}
	if out == nil {
		out = []FrequentItem{}
	}
	return out
}

func trending(obs []Observation) []TrendingItem {
	var names []string
	byName := map[string][]Observation{}
	for _, o := range obs {
		if _, ok := byName[o.Name]; !ok {
			names = append(names, o.Name)
		}
		byName[o.Name] = append(byName[o.Name], o)
	}

	out := []TrendingItem{}
	changes := map[string]decimal.Decimal{}
	for _, name := range names {
		items := byName[name]
		if len(items) < 2 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
		newest, oldest := items[0].Price, items[len(items)-1].Price
		if oldest.IsZero() {
			continue
		}
		change := newest.Sub(oldest).Div(oldest).Mul(decimal.NewFromInt(100))
		changes[name] = change
		out = append(out, TrendingItem{Name: name, PriceChange: change.Round(1), LastPrice: newest})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return changes[out[i].Name].Abs().GreaterThan(changes[out[j].Name].Abs())
	})
	if len(out) > SuggestionLimit {
		out = out[:SuggestionLimit]
	}
	return out
}
