package grocery

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceStats summarizes the price history of one item.
type PriceStats struct {
	Name       string          `json:"name,omitempty"`
	Points     []PricePoint    `json:"points"` // ascending by date
	Average    decimal.Decimal `json:"avgPrice"`
	Min        decimal.Decimal `json:"minPrice"`
	Max        decimal.Decimal `json:"maxPrice"`
	Last       decimal.Decimal `json:"lastPrice"`
	ChangePct  decimal.Decimal `json:"priceChange"` // first to last, one decimal
	HasHistory bool            `json:"hasHistory"`
}

// PriceHistory sorts entries by date and computes the summary statistics.
// A zero first price yields a zero change.
func PriceHistory(entries []PricePoint) PriceStats {
	points := append([]PricePoint(nil), entries...)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	s := PriceStats{Points: points, Average: decimal.Zero, Min: decimal.Zero, Max: decimal.Zero, Last: decimal.Zero, ChangePct: decimal.Zero}
	if len(points) == 0 {
		s.Points = []PricePoint{}
		return s
	}
	s.HasHistory = true

	sum := decimal.Zero
	s.Min, s.Max = points[0].Price, points[0].Price
	for _, p := range points {
		sum = sum.Add(p.Price)
		s.Min = decimal.Min(s.Min, p.Price)
		s.Max = decimal.Max(s.Max, p.Price)
	}
	s.Average = sum.Div(decimal.NewFromInt(int64(len(points))))
	first := points[0].Price
	s.Last = points[len(points)-1].Price
	if !first.IsZero() {
		s.ChangePct = s.Last.Sub(first).Div(first).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return s
}
