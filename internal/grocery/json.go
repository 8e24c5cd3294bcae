package grocery

import (
	"encoding/json"

	"financeflow/internal/core"
)

// Amounts and prices encode as bare JSON numbers.

var num = core.JSONNumber

func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date     core.Date   `json:"date"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
	}{p.Date, num(p.Price), p.Quantity})
}

func (i ItemStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name         string       `json:"name"`
		TotalSpent   json.Number  `json:"totalSpent"`
		Quantity     int          `json:"quantity"`
		Occurrences  int          `json:"occurrences"`
		AvgPrice     json.Number  `json:"avgPrice"`
		PriceHistory []PricePoint `json:"priceHistory"`
	}{i.Name, num(i.TotalSpent), i.Quantity, i.Occurrences, num(i.AvgPrice), i.PriceHistory})
}

func (m MonthStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label        string      `json:"month"`
		Year         int         `json:"year"`
		Month        int         `json:"monthNumber"`
		Total        json.Number `json:"total"`
		Transactions int         `json:"transactions"`
		Items        int         `json:"items"`
	}{m.Label, m.Year, int(m.Month), num(m.Total), m.Transactions, m.Items})
}

func (o Overview) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalSpent     json.Number `json:"totalSpent"`
		AvgTransaction json.Number `json:"avgTransaction"`
		TotalItems     int         `json:"totalItems"`
		UniqueItems    int         `json:"uniqueItems"`
	}{num(o.TotalSpent), num(o.AvgTransaction), o.TotalItems, o.UniqueItems})
}

func (o Observation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string      `json:"name"`
		Price    json.Number `json:"price"`
		Quantity int         `json:"quantity"`
		Date     core.Date   `json:"date"`
	}{o.Name, num(o.Price), o.Quantity, o.Date})
}

// RecentItem needs its own encoding: the one promoted from Observation would drop LastPrice.
func (r RecentItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string      `json:"name"`
		Price     json.Number `json:"price"`
		Quantity  int         `json:"quantity"`
		Date      core.Date   `json:"date"`
		LastPrice json.Number `json:"lastPrice"`
	}{r.Name, num(r.Price), r.Quantity, r.Date, num(r.LastPrice)})
}

func (f FrequentItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string      `json:"name"`
		Count     int         `json:"count"`
		LastPrice json.Number `json:"lastPrice"`
	}{f.Name, f.Count, num(f.LastPrice)})
}

func (t TrendingItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string      `json:"name"`
		PriceChange json.Number `json:"priceChange"`
		LastPrice   json.Number `json:"lastPrice"`
	}{t.Name, num(t.PriceChange), num(t.LastPrice)})
}

func (s PriceStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string       `json:"name,omitempty"`
		Points     []PricePoint `json:"points"`
		Average    json.Number  `json:"avgPrice"`
		Min        json.Number  `json:"minPrice"`
		Max        json.Number  `json:"maxPrice"`
		Last       json.Number  `json:"lastPrice"`
		ChangePct  json.Number  `json:"priceChange"`
		HasHistory bool         `json:"hasHistory"`
	}{s.Name, s.Points, num(s.Average), num(s.Min), num(s.Max), num(s.Last), num(s.ChangePct), s.HasHistory})
}
