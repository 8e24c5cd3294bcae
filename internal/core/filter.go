package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	PeriodAll    Period = "all"
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"

	// AllTypes disables the type predicate.
	AllTypes = "all"
)

type (
	Period string

	// DateRange bounds a custom period. A zero bound counts as absent.
	DateRange struct {
		From Date `json:"from"`
		To   Date `json:"to"`
	}

	// FilterSpec holds the predicates applied by Filter. Zero values are inactive.
	FilterSpec struct {
		Search   string    `json:"search"`
		Type     string    `json:"type"`     // all | income | expense
		Category string    `json:"category"` // category id or "all"
		Period   Period    `json:"period"`
		Range    DateRange `json:"dateRange"`
	}
)

// ParsePeriod accepts the period identifiers understood by the filter engine.
// An empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return p, nil
	default:
		return "", fmt.Errorf("invalid period %q", s)
	}
}

// Complete reports whether both bounds are set.
func (r DateRange) Complete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Contains reports whether d lies within [From, To].
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Filter returns the transactions matching every active predicate of spec,
// in input order. today anchors the relative periods.
func Filter(txs []Transaction, spec FilterSpec, today time.Time) []Transaction {
	match := spec.matcher(DateOf(today))
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (spec FilterSpec) matcher(today Date) func(Transaction) bool {
	search := strings.ToLower(spec.Search)

	categoryActive := spec.Category != "" && spec.Category != AllCategories
	var categoryLabel string
	categoryKnown := false
	if categoryActive {
		if c, ok := LookupCategory(spec.Category); ok {
			categoryLabel, categoryKnown = c.Label, true
		}
	}

	return func(t Transaction) bool {
		if search != "" && !strings.Contains(strings.ToLower(t.Category), search) {
			return false
		}
		if spec.Type != "" && spec.Type != AllTypes && string(t.Type) != spec.Type {
			return false
		}
		if categoryActive {
			// Unknown ids fail closed.
			if !categoryKnown || t.Category != categoryLabel {
				return false
			}
		}
		return InPeriod(t.Date, spec.Period, spec.Range, today)
	}
}

// InPeriod reports whether d falls in period relative to today. The custom
// period only filters when both range bounds are set; otherwise everything passes.
func InPeriod(d Date, period Period, rng DateRange, today Date) bool {
	switch period {
	case PeriodToday:
		return d.Equal(today)
	case PeriodWeek:
		return !d.Before(today.AddDays(-6)) && !d.After(today)
	case PeriodMonth:
		return d.Year() == today.Year() && d.Month() == today.Month()
	case PeriodYear:
		return d.Year() == today.Year()
	case PeriodCustom:
		if rng.Complete() {
			return rng.Contains(d)
		}
		return true
	default:
		return true
	}
}
