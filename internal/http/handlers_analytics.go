package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"financeflow/internal/core"
	"financeflow/internal/grocery"
)

// recentMonths is the number of months shown in the grocery report.
const recentMonths = 6

type groceryReportResponse struct {
	grocery.Report
	RecentMonths   []grocery.MonthStats `json:"recentMonths"`
	TopBySpend     []grocery.ItemStats  `json:"topBySpend"`
	TopByFrequency []grocery.ItemStats  `json:"topByFrequency"`
}

func (s *Server) statistics(r *http.Request, uid string) (core.Summary, error) {
	return s.statsCache.GetOrCompute(uid+":statistics", func() (core.Summary, error) {
		txs, err := s.deps.Ledger.Transactions(r.Context(), uid)
		if err != nil {
			return core.Summary{}, err
		}
		return core.Summarize(txs), nil
	})
}

func (s *Server) groceryReport(r *http.Request, uid string) (grocery.Report, error) {
	return s.reportCache.GetOrCompute(uid+":report", func() (grocery.Report, error) {
		txs, err := s.deps.Ledger.Transactions(r.Context(), uid)
		if err != nil {
			return grocery.Report{}, err
		}
		return grocery.Analyze(txs), nil
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.statistics(r, userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGroceryReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.groceryReport(r, userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groceryReportResponse{
		Report:         report,
		RecentMonths:   report.RecentMonths(recentMonths),
		TopBySpend:     report.TopBySpend(grocery.DefaultTopN),
		TopByFrequency: report.TopByFrequency(grocery.DefaultTopN),
	})
}

func (s *Server) handleGrocerySuggestions(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	suggestions, err := s.suggestCache.GetOrCompute(uid+":suggestions", func() (grocery.Suggestions, error) {
		txs, err := s.deps.Ledger.Transactions(r.Context(), uid)
		if err != nil {
			return grocery.Suggestions{}, err
		}
		return grocery.Suggest(grocery.Observations(txs)), nil
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// handleItemHistory answers with an empty history for items never bought.
func (s *Server) handleItemHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	report, err := s.groceryReport(r, userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	item, _ := report.Item(name)
	stats := grocery.PriceHistory(item.PriceHistory)
	stats.Name = name
	writeJSON(w, http.StatusOK, stats)
}
