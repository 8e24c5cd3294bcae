package http

import (
	"bytes"
	"fmt"
	"net/http"

	"financeflow/internal/core"
	"financeflow/internal/export"
	applog "financeflow/internal/log"
)

type sheetsExportResponse struct {
	Rows int `json:"rows"`
}

func parseExportPeriod(r *http.Request) (core.Period, error) {
	period, err := export.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return period, nil
}

// handleExport streams the filtered transactions as a CSV or JSON attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, r, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	period, err := parseExportPeriod(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	txs, err := s.deps.Ledger.Transactions(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	today := s.now()
	var buf bytes.Buffer
	if err := export.Export(&buf, txs, format, period, today); err != nil {
		handleError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transactions exported",
		applog.NewFields().WithOperation(applog.OpExport).
			WithExport(string(format), string(period), len(export.Select(txs, period, today))).ToSlice()...)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(format, today)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleExportSheets publishes the filtered rows to the configured spreadsheet.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.deps.Exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "sheets export is not configured")
		return
	}
	period, err := parseExportPeriod(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	txs, err := s.deps.Ledger.Transactions(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}

	today := s.now()
	if err := export.Publish(r.Context(), s.deps.Exporter, txs, period, today); err != nil {
		handleError(w, r, err)
		return
	}
	rows := len(export.Select(txs, period, today))
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transactions published to sheets",
		applog.NewFields().WithOperation(applog.OpExport).WithExport("sheets", string(period), rows).ToSlice()...)
	writeJSON(w, http.StatusOK, sheetsExportResponse{Rows: rows})
}
