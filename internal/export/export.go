// Package export renders a user's transactions as downloadable CSV or JSON
// documents, optionally restricted to the current month or year.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"financeflow/internal/core"
)

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// Format is an export file format.
type Format string

// RowWriter receives the tabular form of an export (header first).
type RowWriter interface {
	WriteRows(ctx context.Context, rows [][]string) error
}

var csvHeader = []string{"Date", "Type", "Catégorie", "Montant"}

// ParseFormat accepts "csv" or "json"; an empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid export format %q", s)
	}
}

// ParsePeriod accepts the periods offered by the export dialog: all, month, year.
func ParsePeriod(s string) (core.Period, error) {
	p, err := core.ParsePeriod(s)
	if err != nil {
		return "", err
	}
	switch p {
	case core.PeriodAll, core.PeriodMonth, core.PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("period %q is not exportable", s)
	}
}

// Ext is the file extension for f.
func (f Format) Ext() string {
	if f == JSON {
		return "json"
	}
	return "csv"
}

// ContentType is the MIME type announced for downloads.
func (f Format) ContentType() string {
	return "text/" + f.Ext() + ";charset=utf-8"
}

// Filename returns transactions_<format>_<yyyy-MM-dd>.<ext>.
func Filename(f Format, today time.Time) string {
	return fmt.Sprintf("transactions_%s_%s.%s", f, today.Format(core.DateLayout), f.Ext())
}

// Select keeps the transactions of txs falling in period, in input order.
func Select(txs []core.Transaction, period core.Period, today time.Time) []core.Transaction {
	return core.Filter(txs, core.FilterSpec{Period: period}, today)
}

// Rows returns the header followed by one row per transaction.
func Rows(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, csvHeader)
	for _, t := range txs {
		rows = append(rows, []string{t.Date.String(), string(t.Type), t.Category, t.Amount.String()})
	}
	return rows
}

// WriteCSV writes comma separated rows joined by "\n" with no trailing
// newline. Fields are not quoted.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	rows := Rows(txs)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, ",")
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// WriteJSON writes txs as a JSON array indented with two spaces.
func WriteJSON(w io.Writer, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	b, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// Export filters txs by period and writes them to w in format f.
func Export(w io.Writer, txs []core.Transaction, f Format, period core.Period, today time.Time) error {
	selected := Select(txs, period, today)
	switch f {
	case CSV:
		return WriteCSV(w, selected)
	case JSON:
		return WriteJSON(w, selected)
	default:
		return fmt.Errorf("invalid export format %q", f)
	}
}

// Publish sends the tabular export of the period to a RowWriter.
func Publish(ctx context.Context, dst RowWriter, txs []core.Transaction, period core.Period, today time.Time) error {
	if err := dst.WriteRows(ctx, Rows(Select(txs, period, today))); err != nil {
		return fmt.Errorf("publish export: %w", err)
	}
	return nil
}
