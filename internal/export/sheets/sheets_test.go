package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type recorded struct {
	method string
	path   string
	body   string
}

func fakeSheets(t *testing.T, status int) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewWithService(svc, "sheet-id", "Export")
}

func TestWriteRows(t *testing.T) {
	srv, calls := fakeSheets(t, http.StatusOK)
	c := testClient(t, srv)

	rows := [][]string{{"Date", "Type", "Catégorie", "Montant"}, {"2024-01-01", "income", "Salaire", "3000"}}
	if err := c.WriteRows(context.Background(), rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}

	if len(*calls) != 2 {
		t.Fatalf("expected clear and update, got %d calls", len(*calls))
	}
	clear, update := (*calls)[0], (*calls)[1]
	if clear.method != http.MethodPost || !strings.HasSuffix(clear.path, ":clear") {
		t.Fatalf("unexpected clear call: %s %s", clear.method, clear.path)
	}
	if update.method != http.MethodPut || !strings.Contains(update.path, "Export!A1:D2") {
		t.Fatalf("unexpected update call: %s %s", update.method, update.path)
	}

	var vr struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal([]byte(update.body), &vr); err != nil {
		t.Fatalf("decode update body: %v", err)
	}
	if len(vr.Values) != 2 || vr.Values[1][2] != "Salaire" {
		t.Fatalf("unexpected values: %+v", vr.Values)
	}
}

func TestWriteRowsEmptyOnlyClears(t *testing.T) {
	srv, calls := fakeSheets(t, http.StatusOK)
	if err := testClient(t, srv).WriteRows(context.Background(), nil); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected only clear, got %d calls", len(*calls))
	}
}

func TestWriteRowsAPIError(t *testing.T) {
	srv, _ := fakeSheets(t, http.StatusForbidden)
	err := testClient(t, srv).WriteRows(context.Background(), [][]string{{"a"}})
	if err == nil || !strings.Contains(err.Error(), "clear Export!A:D") {
		t.Fatalf("expected clear error, got %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("expected missing id error, got %v", err)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "x"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected credentials error, got %v", err)
	}

	_, err = New(context.Background(), Config{SpreadsheetID: "x", ServiceAccountFile: "/does/not/exist.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected file error, got %v", err)
	}
}

func TestNilService(t *testing.T) {
	c := &Client{spreadsheetID: "x", sheetName: "y"}
	if err := c.WriteRows(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}
