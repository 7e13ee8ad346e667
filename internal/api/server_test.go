package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StrikeBand/internal/catalog"
	"StrikeBand/internal/collector"
	"StrikeBand/internal/model"

	"github.com/klauspost/compress/zstd"
)

func newTestServer(t *testing.T, mock *collector.MockFetcher) http.Handler {
	t.Helper()
	cat, err := catalog.New("RELIANCE", "TCS")
	if err != nil {
		t.Fatal(err)
	}
	col := collector.NewCollector(mock, mock, cat, collector.Options{Pct: 10, Increment: 50})
	col.Now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return NewServer(col)
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(t, &collector.MockFetcher{Spot: 1000}), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestListSymbols(t *testing.T) {
	w := do(t, newTestServer(t, &collector.MockFetcher{Spot: 1000}), "/api/v1/symbols")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Symbols) != 2 || body.Symbols[0] != "RELIANCE" {
		t.Errorf("unexpected symbols: %v", body.Symbols)
	}
}

func TestGetOptions(t *testing.T) {
	mock := &collector.MockFetcher{Spot: 1000}
	w := do(t, newTestServer(t, mock), "/api/v1/options/reliance?start=2026-10-01&end=2026-10-10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var rep model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Symbol != "RELIANCE" || rep.Spot == nil || *rep.Spot != 1000 {
		t.Errorf("unexpected report header: %+v", rep)
	}
	if rep.Band == nil || rep.Band.Lower != 900 || rep.Band.Upper != 1100 {
		t.Errorf("unexpected band: %+v", rep.Band)
	}
	for _, c := range rep.Calls {
		if c.StrikePrice < 900 || c.StrikePrice > 1100 {
			t.Errorf("call strike %v outside band", c.StrikePrice)
		}
	}
	if len(rep.Calls) != 5 || len(rep.Puts) != 5 {
		t.Errorf("expected 5 calls and 5 puts, got %d/%d", len(rep.Calls), len(rep.Puts))
	}
	if rep.HistoryOutcome != model.HistoryOK || len(rep.History) == 0 {
		t.Errorf("expected history, got %s with %d bars", rep.HistoryOutcome, len(rep.History))
	}
}

func TestGetOptions_InvalidParameter(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"unknown symbol", "/api/v1/options/NOPE"},
		{"bad date", "/api/v1/options/TCS?start=01-10-2026"},
		{"reversed range", "/api/v1/options/TCS?start=2026-10-10&end=2026-10-01"},
		{"future end", "/api/v1/options/TCS?end=2027-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &collector.MockFetcher{Spot: 1000}
			w := do(t, newTestServer(t, mock), tt.path)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if mock.ChainCalls != 0 || mock.HistoryCalls != 0 {
				t.Errorf("expected no fetches, got %d/%d", mock.ChainCalls, mock.HistoryCalls)
			}
		})
	}
}

func TestGetOptions_ChainFailureIsNotice(t *testing.T) {
	mock := &collector.MockFetcher{Spot: 1000, ChainErr: errors.New("connection reset")}
	w := do(t, newTestServer(t, mock), "/api/v1/options/TCS")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var rep model.Report
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Spot != nil || len(rep.Calls) != 0 {
		t.Error("expected no chain data")
	}
	found := false
	for _, n := range rep.Notices {
		if n.Code == model.CodeChainFetchFailed && n.Level == model.NoticeError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected chain failure notice, got %+v", rep.Notices)
	}
}

func TestGetBand(t *testing.T) {
	h := newTestServer(t, &collector.MockFetcher{Spot: 1000})
	w := do(t, h, "/api/v1/band?spot=1000")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body struct {
		Band      model.StrikeBand `json:"band"`
		Increment float64          `json:"increment"`
		Strikes   []float64        `json:"strikes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := []float64{900, 950, 1000, 1050, 1100}
	if len(body.Strikes) != len(want) {
		t.Fatalf("strikes = %v, want %v", body.Strikes, want)
	}
	for i := range want {
		if body.Strikes[i] != want[i] {
			t.Errorf("strike[%d] = %v, want %v", i, body.Strikes[i], want[i])
		}
	}

	for _, path := range []string{
		"/api/v1/band?spot=0",
		"/api/v1/band?spot=1000&pct=-1",
		"/api/v1/band?spot=1000&increment=0",
		"/api/v1/band?spot=1000&pct=abc",
	} {
		if w := do(t, h, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestDashboard(t *testing.T) {
	h := newTestServer(t, &collector.MockFetcher{Spot: 1000})

	w := do(t, h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Fetch Options Data", `<option value="RELIANCE">`, `type="date"`} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	w = do(t, h, "/?symbol=TCS&start=2026-10-01&end=2026-10-10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body = w.Body.String()
	for _, want := range []string{"Options Data for TCS", "Spot Price: 1000.00", "Call Options", "Put Options", "Historical Data (2026-10-01 to 2026-10-10)", `<option value="TCS" selected>`} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	w = do(t, h, "/?symbol=TCS&start=2026-10-10&end=2026-10-01")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INVALID_PARAMETER") {
		t.Error("expected error banner")
	}
}

func TestZstdCompression(t *testing.T) {
	h := newTestServer(t, &collector.MockFetcher{Spot: 1000})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/symbols", nil)
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "zstd" {
		t.Fatalf("Content-Encoding = %q, want zstd", got)
	}
	dec, err := zstd.NewReader(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	var body struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(dec).Decode(&body); err != nil {
		t.Fatalf("decode compressed body: %v", err)
	}
	if len(body.Symbols) != 2 {
		t.Errorf("unexpected symbols: %v", body.Symbols)
	}

	if w := do(t, h, "/api/v1/symbols"); w.Header().Get("Content-Encoding") != "" {
		t.Error("expected plain response without Accept-Encoding")
	}
}
