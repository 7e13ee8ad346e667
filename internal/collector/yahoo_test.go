package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newYahooServer(t *testing.T, body string, status int) (*YahooFetcher, *string) {
	t.Helper()
	var lastPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.URL.Path
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher(".NS", "")
	f.BaseURL = srv.URL
	return f, &lastPath
}

var (
	histStart = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	histEnd   = time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
)

func TestYahooFetcher_FetchHistory(t *testing.T) {
	body := `{"chart":{"result":[{"timestamp":[1759449600,1759276800,1759363200],
		"indicators":{"quote":[{"open":[103,100,null],"high":[106,102,null],"low":[101,99,null],"close":[105,101,null],"volume":[900,1000,null]}]}}],"error":null}}`
	f, path := newYahooServer(t, body, http.StatusOK)

	bars, err := f.FetchHistory(context.Background(), "RELIANCE", histStart, histEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars (null bar skipped), got %d", len(bars))
	}
	if !bars[0].Time.Before(bars[1].Time) || bars[0].Open != 100 {
		t.Errorf("expected chronological order, got %+v", bars)
	}
	if !strings.HasSuffix(*path, "/RELIANCE.NS") {
		t.Errorf("expected suffixed ticker in path, got %q", *path)
	}
}

func TestYahooFetcher_EmptyIsNotError(t *testing.T) {
	f, _ := newYahooServer(t, `{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`, http.StatusOK)
	bars, err := f.FetchHistory(context.Background(), "TCS", histStart, histEnd)
	if err != nil {
		t.Fatalf("expected no error for empty history, got %v", err)
	}
	if bars == nil || len(bars) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", bars)
	}
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"api error", `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`, http.StatusOK},
		{"http status", `oops`, http.StatusInternalServerError},
		{"bad json", `{"chart":`, http.StatusOK},
	}
	for _, tt := range tests {
		f, _ := newYahooServer(t, tt.body, tt.status)
		if _, err := f.FetchHistory(context.Background(), "TCS", histStart, histEnd); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestYahooFetcher_SymbolMapping(t *testing.T) {
	f := NewYahooFetcher(".NS", "")
	tests := map[string]string{
		"NIFTY":     "^NSEI",
		"BANKNIFTY": "^NSEBANK",
		"INFY":      "INFY.NS",
		"AAPL.US":   "AAPL.US",
	}
	for in, want := range tests {
		if got := f.yahooSymbol(modelSymbol(in)); got != want {
			t.Errorf("%s: expected %s, got %s", in, want, got)
		}
	}
	f.Suffix = ""
	if got := f.yahooSymbol("AAPL"); got != "AAPL" {
		t.Errorf("expected bare ticker without suffix, got %s", got)
	}
}

func TestYahooFetcher_TradingDayFromOffset(t *testing.T) {
	// 2026-10-01 22:00 UTC is already 2 Oct in IST (+05:30).
	body := `{"chart":{"result":[{"meta":{"gmtoffset":19800},"timestamp":[1790892000],
		"indicators":{"quote":[{"open":[10],"high":[11],"low":[9],"close":[10.5],"volume":[null]}]}}],"error":null}}`
	f, _ := newYahooServer(t, body, http.StatusOK)

	bars, err := f.FetchHistory(context.Background(), "TCS", histStart, histEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	want := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	if !bars[0].Time.Equal(want) {
		t.Errorf("expected bar dated %s, got %s", want, bars[0].Time)
	}
	if bars[0].Volume != 0 || bars[0].Close != 10.5 {
		t.Errorf("unexpected bar %+v", bars[0])
	}
}
