package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"StrikeBand/internal/model"
)

const nseChainJSON = `{
  "records": {
    "expiryDates": ["24-Nov-2026", "27-Oct-2026"],
    "underlyingValue": 1000,
    "data": [
      {"strikePrice": 850, "expiryDate": "27-Oct-2026",
       "CE": {"lastPrice": 152.5, "openInterest": 300, "changeinOpenInterest": 12, "impliedVolatility": 31.2, "totalTradedVolume": 80}},
      {"strikePrice": 950, "expiryDate": "27-Oct-2026",
       "CE": {"lastPrice": 61, "openInterest": 1200, "changeinOpenInterest": -40},
       "PE": {"lastPrice": 9.4, "openInterest": 900, "changeinOpenInterest": 55}},
      {"strikePrice": 950, "expiryDate": "24-Nov-2026",
       "PE": {"lastPrice": 21, "openInterest": 100, "changeinOpenInterest": 3}},
      {"strikePrice": 1150, "expiryDate": "bad-date"}
    ]
  }
}`

func newNSEServer(t *testing.T, chainBody string, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: "nsit", Value: "abc", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	chain := func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		if c, err := r.Cookie("nsit"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(chainBody))
	}
	mux.HandleFunc("/api/option-chain-equities", chain)
	mux.HandleFunc("/api/option-chain-indices", chain)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestNSEFetcher_FetchChain(t *testing.T) {
	srv, paths := newNSEServer(t, nseChainJSON, http.StatusOK)
	f := NewNSEFetcher(srv.URL, "")

	chain, err := f.FetchChain(context.Background(), "RELIANCE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chain.Spot != 1000 {
		t.Errorf("expected spot 1000, got %v", chain.Spot)
	}
	if len(chain.Expiries) != 2 || chain.Expiries[0].Month() != 10 {
		t.Errorf("expected expiries sorted nearest first, got %v", chain.Expiries)
	}
	if len(chain.Records) != 3 {
		t.Fatalf("expected 3 records (bad date skipped), got %d", len(chain.Records))
	}
	first := chain.Records[0]
	if first.Call == nil || first.Call.LastPrice != 152.5 || first.Call.ChangeInOpenInterest != 12 || first.Put != nil {
		t.Errorf("unexpected first record: %+v", first)
	}
	if got := (*paths)[len(*paths)-1]; got != "/api/option-chain-equities?symbol=RELIANCE" {
		t.Errorf("unexpected chain path %q", got)
	}
}

func TestNSEFetcher_IndexEndpoint(t *testing.T) {
	srv, paths := newNSEServer(t, nseChainJSON, http.StatusOK)
	f := NewNSEFetcher(srv.URL, "")
	if _, err := f.FetchChain(context.Background(), "NIFTY"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := (*paths)[len(*paths)-1]; got != "/api/option-chain-indices?symbol=NIFTY" {
		t.Errorf("unexpected chain path %q", got)
	}
}

func TestNSEFetcher_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"http error", `{}`, http.StatusForbidden, model.CodeChainFetchFailed},
		{"bad json", `{"records":`, http.StatusOK, model.CodeChainFetchFailed},
		{"no spot", `{"records":{"expiryDates":["27-Oct-2026"],"underlyingValue":0,"data":[]}}`, http.StatusOK, model.CodeSpotFetchFailed},
		{"no expiries", `{"records":{"expiryDates":[],"underlyingValue":1000,"data":[]}}`, http.StatusOK, model.CodeChainFetchFailed},
	}
	for _, tt := range tests {
		srv, _ := newNSEServer(t, tt.body, tt.status)
		f := NewNSEFetcher(srv.URL, "")
		chain, err := f.FetchChain(context.Background(), "TCS")
		if !model.HasCode(err, tt.code) {
			t.Errorf("%s: expected code %s, got %v", tt.name, tt.code, err)
		}
		if chain != nil {
			t.Errorf("%s: expected nil chain", tt.name)
		}
	}
}
