package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StrikeBand/internal/model"
)

// YahooFetcher implements HistoryFetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Suffix    string            // appended to exchange tickers, e.g. ".NS"
	SymbolMap map[string]string // maps catalog symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(suffix, proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newTransport(proxyURL),
		},
		Suffix: suffix,
		SymbolMap: map[string]string{
			"NIFTY":      "^NSEI",
			"BANKNIFTY":  "^NSEBANK",
			"FINNIFTY":   "NIFTY_FIN_SERVICE.NS",
			"MIDCPNIFTY": "NIFTY_MID_SELECT.NS",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol model.Symbol) string {
	s := string(symbol)
	if mapped, ok := f.SymbolMap[s]; ok {
		return mapped
	}
	if f.Suffix == "" || strings.ContainsAny(s, ".^=") {
		return s
	}
	return s + f.Suffix
}

// yahooChart mirrors the v8 chart payload. Quote values are nullable on
// holidays and half-formed bars.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []yahooQuote `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// bar returns the i-th bar, or false when any price is missing.
func (q yahooQuote) bar(i int) (model.OHLCV, bool) {
	var vals [4]float64
	for k, series := range [][]*float64{q.Open, q.High, q.Low, q.Close} {
		if i >= len(series) || series[i] == nil {
			return model.OHLCV{}, false
		}
		vals[k] = *series[i]
	}
	bar := model.OHLCV{Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if i < len(q.Volume) && q.Volume[i] != nil {
		bar.Volume = *q.Volume[i]
	}
	return bar, true
}

// FetchHistory requests daily bars for [start, end]. period2 is exclusive on
// Yahoo's side, so one day is added to end. Bars are dated by the exchange's
// trading day.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol model.Symbol, start, end time.Time) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	var chart yahooChart
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("yahoo %s: status %d: %s", symbol, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("yahoo %s: decode chart: %w", symbol, err)
	}
	if e := chart.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo %s: %s", symbol, e.Description)
	}

	bars := []model.OHLCV{}
	for _, res := range chart.Chart.Result {
		if len(res.Indicators.Quote) == 0 {
			continue
		}
		offset := time.Duration(res.Meta.GMTOffset) * time.Second
		for i, ts := range res.Timestamp {
			bar, ok := res.Indicators.Quote[0].bar(i)
			if !ok {
				continue
			}
			local := time.Unix(ts, 0).UTC().Add(offset)
			bar.Time = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
			bars = append(bars, bar)
		}
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
