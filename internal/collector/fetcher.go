package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"StrikeBand/internal/model"
)

// ChainFetcher returns the spot price and option chain for a symbol.
type ChainFetcher interface {
	FetchChain(ctx context.Context, symbol model.Symbol) (*model.OptionChain, error)
	Name() string
}

// HistoryFetcher returns daily bars between start and end, both inclusive.
// An empty slice with a nil error means the source had no rows.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, symbol model.Symbol, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// newTransport builds a transport with optional proxy support.
func newTransport(proxyURL string) *http.Transport {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return transport
}
