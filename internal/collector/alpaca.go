package collector

import (
	"context"
	"fmt"
	"time"

	"StrikeBand/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// barsClient is the subset of the Alpaca market data client used here.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements HistoryFetcher using Alpaca daily bars.
type AlpacaFetcher struct {
	Client barsClient
}

// NewAlpacaFetcher creates a fetcher backed by the Alpaca market data API.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchHistory returns split-adjusted daily bars for [start, end].
func (f *AlpacaFetcher) FetchHistory(ctx context.Context, symbol model.Symbol, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := f.Client.GetBars(string(symbol), marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		out = append(out, model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return out, nil
}
