package collector

import (
	"context"
	"math"
	"time"

	"StrikeBand/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// It satisfies both ChainFetcher and HistoryFetcher.
type MockFetcher struct {
	Spot       float64
	Step       float64 // strike spacing, defaults to 50
	Chain      *model.OptionChain
	History    []model.OHLCV
	ChainErr   error
	HistoryErr error

	ChainCalls   int
	HistoryCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchChain(_ context.Context, symbol model.Symbol) (*model.OptionChain, error) {
	m.ChainCalls++
	if m.ChainErr != nil {
		return nil, m.ChainErr
	}
	if m.Chain != nil {
		return m.Chain, nil
	}
	return generateMockChain(symbol, m.Spot, m.Step), nil
}

func (m *MockFetcher) FetchHistory(_ context.Context, _ model.Symbol, start, end time.Time) ([]model.OHLCV, error) {
	m.HistoryCalls++
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	if m.History != nil {
		return m.History, nil
	}
	return generateMockBars(m.Spot, start, end), nil
}

// generateMockChain lays strikes every step from 70% to 130% of spot for the
// next two weekly expiries.
func generateMockChain(symbol model.Symbol, spot, step float64) *model.OptionChain {
	if step <= 0 {
		step = 50
	}
	now := time.Now().UTC().Truncate(24 * time.Hour)
	expiries := []time.Time{now.AddDate(0, 0, 7), now.AddDate(0, 0, 14)}
	chain := &model.OptionChain{Symbol: symbol, Spot: spot, Expiries: expiries, FetchedAt: time.Now()}

	first := math.Floor(spot*0.7/step) * step
	for _, exp := range expiries {
		for k := first; k <= spot*1.3; k += step {
			chain.Records = append(chain.Records, model.OptionRecord{
				StrikePrice: k,
				Expiry:      exp,
				Call:        &model.QuoteSide{LastPrice: math.Max(spot-k, 0) + 5, OpenInterest: 1000},
				Put:         &model.QuoteSide{LastPrice: math.Max(k-spot, 0) + 5, OpenInterest: 1000},
			})
		}
	}
	return chain
}

func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	if bars == nil {
		bars = []model.OHLCV{}
	}
	return bars
}
