package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"StrikeBand/internal/calculator"
	"StrikeBand/internal/catalog"
	"StrikeBand/internal/model"

	"github.com/google/uuid"
)

// Options controls band computation and history defaults.
type Options struct {
	Pct          float64
	Increment    float64
	Simulate     bool // placeholder call/put values over generated strikes
	LookbackDays int
}

// Request is one user action: a symbol and an optional date range.
type Request struct {
	Symbol model.Symbol
	Start  time.Time
	End    time.Time
}

// Collector runs the fetch, band and history stages for one request.
type Collector struct {
	Chain   ChainFetcher
	History HistoryFetcher
	Catalog *catalog.Catalog
	Options Options
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(chain ChainFetcher, history HistoryFetcher, cat *catalog.Catalog, opts Options) *Collector {
	if opts.Increment == 0 {
		opts.Increment = calculator.DefaultIncrement
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 30
	}
	return &Collector{Chain: chain, History: history, Catalog: cat, Options: opts, Now: time.Now}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize fills default dates and validates the request. It never fetches.
func (c *Collector) Normalize(req Request) (Request, error) {
	if req.Symbol == "" {
		return req, model.InvalidParameter("symbol is required")
	}
	if c.Catalog != nil && !c.Catalog.Contains(req.Symbol) {
		return req, model.InvalidParameter("unknown symbol %q", req.Symbol)
	}
	if c.Options.Pct < 0 {
		return req, model.InvalidParameter("pct must be >= 0, got %v", c.Options.Pct)
	}
	if c.Options.Increment <= 0 {
		return req, model.InvalidParameter("increment must be positive, got %v", c.Options.Increment)
	}

	today := dateOnly(c.Now())
	if req.End.IsZero() {
		req.End = today
	}
	req.End = dateOnly(req.End)
	if req.Start.IsZero() {
		req.Start = req.End.AddDate(0, 0, -c.Options.LookbackDays)
	}
	req.Start = dateOnly(req.Start)

	if req.Start.After(req.End) {
		return req, model.InvalidParameter("start date %s is after end date %s",
			req.Start.Format(time.DateOnly), req.End.Format(time.DateOnly))
	}
	if req.End.After(today) {
		return req, model.InvalidParameter("end date %s is in the future", req.End.Format(time.DateOnly))
	}
	return req, nil
}

// Collect runs the pipeline. Only an InvalidParameter error is returned;
// fetch failures and empty results are reported as notices on the Report.
func (c *Collector) Collect(ctx context.Context, req Request) (*model.Report, error) {
	req, err := c.Normalize(req)
	if err != nil {
		return nil, err
	}

	rep := &model.Report{
		RunID:     uuid.NewString(),
		Symbol:    req.Symbol,
		Start:     req.Start,
		End:       req.End,
		Simulated: c.Options.Simulate,
	}
	log.Printf("[INFO] run %s: collecting %s (%s..%s)", rep.RunID, req.Symbol,
		req.Start.Format(time.DateOnly), req.End.Format(time.DateOnly))

	c.collectChain(ctx, rep)
	c.collectHistory(ctx, rep)

	rep.GeneratedAt = c.Now()
	return rep, nil
}

func (c *Collector) collectChain(ctx context.Context, rep *model.Report) {
	chain, err := c.Chain.FetchChain(ctx, rep.Symbol)
	if err != nil {
		code := model.CodeChainFetchFailed
		if model.HasCode(err, model.CodeSpotFetchFailed) {
			code = model.CodeSpotFetchFailed
		}
		log.Printf("[WARN] run %s: %s chain fetch failed: %v", rep.RunID, c.Chain.Name(), err)
		rep.AddNotice(model.NoticeError, code, fmt.Sprintf("Could not fetch option chain for %s: %v", rep.Symbol, err))
		return
	}
	if chain == nil || chain.Spot <= 0 {
		rep.AddNotice(model.NoticeError, model.CodeSpotFetchFailed, fmt.Sprintf("No spot price available for %s", rep.Symbol))
		return
	}

	spot := chain.Spot
	rep.Spot = &spot
	if exp, ok := chain.NearestExpiry(); ok {
		rep.Expiry = &exp
	}

	band, err := calculator.ComputeBand(spot, c.Options.Pct)
	if err != nil {
		rep.AddNotice(model.NoticeError, model.CodeInvalidParameter, err.Error())
		return
	}
	rep.Band = &band

	if c.Options.Simulate {
		strikes, err := calculator.GenerateStrikes(spot, c.Options.Pct, c.Options.Increment)
		if err != nil {
			rep.AddNotice(model.NoticeError, model.CodeInvalidParameter, err.Error())
			return
		}
		rep.Strikes = calculator.SimulateQuotes(spot, strikes)
		rep.AddNotice(model.NoticeInfo, "", "Call/put values are simulated placeholders (spot ×1.1 / ×0.9)")
		if len(rep.Strikes) == 0 {
			rep.AddNotice(model.NoticeInfo, "", "No strikes fall inside the band")
		}
		return
	}

	records := chain.Records
	if rep.Expiry != nil {
		records = calculator.FilterByExpiry(records, *rep.Expiry)
	}
	records = calculator.FilterOptionsByBand(records, band)
	rep.Calls, rep.Puts = calculator.SplitSides(records)
	if len(records) == 0 {
		rep.AddNotice(model.NoticeInfo, "", fmt.Sprintf("No strikes within ±%g%% of spot %.2f", c.Options.Pct, spot))
	}
}

func (c *Collector) collectHistory(ctx context.Context, rep *model.Report) {
	bars, err := c.History.FetchHistory(ctx, rep.Symbol, rep.Start, rep.End)
	if err != nil {
		log.Printf("[WARN] run %s: %s history fetch failed: %v", rep.RunID, c.History.Name(), err)
		rep.HistoryOutcome = model.HistoryFailed
		rep.AddNotice(model.NoticeError, model.CodeOHLCFetchFailed,
			fmt.Sprintf("Could not fetch price history for %s: %v", rep.Symbol, err))
		return
	}
	if len(bars) == 0 {
		rep.HistoryOutcome = model.HistoryEmpty
		rep.History = []model.OHLCV{}
		rep.AddNotice(model.NoticeWarning, "", fmt.Sprintf("No price history for %s between %s and %s",
			rep.Symbol, rep.Start.Format(time.DateOnly), rep.End.Format(time.DateOnly)))
		return
	}

	rep.HistoryOutcome = model.HistoryOK
	rep.History = bars
	if sum, err := calculator.SummarizeHistory(bars); err == nil {
		rep.HistorySummary = &sum
	}
}
