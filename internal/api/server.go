package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StrikeBand/internal/calculator"
	"StrikeBand/internal/collector"
	"StrikeBand/internal/model"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewServer mounts the dashboard page and the JSON API on one router.
func NewServer(col *collector.Collector) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(zstdCompress)

	api := humachi.New(router, huma.DefaultConfig("StrikeBand API", "1.0.0"))

	router.Get("/", dashboardHandler(col))

	registerHandlers(api, col)
	return router
}

type symbolsOutput struct {
	Body struct {
		Symbols []model.Symbol `json:"symbols"`
	}
}

type optionsInput struct {
	Symbol string `path:"symbol" doc:"Catalog symbol, case-insensitive"`
	Start  string `query:"start" doc:"Start date (YYYY-MM-DD). Defaults to end minus the lookback."`
	End    string `query:"end" doc:"End date (YYYY-MM-DD). Defaults to today."`
}

type optionsOutput struct {
	Body *model.Report
}

type bandInput struct {
	Spot      float64 `query:"spot" required:"true" doc:"Spot price"`
	Pct       string  `query:"pct" doc:"Band half-width in percent. Defaults to the configured value."`
	Increment string  `query:"increment" doc:"Strike spacing. Defaults to the configured value."`
}

type bandOutput struct {
	Body struct {
		Band      model.StrikeBand `json:"band"`
		Increment float64          `json:"increment"`
		Strikes   []float64        `json:"strikes"`
	}
}

type healthOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

func registerHandlers(api huma.API, col *collector.Collector) {
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/healthz", Summary: "Health check", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body.Status = "ok"
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "list-symbols", Method: http.MethodGet, Path: "/api/v1/symbols", Summary: "List catalog symbols", Tags: []string{"Catalog"}},
		func(ctx context.Context, input *struct{}) (*symbolsOutput, error) {
			out := &symbolsOutput{}
			out.Body.Symbols = []model.Symbol{}
			if col.Catalog != nil {
				out.Body.Symbols = col.Catalog.Symbols
			}
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-options", Method: http.MethodGet, Path: "/api/v1/options/{symbol}", Summary: "Banded option chain and price history", Tags: []string{"Options"}},
		func(ctx context.Context, input *optionsInput) (*optionsOutput, error) {
			req, err := parseRequest(input.Symbol, input.Start, input.End)
			if err != nil {
				return nil, mapErr(err)
			}
			rep, err := col.Collect(ctx, req)
			if err != nil {
				return nil, mapErr(err)
			}
			return &optionsOutput{Body: rep}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-band", Method: http.MethodGet, Path: "/api/v1/band", Summary: "Strike band and generated strikes", Tags: []string{"Options"}},
		func(ctx context.Context, input *bandInput) (*bandOutput, error) {
			pct, err := optionalFloat("pct", input.Pct, col.Options.Pct)
			if err != nil {
				return nil, mapErr(err)
			}
			inc, err := optionalFloat("increment", input.Increment, col.Options.Increment)
			if err != nil {
				return nil, mapErr(err)
			}
			band, err := calculator.ComputeBand(input.Spot, pct)
			if err != nil {
				return nil, mapErr(err)
			}
			strikes, err := calculator.GenerateStrikes(input.Spot, pct, inc)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &bandOutput{}
			out.Body.Band = band
			out.Body.Increment = inc
			out.Body.Strikes = strikes
			return out, nil
		})
}

// parseRequest turns raw user input into a collector request. Empty dates
// are left zero so the collector applies its defaults.
func parseRequest(symbol, start, end string) (collector.Request, error) {
	req := collector.Request{Symbol: model.Symbol(strings.ToUpper(strings.TrimSpace(symbol)))}
	var err error
	if start = strings.TrimSpace(start); start != "" {
		if req.Start, err = time.Parse(time.DateOnly, start); err != nil {
			return req, model.InvalidParameter("start date %q is not YYYY-MM-DD", start)
		}
	}
	if end = strings.TrimSpace(end); end != "" {
		if req.End, err = time.Parse(time.DateOnly, end); err != nil {
			return req, model.InvalidParameter("end date %q is not YYYY-MM-DD", end)
		}
	}
	return req, nil
}

func optionalFloat(name, raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, model.InvalidParameter("%s %q is not a number", name, raw)
	}
	return v, nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *model.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case model.CodeInvalidParameter:
			return huma.Error400BadRequest(coded.Message)
		case model.CodeCatalogUnavailable:
			return huma.Error503ServiceUnavailable(coded.Message)
		case model.CodeSpotFetchFailed, model.CodeChainFetchFailed, model.CodeOHLCFetchFailed:
			return huma.Error502BadGateway(coded.Message)
		default:
			return huma.Error500InternalServerError(fmt.Sprintf("%s: %s", coded.Code, coded.Message))
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
