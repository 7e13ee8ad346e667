package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"time"

	"StrikeBand/internal/model"
)

const nseDateLayout = "02-Jan-2006"

// nseIndices are served by the indices endpoint instead of the equities one.
var nseIndices = map[model.Symbol]bool{
	"NIFTY":      true,
	"BANKNIFTY":  true,
	"FINNIFTY":   true,
	"MIDCPNIFTY": true,
	"NIFTYNXT50": true,
}

// NSEFetcher implements ChainFetcher using the NSE option-chain API.
type NSEFetcher struct {
	BaseURL   string
	Transport http.RoundTripper
	Timeout   time.Duration
}

// NewNSEFetcher creates a new fetcher with optional proxy support.
func NewNSEFetcher(baseURL, proxyURL string) *NSEFetcher {
	if baseURL == "" {
		baseURL = "https://www.nseindia.com"
	}
	return &NSEFetcher{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Transport: newTransport(proxyURL),
		Timeout:   30 * time.Second,
	}
}

func (f *NSEFetcher) Name() string { return "nse" }

type nseSide struct {
	LastPrice            float64 `json:"lastPrice"`
	OpenInterest         float64 `json:"openInterest"`
	ChangeinOpenInterest float64 `json:"changeinOpenInterest"`
	ImpliedVolatility    float64 `json:"impliedVolatility"`
	TotalTradedVolume    float64 `json:"totalTradedVolume"`
}

// nseChain is the response structure from the option-chain endpoints.
type nseChain struct {
	Records struct {
		ExpiryDates     []string `json:"expiryDates"`
		UnderlyingValue float64  `json:"underlyingValue"`
		Data            []struct {
			StrikePrice float64  `json:"strikePrice"`
			ExpiryDate  string   `json:"expiryDate"`
			CE          *nseSide `json:"CE"`
			PE          *nseSide `json:"PE"`
		} `json:"data"`
	} `json:"records"`
}

func (s *nseSide) toModel() *model.QuoteSide {
	if s == nil {
		return nil
	}
	return &model.QuoteSide{
		LastPrice:            s.LastPrice,
		OpenInterest:         s.OpenInterest,
		ChangeInOpenInterest: s.ChangeinOpenInterest,
		ImpliedVolatility:    s.ImpliedVolatility,
		TotalTradedVolume:    s.TotalTradedVolume,
	}
}

func (f *NSEFetcher) chainURL(symbol model.Symbol) string {
	kind := "equities"
	if nseIndices[symbol] {
		kind = "indices"
	}
	return fmt.Sprintf("%s/api/option-chain-%s?symbol=%s", f.BaseURL, kind, url.QueryEscape(string(symbol)))
}

func (f *NSEFetcher) get(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", f.BaseURL+"/option-chain")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

// FetchChain primes session cookies on the landing page and then reads the
// chain. Each call uses a fresh cookie jar.
func (f *NSEFetcher) FetchChain(ctx context.Context, symbol model.Symbol) (*model.OptionChain, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, model.NewError(model.CodeChainFetchFailed, "create cookie jar", err)
	}
	client := &http.Client{Jar: jar, Transport: f.Transport, Timeout: f.Timeout}

	if _, err := f.get(ctx, client, f.BaseURL+"/"); err != nil {
		return nil, model.NewError(model.CodeChainFetchFailed, "nse session", err)
	}
	body, err := f.get(ctx, client, f.chainURL(symbol))
	if err != nil {
		return nil, model.NewError(model.CodeChainFetchFailed, "nse option chain", err)
	}

	var raw nseChain
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, model.NewError(model.CodeChainFetchFailed, "nse decode", err)
	}
	if raw.Records.UnderlyingValue <= 0 {
		return nil, model.NewError(model.CodeSpotFetchFailed, fmt.Sprintf("nse: no underlying value for %s", symbol), nil)
	}

	chain := &model.OptionChain{
		Symbol:    symbol,
		Spot:      raw.Records.UnderlyingValue,
		FetchedAt: time.Now(),
	}
	for _, s := range raw.Records.ExpiryDates {
		t, err := time.Parse(nseDateLayout, s)
		if err != nil {
			return nil, model.NewError(model.CodeChainFetchFailed, "nse expiry date "+s, err)
		}
		chain.Expiries = append(chain.Expiries, t)
	}
	if len(chain.Expiries) == 0 {
		return nil, model.NewError(model.CodeChainFetchFailed, fmt.Sprintf("nse: no expiries for %s", symbol), nil)
	}
	sort.Slice(chain.Expiries, func(i, j int) bool { return chain.Expiries[i].Before(chain.Expiries[j]) })

	chain.Records = make([]model.OptionRecord, 0, len(raw.Records.Data))
	for _, d := range raw.Records.Data {
		exp, err := time.Parse(nseDateLayout, d.ExpiryDate)
		if err != nil {
			// skip rows with an unparseable expiry
			continue
		}
		chain.Records = append(chain.Records, model.OptionRecord{
			StrikePrice: d.StrikePrice,
			Expiry:      exp,
			Call:        d.CE.toModel(),
			Put:         d.PE.toModel(),
		})
	}
	return chain, nil
}
