package model

import "time"

// QuoteSide is one side (CE or PE) of a strike in the option chain.
type QuoteSide struct {
	LastPrice            float64 `json:"last_price"`
	OpenInterest         float64 `json:"open_interest"`
	ChangeInOpenInterest float64 `json:"change_in_open_interest"`
	ImpliedVolatility    float64 `json:"implied_volatility"`
	TotalTradedVolume    float64 `json:"total_traded_volume"`
}

// OptionRecord is a single strike row. Either side may be absent.
type OptionRecord struct {
	StrikePrice float64    `json:"strike_price"`
	Expiry      time.Time  `json:"expiry"`
	Call        *QuoteSide `json:"call,omitempty"`
	Put         *QuoteSide `json:"put,omitempty"`
}

// OptionChain is the result of one chain fetch for a symbol.
type OptionChain struct {
	Symbol    Symbol         `json:"symbol"`
	Spot      float64        `json:"spot"`
	Expiries  []time.Time    `json:"expiries"` // nearest first
	Records   []OptionRecord `json:"records"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// NearestExpiry returns the first listed expiry.
func (c *OptionChain) NearestExpiry() (time.Time, bool) {
	if c == nil || len(c.Expiries) == 0 {
		return time.Time{}, false
	}
	return c.Expiries[0], true
}

// StrikeBand is the inclusive price band around a spot price.
type StrikeBand struct {
	Spot  float64 `json:"spot"`
	Pct   float64 `json:"pct"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether price lies inside the band, bounds included.
func (b StrikeBand) Contains(price float64) bool {
	return price >= b.Lower && price <= b.Upper
}

// SideRow is a flattened call or put quote with its strike, used for tables.
type SideRow struct {
	StrikePrice float64 `json:"strike_price"`
	QuoteSide
}

// SimulatedStrike is a generated strike with placeholder call/put values.
type SimulatedStrike struct {
	StrikePrice float64 `json:"strike_price"`
	CallValue   float64 `json:"call_value"`
	PutValue    float64 `json:"put_value"`
}
