package model

import "time"

// Symbol is an exchange ticker as listed in the catalog.
type Symbol string

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// HistorySummary condenses a run of daily bars.
type HistorySummary struct {
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	FirstOpen float64 `json:"first_open"`
	LastClose float64 `json:"last_close"`
	ChangePct float64 `json:"change_pct"`
	Days      int     `json:"days"`
}
