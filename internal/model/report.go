package model

import "time"

// NoticeLevel classifies a user-visible message.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown to the user instead of failing the request.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
}

// HistoryOutcome tells apart an empty history from a failed fetch.
type HistoryOutcome string

const (
	HistoryOK     HistoryOutcome = "ok"
	HistoryEmpty  HistoryOutcome = "empty"
	HistoryFailed HistoryOutcome = "failed"
)

// Report is everything one fetch-and-render cycle produces.
type Report struct {
	RunID     string    `json:"run_id"`
	Symbol    Symbol    `json:"symbol"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Simulated bool      `json:"simulated"`

	// Spot is nil when the chain fetch failed.
	Spot   *float64    `json:"spot,omitempty"`
	Expiry *time.Time  `json:"expiry,omitempty"`
	Band   *StrikeBand `json:"band,omitempty"`

	Calls   []SideRow         `json:"calls,omitempty"`
	Puts    []SideRow         `json:"puts,omitempty"`
	Strikes []SimulatedStrike `json:"strikes,omitempty"`

	History        []OHLCV         `json:"history,omitempty"`
	HistorySummary *HistorySummary `json:"history_summary,omitempty"`
	HistoryOutcome HistoryOutcome  `json:"history_outcome"`

	Notices     []Notice  `json:"notices"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AddNotice appends a user-visible message.
func (r *Report) AddNotice(level NoticeLevel, code, msg string) {
	r.Notices = append(r.Notices, Notice{Level: level, Code: code, Message: msg})
}

// HasChain reports whether the chain stage produced data.
func (r *Report) HasChain() bool { return r.Spot != nil }
