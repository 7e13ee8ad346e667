package calculator

import (
	"errors"
	"math"

	"StrikeBand/internal/model"
)

// SummarizeHistory scans the bars and returns the period high/low, first open,
// last close and the percentage change from first open to last close.
func SummarizeHistory(bars []model.OHLCV) (model.HistorySummary, error) {
	if len(bars) == 0 {
		return model.HistorySummary{}, errors.New("no daily bars provided")
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	first := bars[0].Open
	last := bars[len(bars)-1].Close
	change := 0.0
	if first != 0 {
		change = Round2((last - first) / first * 100)
	}
	return model.HistorySummary{
		High:      high,
		Low:       low,
		FirstOpen: first,
		LastClose: last,
		ChangePct: change,
		Days:      len(bars),
	}, nil
}
