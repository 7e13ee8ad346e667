package calculator

import (
	"testing"

	"StrikeBand/internal/model"
)

func TestSummarizeHistory(t *testing.T) {
	bars := []model.OHLCV{
		{Open: 100, High: 105, Low: 98, Close: 104},
		{Open: 104, High: 110, Low: 101, Close: 108},
		{Open: 108, High: 109, Low: 95, Close: 110},
	}
	sum, err := SummarizeHistory(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.High != 110 || sum.Low != 95 {
		t.Errorf("expected high 110 low 95, got %v %v", sum.High, sum.Low)
	}
	if sum.ChangePct != 10 {
		t.Errorf("expected change 10%%, got %v", sum.ChangePct)
	}
	if sum.Days != 3 {
		t.Errorf("expected 3 days, got %d", sum.Days)
	}
}

func TestSummarizeHistory_Empty(t *testing.T) {
	if _, err := SummarizeHistory(nil); err == nil {
		t.Error("expected error for empty bars")
	}
}
