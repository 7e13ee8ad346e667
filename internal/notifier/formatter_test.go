package notifier

import (
	"strings"
	"testing"
	"time"

	"StrikeBand/internal/model"
)

func TestFormatReport_Full(t *testing.T) {
	spot := 1000.0
	exp := time.Date(2026, 10, 27, 0, 0, 0, 0, time.UTC)
	rep := &model.Report{
		Symbol: "RELIANCE",
		Start:  time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Spot:   &spot,
		Expiry: &exp,
		Band:   &model.StrikeBand{Spot: 1000, Pct: 10, Lower: 900, Upper: 1100},
		Calls:  []model.SideRow{{StrikePrice: 950, QuoteSide: model.QuoteSide{LastPrice: 61, OpenInterest: 1200}}},
		Puts:   []model.SideRow{{StrikePrice: 950, QuoteSide: model.QuoteSide{LastPrice: 9.4}}},
		HistorySummary: &model.HistorySummary{
			High: 1010, Low: 950, FirstOpen: 960, LastClose: 1000, ChangePct: 4.17, Days: 21,
		},
	}
	out := FormatReport(rep)
	for _, want := range []string{
		"<b>RELIANCE</b>", "Spot Price: 1000.00", "Expiry: 27-Oct-2026",
		"900.00 – 1100.00", "<b>Calls</b>", "<b>Puts</b>", "950.00", "(+4.17%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatReport_NoticesOnly(t *testing.T) {
	rep := &model.Report{Symbol: "TCS"}
	rep.AddNotice(model.NoticeError, model.CodeChainFetchFailed, "Could not fetch option chain for TCS: <timeout>")
	rep.AddNotice(model.NoticeWarning, "", "No price history")
	out := FormatReport(rep)
	if strings.Contains(out, "Spot Price") {
		t.Errorf("unexpected spot line without chain:\n%s", out)
	}
	if !strings.Contains(out, "❌ Could not fetch option chain for TCS: &lt;timeout&gt;") {
		t.Errorf("expected escaped error notice:\n%s", out)
	}
	if !strings.Contains(out, "⚠️ No price history") {
		t.Errorf("expected warning notice:\n%s", out)
	}
}

func TestFormatReport_Truncates(t *testing.T) {
	rep := &model.Report{Symbol: "NIFTY"}
	for i := 0; i < maxTableRows+5; i++ {
		rep.Strikes = append(rep.Strikes, model.SimulatedStrike{StrikePrice: float64(i)})
	}
	if out := FormatReport(rep); !strings.Contains(out, "… 5 more") {
		t.Errorf("expected truncation marker:\n%s", out)
	}
}

func TestFormatBand(t *testing.T) {
	out := FormatBand(model.StrikeBand{Spot: 1000, Pct: 10, Lower: 900, Upper: 1100}, 50, []float64{900, 950, 1000, 1050, 1100})
	if !strings.Contains(out, "900.00, 950.00, 1000.00, 1050.00, 1100.00") {
		t.Errorf("unexpected band output:\n%s", out)
	}
}
