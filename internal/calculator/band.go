package calculator

import (
	"math"
	"time"

	"StrikeBand/internal/model"

	"github.com/shopspring/decimal"
)

const (
	DefaultPct       = 10.0
	DefaultIncrement = 50.0

	// maxStrikes bounds GenerateStrikes output for tiny increments.
	maxStrikes = 10000

	simulatedCallFactor = 1.1
	simulatedPutFactor  = 0.9
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

func validFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ComputeBand returns the inclusive band spot*(1-pct/100) .. spot*(1+pct/100).
func ComputeBand(spot, pct float64) (model.StrikeBand, error) {
	if !validFinite(spot, pct) {
		return model.StrikeBand{}, model.InvalidParameter("spot and pct must be finite")
	}
	if spot <= 0 {
		return model.StrikeBand{}, model.InvalidParameter("spot price must be positive, got %v", spot)
	}
	if pct < 0 {
		return model.StrikeBand{}, model.InvalidParameter("pct must be >= 0, got %v", pct)
	}

	s := decimal.NewFromFloat(spot)
	frac := decimal.NewFromFloat(pct).Div(hundred)
	lower, _ := s.Mul(decimal.NewFromInt(1).Sub(frac)).Float64()
	upper, _ := s.Mul(decimal.NewFromInt(1).Add(frac)).Float64()

	return model.StrikeBand{Spot: spot, Pct: pct, Lower: lower, Upper: upper}, nil
}

// GenerateStrikes lists candidate strikes from the lower bound up to the upper
// bound in steps of increment. Values are rounded to 2 decimal places, start at
// the lower bound rounded up and never pass the upper bound rounded down, so
// every value stays inside the band. The result is strictly increasing.
func GenerateStrikes(spot, pct, increment float64) ([]float64, error) {
	if !validFinite(increment) || increment <= 0 {
		return nil, model.InvalidParameter("increment must be positive, got %v", increment)
	}
	band, err := ComputeBand(spot, pct)
	if err != nil {
		return nil, err
	}

	lo := decimal.NewFromFloat(band.Lower).RoundCeil(2)
	hi := decimal.NewFromFloat(band.Upper).RoundFloor(2)
	if lo.GreaterThan(hi) {
		return []float64{}, nil
	}
	step := decimal.NewFromFloat(increment)

	steps := hi.Sub(lo).Div(step).Floor()
	if steps.GreaterThanOrEqual(decimal.NewFromInt(maxStrikes)) {
		return nil, model.InvalidParameter("increment %v yields %s strikes, limit is %d",
			increment, steps.Add(decimal.NewFromInt(1)).String(), maxStrikes)
	}
	n := steps.IntPart() + 1

	strikes := make([]float64, 0, n)
	for i := int64(0); i < n; i++ {
		v := lo.Add(step.Mul(decimal.NewFromInt(i)))
		if v.GreaterThan(hi) {
			break
		}
		f, _ := v.Round(2).Float64()
		if len(strikes) > 0 && f <= strikes[len(strikes)-1] {
			continue
		}
		strikes = append(strikes, f)
	}
	return strikes, nil
}

// FilterOptionsByBand keeps the records whose strike lies in the band, in order.
func FilterOptionsByBand(records []model.OptionRecord, band model.StrikeBand) []model.OptionRecord {
	out := make([]model.OptionRecord, 0, len(records))
	for _, r := range records {
		if band.Contains(r.StrikePrice) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByExpiry keeps the records expiring on the same calendar day as expiry.
func FilterByExpiry(records []model.OptionRecord, expiry time.Time) []model.OptionRecord {
	y, m, d := expiry.Date()
	out := make([]model.OptionRecord, 0, len(records))
	for _, r := range records {
		ry, rm, rd := r.Expiry.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// SplitSides flattens records into call rows and put rows, skipping absent sides.
func SplitSides(records []model.OptionRecord) (calls, puts []model.SideRow) {
	calls = make([]model.SideRow, 0, len(records))
	puts = make([]model.SideRow, 0, len(records))
	for _, r := range records {
		if r.Call != nil {
			calls = append(calls, model.SideRow{StrikePrice: r.StrikePrice, QuoteSide: *r.Call})
		}
		if r.Put != nil {
			puts = append(puts, model.SideRow{StrikePrice: r.StrikePrice, QuoteSide: *r.Put})
		}
	}
	return calls, puts
}

// SimulateQuotes attaches placeholder call/put values (spot*1.1 and spot*0.9)
// to generated strikes.
// TODO: replace with per-strike prices once a pricing source is chosen.
func SimulateQuotes(spot float64, strikes []float64) []model.SimulatedStrike {
	call := Round2(spot * simulatedCallFactor)
	put := Round2(spot * simulatedPutFactor)
	out := make([]model.SimulatedStrike, len(strikes))
	for i, k := range strikes {
		out[i] = model.SimulatedStrike{StrikePrice: k, CallValue: call, PutValue: put}
	}
	return out
}
