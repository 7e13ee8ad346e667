package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StrikeBand/internal/model"
)

const maxTableRows = 40

// FormatReport formats a pipeline report into a Telegram HTML message.
func FormatReport(rep *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s → %s\n\n", html.EscapeString(string(rep.Symbol)),
		rep.Start.Format(time.DateOnly), rep.End.Format(time.DateOnly)))

	if rep.Spot != nil {
		b.WriteString(fmt.Sprintf("Spot Price: %.2f\n", *rep.Spot))
	}
	if rep.Expiry != nil {
		b.WriteString(fmt.Sprintf("Expiry: %s\n", rep.Expiry.Format("02-Jan-2006")))
	}
	if rep.Band != nil {
		b.WriteString(fmt.Sprintf("Band ±%g%%: %.2f – %.2f\n", rep.Band.Pct, rep.Band.Lower, rep.Band.Upper))
	}

	for _, n := range rep.Notices {
		b.WriteString(fmt.Sprintf("%s %s\n", noticeIcon(n.Level), html.EscapeString(n.Message)))
	}

	if len(rep.Strikes) > 0 {
		b.WriteString("\n<b>Simulated strikes</b>\n<pre>")
		b.WriteString(fmt.Sprintf("%10s %10s %10s\n", "Strike", "Call", "Put"))
		for i, s := range rep.Strikes {
			if i == maxTableRows {
				b.WriteString(fmt.Sprintf("… %d more\n", len(rep.Strikes)-i))
				break
			}
			b.WriteString(fmt.Sprintf("%10.2f %10.2f %10.2f\n", s.StrikePrice, s.CallValue, s.PutValue))
		}
		b.WriteString("</pre>")
	}
	if len(rep.Calls) > 0 {
		b.WriteString("\n<b>Calls</b>\n")
		writeSideTable(&b, rep.Calls)
	}
	if len(rep.Puts) > 0 {
		b.WriteString("\n<b>Puts</b>\n")
		writeSideTable(&b, rep.Puts)
	}

	if s := rep.HistorySummary; s != nil {
		b.WriteString(fmt.Sprintf("\n📈 <b>History</b> (%d days)\n", s.Days))
		b.WriteString(fmt.Sprintf("High: %.2f | Low: %.2f\n", s.High, s.Low))
		b.WriteString(fmt.Sprintf("Open: %.2f → Close: %.2f (%+.2f%%)\n", s.FirstOpen, s.LastClose, s.ChangePct))
	}

	return b.String()
}

func writeSideTable(b *strings.Builder, rows []model.SideRow) {
	b.WriteString("<pre>")
	b.WriteString(fmt.Sprintf("%10s %9s %10s %9s\n", "Strike", "LTP", "OI", "ChgOI"))
	for i, r := range rows {
		if i == maxTableRows {
			b.WriteString(fmt.Sprintf("… %d more\n", len(rows)-i))
			break
		}
		b.WriteString(fmt.Sprintf("%10.2f %9.2f %10.0f %9.0f\n", r.StrikePrice, r.LastPrice, r.OpenInterest, r.ChangeInOpenInterest))
	}
	b.WriteString("</pre>")
}

func noticeIcon(l model.NoticeLevel) string {
	switch l {
	case model.NoticeError:
		return "❌"
	case model.NoticeWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// FormatBand formats a band and its generated strikes.
func FormatBand(band model.StrikeBand, increment float64, strikes []float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📐 <b>Band</b> spot %.2f ±%g%%\n", band.Spot, band.Pct))
	b.WriteString(fmt.Sprintf("Lower: %.2f | Upper: %.2f\n", band.Lower, band.Upper))
	b.WriteString(fmt.Sprintf("Strikes every %g (%d):\n", increment, len(strikes)))
	parts := make([]string, 0, len(strikes))
	for i, k := range strikes {
		if i == maxTableRows {
			parts = append(parts, fmt.Sprintf("… %d more", len(strikes)-i))
			break
		}
		parts = append(parts, fmt.Sprintf("%.2f", k))
	}
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}

// FormatSymbols lists the catalog.
func FormatSymbols(symbols []model.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return fmt.Sprintf("📋 <b>Symbols</b> (%d)\n%s", len(symbols), html.EscapeString(strings.Join(parts, ", ")))
}
