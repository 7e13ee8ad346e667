package api

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"StrikeBand/internal/collector"
	"StrikeBand/internal/model"
)

type dashboardView struct {
	Symbols  []model.Symbol
	Selected model.Symbol
	Start    string
	End      string
	Error    string
	Report   *model.Report
}

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"deref": func(v *float64) float64 { return *v },
	"day":   func(t time.Time) string { return t.Format(time.DateOnly) },
	"expiry": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02-Jan-2006")
	},
}).Parse(dashboardHTML))

func dashboardHandler(col *collector.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		view := dashboardView{
			Selected: model.Symbol(q.Get("symbol")),
			Start:    q.Get("start"),
			End:      q.Get("end"),
		}
		if col.Catalog != nil {
			view.Symbols = col.Catalog.Symbols
		}

		status := http.StatusOK
		if view.Selected != "" {
			req, err := parseRequest(q.Get("symbol"), view.Start, view.End)
			if err == nil {
				view.Report, err = col.Collect(r.Context(), req)
			}
			if err != nil {
				view.Error = err.Error()
				status = http.StatusBadRequest
			} else {
				view.Selected = view.Report.Symbol
				view.Start = view.Report.Start.Format(time.DateOnly)
				view.End = view.Report.End.Format(time.DateOnly)
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := dashboardTmpl.Execute(w, view); err != nil {
			log.Printf("[ERROR] render dashboard: %v", err)
		}
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Options Data Viewer</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 240px; padding: 1rem; background: #f0f2f6; min-height: 100vh; }
aside label { display: block; margin-top: .8rem; font-size: .9rem; }
aside select, aside input, aside button { width: 100%; margin-top: .3rem; }
aside button { margin-top: 1.2rem; padding: .4rem; }
main { flex: 1; padding: 1rem 2rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ddd; padding: .25rem .6rem; text-align: right; }
.notice { padding: .5rem .8rem; margin: .4rem 0; border-radius: 4px; }
.info { background: #e7f1fb; } .warning { background: #fff4d6; } .error { background: #fde2e2; }
</style>
</head>
<body>
<aside>
<h3>Select Options</h3>
<form method="get" action="/">
<label for="symbol">Select a stock symbol</label>
<select id="symbol" name="symbol">
{{- range .Symbols}}
<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
<label for="start">Start Date</label>
<input type="date" id="start" name="start" value="{{.Start}}">
<label for="end">End Date</label>
<input type="date" id="end" name="end" value="{{.End}}">
<button type="submit">Fetch Options Data</button>
</form>
</aside>
<main>
<h1>Options Data Viewer</h1>
{{- if .Error}}
<div class="notice error">{{.Error}}</div>
{{- end}}
{{- with .Report}}
<h2>Options Data for {{.Symbol}}</h2>
{{- if .Spot}}
<p>Spot Price: {{price (deref .Spot)}}{{if .Expiry}} | Expiry: {{expiry .Expiry}}{{end}}</p>
{{- end}}
{{- if .Band}}
<p>Strike range: {{price .Band.Lower}} to {{price .Band.Upper}} ({{.Band.Pct}}%)</p>
{{- end}}
{{- range .Notices}}
<div class="notice {{.Level}}">{{.Message}}</div>
{{- end}}
{{- if .Strikes}}
<h3>Simulated Strikes</h3>
<table>
<tr><th>Strike Price</th><th>Call Value</th><th>Put Value</th></tr>
{{- range .Strikes}}
<tr><td>{{price .StrikePrice}}</td><td>{{price .CallValue}}</td><td>{{price .PutValue}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- if .Calls}}
<h3>Call Options</h3>
{{template "side" .Calls}}
{{- end}}
{{- if .Puts}}
<h3>Put Options</h3>
{{template "side" .Puts}}
{{- end}}
{{- if .History}}
<h3>Historical Data ({{day .Start}} to {{day .End}})</h3>
<table>
<tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th><th>Volume</th></tr>
{{- range .History}}
<tr><td>{{day .Time}}</td><td>{{price .Open}}</td><td>{{price .High}}</td><td>{{price .Low}}</td><td>{{price .Close}}</td><td>{{printf "%.0f" .Volume}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- with .HistorySummary}}
<p>High: {{price .High}} | Low: {{price .Low}} | Open: {{price .FirstOpen}} | Close: {{price .LastClose}} ({{printf "%+.2f" .ChangePct}}%) over {{.Days}} days</p>
{{- end}}
{{- end}}
</main>
</body>
</html>
{{define "side"}}<table>
<tr><th>Strike</th><th>LTP</th><th>OI</th><th>Chg OI</th><th>IV</th><th>Volume</th></tr>
{{- range .}}
<tr><td>{{price .StrikePrice}}</td><td>{{price .LastPrice}}</td><td>{{printf "%.0f" .OpenInterest}}</td><td>{{printf "%.0f" .ChangeInOpenInterest}}</td><td>{{price .ImpliedVolatility}}</td><td>{{printf "%.0f" .TotalTradedVolume}}</td></tr>
{{- end}}
</table>{{end}}`
