package presenter

import (
	"fmt"
	"strings"
	"time"

	"StockCast/internal/analysis"
	"StockCast/internal/predictor"
)

// ForecastMarkdown renders a forecast result as a Markdown report.
func ForecastMarkdown(res *predictor.Result) string {
	var b strings.Builder
	last := res.History.Last()

	fmt.Fprintf(&b, "# %s forecast\n\n", res.Request.Symbol)
	fmt.Fprintf(&b, "Trained on **%d** closes from %s to %s (source: %s).\n\n",
		res.History.Len(), res.History.Points[0].Date.Format(time.DateOnly),
		last.Date.Format(time.DateOnly), res.Source)

	b.WriteString("## Model\n\n")
	fmt.Fprintf(&b, "- Order: %s\n", res.Model.Order)
	fmt.Fprintf(&b, "- Last close: %s\n", Price(last.Close))
	fmt.Fprintf(&b, "- Residual variance: %s\n", Ratio(res.Model.Sigma2))
	fmt.Fprintf(&b, "- AIC: %s\n\n", Ratio(res.Model.AIC))

	fmt.Fprintf(&b, "## Next %d business days\n\n", res.Forecast.Len())
	writeTable(&b, NewForecastTable(res.Forecast))
	return b.String()
}

// AnalysisMarkdown renders an analysis report for the terminal.
func AnalysisMarkdown(rep *analysis.Report, now time.Time) string {
	var b strings.Builder
	m := rep.Metrics

	title := rep.Symbol
	if rep.Profile != nil && rep.Profile.Name != "" {
		title = rep.Profile.Name + " (" + rep.Symbol + ")"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%s to %s, %d trading days.\n\n",
		rep.Start.Format(time.DateOnly), rep.End.Format(time.DateOnly), rep.History.Len())

	if p := rep.Profile; p != nil {
		b.WriteString("## Company\n\n")
		fmt.Fprintf(&b, "- Sector: %s\n", Text(p.Sector))
		fmt.Fprintf(&b, "- Industry: %s\n", Text(p.Industry))
		fmt.Fprintf(&b, "- Employees: %s\n", Employees(p.Employees))
		fmt.Fprintf(&b, "- Website: %s\n\n", Text(p.Website))
		writeTable(&b, NewFundamentalsTable(p))
	}

	b.WriteString("## Price\n\n")
	writeTable(&b, Table{
		Columns: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Last Close", Price(m.LastClose)},
			{"Daily Change", Change(m.DailyChangePct)},
			{"Period High", Price(m.PeriodHigh)},
			{"Period Low", Price(m.PeriodLow)},
			{"MA50", priceOrNA(m.MA50)},
			{"MA200", priceOrNA(m.MA200)},
			{"RSI(14)", Oscillator(m.RSI14)},
		},
	})

	if len(rep.News) > 0 {
		b.WriteString("## News\n\n")
		for _, n := range rep.News {
			fmt.Fprintf(&b, "- [%s](%s) *%s, %s*\n", n.Title, n.Link, Text(n.Publisher), Age(n.PublishedAt, now))
		}
	}
	return b.String()
}

func priceOrNA(v float64) string {
	if v == 0 {
		return NA
	}
	return Price(v)
}

func writeTable(b *strings.Builder, t Table) {
	b.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(t.Columns)) + "\n")
	for _, row := range t.Rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}
