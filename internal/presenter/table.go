package presenter

import (
	"time"

	"StockCast/internal/model"
)

// Table is a rendered grid of strings.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewForecastTable lists each forecast date with its predicted price.
func NewForecastTable(fc *model.ForecastSeries) Table {
	t := Table{Columns: []string{"Date", "Forecast"}, Rows: make([][]string, fc.Len())}
	for i, p := range fc.Points {
		t.Rows[i] = []string{p.Date.Format(time.DateOnly), Price(p.Price)}
	}
	return t
}

// NewFundamentalsTable summarises the headline valuation figures.
func NewFundamentalsTable(p *model.CompanyProfile) Table {
	t := Table{Columns: []string{"Metric", "Value"}}
	if p == nil {
		return t
	}
	t.Rows = [][]string{
		{"Market Cap", MarketCap(p.MarketCap)},
		{"P/E Ratio", Ratio(p.TrailingPE)},
		{"Dividend Yield", Percent(p.DividendYield * 100)},
	}
	return t
}
