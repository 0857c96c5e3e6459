// Package presenter turns pipeline results into charts, tables and reports.
// It performs no computation beyond assembling and formatting.
package presenter

import (
	"math"
	"time"

	"StockCast/internal/calculator"
	"StockCast/internal/model"
)

// Series names used on every forecast chart.
const (
	HistoricalSeries = "Historical Price"
	ForecastedSeries = "Forecasted Price"
)

// XY is one dated value of a line series.
type XY struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a named line. Dashed lines mark projected values.
type Series struct {
	Name   string `json:"name"`
	Dashed bool   `json:"dashed"`
	Points []XY   `json:"points"`
}

// Chart is a set of line series sharing a date axis.
type Chart struct {
	Title  string   `json:"title"`
	YLabel string   `json:"y_label"`
	Series []Series `json:"series"`
}

// NewForecastChart overlays the forecast on the historical closes.
func NewForecastChart(history *model.PriceSeries, fc *model.ForecastSeries) Chart {
	hist := Series{Name: HistoricalSeries, Points: make([]XY, history.Len())}
	for i, p := range history.Points {
		hist.Points[i] = XY{Date: p.Date, Value: p.Close}
	}
	pred := Series{Name: ForecastedSeries, Dashed: true, Points: make([]XY, fc.Len())}
	for i, p := range fc.Points {
		pred.Points[i] = XY{Date: p.Date, Value: p.Price}
	}
	return Chart{
		Title:  history.Symbol + " Stock Price Prediction",
		YLabel: "Price",
		Series: []Series{hist, pred},
	}
}

// NewHistoryChart plots the closes together with the 50 and 200 day
// moving averages. Averages are left out while their window is incomplete.
func NewHistoryChart(history *model.PriceSeries) Chart {
	closes := history.Closes()
	c := Chart{
		Title:  history.Symbol + " Closing Price",
		YLabel: "Price",
		Series: []Series{{Name: "Close", Points: make([]XY, len(closes))}},
	}
	for i, p := range history.Points {
		c.Series[0].Points[i] = XY{Date: p.Date, Value: p.Close}
	}
	for _, ma := range []struct {
		name   string
		period int
	}{{"MA50", 50}, {"MA200", 200}} {
		values := calculator.SMASeries(closes, ma.period)
		s := Series{Name: ma.name, Dashed: true}
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			s.Points = append(s.Points, XY{Date: history.Points[i].Date, Value: v})
		}
		if len(s.Points) > 0 {
			c.Series = append(c.Series, s)
		}
	}
	return c
}
