package model

import "time"

// ForecastPoint is a predicted closing price for one future business day.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ForecastSeries is the ordered output of a forecast run.
type ForecastSeries struct {
	Symbol string          `json:"symbol"`
	Points []ForecastPoint `json:"points"`
}

// Len returns the number of forecast points.
func (f *ForecastSeries) Len() int { return len(f.Points) }
