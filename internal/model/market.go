package model

import "time"

// OHLCV represents a single daily candlestick bar as returned by a fetcher.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one trading day of the closing-price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is the ordered closing-price history of a symbol.
// Dates are strictly increasing and unique.
type PriceSeries struct {
	Symbol    string       `json:"symbol"`
	Points    []PricePoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Len returns the number of trading days in the series.
func (s *PriceSeries) Len() int { return len(s.Points) }

// Closes returns the closing prices in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent point. It panics on an empty series.
func (s *PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }
