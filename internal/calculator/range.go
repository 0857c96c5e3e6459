package calculator

import (
	"errors"
	"math"

	"StockCast/internal/model"
)

// CloseRange returns the highest and lowest close in the series.
func CloseRange(closes []float64) (high, low float64, err error) {
	if len(closes) == 0 {
		return 0, 0, errors.New("no prices provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range closes {
		high = math.Max(high, c)
		low = math.Min(low, c)
	}
	return high, low, nil
}

// DailyChangePct is the percentage move between the last two closes.
func DailyChangePct(closes []float64) float64 {
	n := len(closes)
	if n < 2 || closes[n-2] == 0 {
		return 0
	}
	return (closes[n-1] - closes[n-2]) / closes[n-2] * 100
}

// Position returns where the current price sits within [low, high] (0.0~1.0).
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Min(math.Max(pos, 0), 1), nil
}

// Metrics computes the analysis-page summary for a price series.
func Metrics(s *model.PriceSeries) (model.MarketMetrics, error) {
	closes := s.Closes()
	high, low, err := CloseRange(closes)
	if err != nil {
		return model.MarketMetrics{}, err
	}
	var rsi *float64
	switch v, err := RSI(closes, 14); {
	case err == nil:
		rsi = &v
	case !errors.Is(err, ErrInsufficientData):
		return model.MarketMetrics{}, err
	}
	last := closes[len(closes)-1]
	pos, err := Position(last, high, low)
	if err != nil {
		return model.MarketMetrics{}, err
	}
	return model.MarketMetrics{
		LastClose:      last,
		DailyChangePct: DailyChangePct(closes),
		PeriodHigh:     high,
		PeriodLow:      low,
		MA50:           MA50(closes),
		MA200:          MA200(closes),
		RSI14:          rsi,
		Position:       pos,
	}, nil
}
