package calculator

import (
	"errors"
	"math"
)

// SMA computes the simple moving average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the rolling simple moving average aligned with prices.
// Positions before the first full window are NaN so the series can be
// plotted against the same dates.
func SMASeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if period > 0 && i >= period {
			sum -= prices[i-period]
		}
		if period <= 0 || i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// MA50 is SMA(prices, 50), or 0 when the series is too short.
func MA50(prices []float64) float64 {
	v, _ := SMA(prices, 50)
	return v
}

// MA200 is SMA(prices, 200), or 0 when the series is too short.
func MA200(prices []float64) float64 {
	v, _ := SMA(prices, 200)
	return v
}
