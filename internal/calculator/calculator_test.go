package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/model"
)

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-12)

	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestSMASeries(t *testing.T) {
	out := SMASeries([]float64{2, 4, 6, 8}, 2)
	require.Len(t, out, 4)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, []float64{3, 5, 7}, out[1:])
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	v, err := RSI(rising, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	_, err = RSI(rising[:10], 14)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Alternating +1/-1 moves balance out.
	flat := make([]float64, 31)
	for i := range flat {
		flat[i] = 100 + float64(i%2)
	}
	v, err = RSI(flat, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, v, 5.0)
}

func TestCloseRangeAndPosition(t *testing.T) {
	high, low, err := CloseRange([]float64{10, 14, 9, 12})
	require.NoError(t, err)
	assert.Equal(t, 14.0, high)
	assert.Equal(t, 9.0, low)

	pos, err := Position(12, high, low)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, pos, 1e-12)

	pos, _ = Position(5, 5, 5)
	assert.Equal(t, 0.5, pos)
	_, err = Position(5, 1, 2)
	assert.Error(t, err)

	_, _, err = CloseRange(nil)
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	s := &model.PriceSeries{Symbol: "AAPL"}
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		s.Points = append(s.Points, model.PricePoint{Date: d.AddDate(0, 0, i), Close: float64(100 + i)})
	}
	m, err := Metrics(s)
	require.NoError(t, err)
	assert.Equal(t, 159.0, m.LastClose)
	assert.InDelta(t, 1.0/158*100, m.DailyChangePct, 1e-9)
	assert.Equal(t, 159.0, m.PeriodHigh)
	assert.Equal(t, 100.0, m.PeriodLow)
	assert.InDelta(t, 134.5, m.MA50, 1e-9)
	assert.Zero(t, m.MA200)
	require.NotNil(t, m.RSI14)
	assert.Equal(t, 100.0, *m.RSI14)
	assert.Equal(t, 1.0, m.Position)
}

func TestMetrics_ShortRangeHasNoRSI(t *testing.T) {
	s := &model.PriceSeries{Symbol: "AAPL"}
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		s.Points = append(s.Points, model.PricePoint{Date: d.AddDate(0, 0, i), Close: float64(100 + i%3)})
	}
	m, err := Metrics(s)
	require.NoError(t, err)
	assert.Nil(t, m.RSI14)
	assert.Equal(t, 100.0, m.LastClose)
}
