package loader

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/cache"
	"StockCast/internal/collector"
	"StockCast/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	ny := time.FixedZone("EDT", -4*3600)
	bars := []model.OHLCV{
		{Time: time.Date(2024, 6, 4, 9, 30, 0, 0, ny), Close: 11},
		{Time: time.Date(2024, 6, 3, 9, 30, 0, 0, ny), Close: 10},
		{Time: time.Date(2024, 6, 4, 16, 0, 0, 0, ny), Close: 11.5}, // duplicate date, later wins
		{Time: time.Date(2024, 6, 5, 9, 30, 0, 0, ny), Close: math.NaN()},
		{Time: time.Date(2024, 6, 6, 9, 30, 0, 0, ny), Close: 0},
		{Time: time.Date(2024, 6, 7, 9, 30, 0, 0, ny), Close: 12},
		{Time: time.Date(2024, 5, 1, 9, 30, 0, 0, ny), Close: 9}, // before start
	}

	s := Normalize("AAPL", bars, day(2024, 6, 1), day(2024, 6, 30))
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []model.PricePoint{
		{Date: day(2024, 6, 3), Close: 10},
		{Date: day(2024, 6, 4), Close: 11.5},
		{Date: day(2024, 6, 7), Close: 12},
	}, s.Points)
}

func TestLoad_StrictlyIncreasingDates(t *testing.T) {
	l := New(&collector.MockFetcher{Price: 150}, nil, 0, nil)
	s, err := l.Load(context.Background(), "AAPL", day(2022, 1, 1), day(2024, 1, 1))
	require.NoError(t, err)
	require.Greater(t, s.Len(), 400)
	for i := 1; i < s.Len(); i++ {
		prev, cur := s.Points[i-1].Date, s.Points[i].Date
		assert.True(t, cur.After(prev))
		// No gaps beyond weekends.
		assert.LessOrEqual(t, cur.Sub(prev), 3*24*time.Hour)
	}
}

func TestLoad_CachesBySymbolAndRange(t *testing.T) {
	ctx := context.Background()
	f := &collector.MockFetcher{Price: 100}
	l := New(f, cache.NewMemory(), time.Minute, nil)

	a, err := l.Load(ctx, "AAPL", day(2024, 1, 1), day(2024, 6, 1))
	require.NoError(t, err)
	b, err := l.Load(ctx, "AAPL", day(2024, 1, 1), day(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, a.Points, b.Points)

	_, err = l.Load(ctx, "AAPL", day(2024, 2, 1), day(2024, 6, 1))
	require.NoError(t, err)
	_, err = l.Load(ctx, "MSFT", day(2024, 1, 1), day(2024, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, f.Calls())
}

func TestLoad_NoData(t *testing.T) {
	ctx := context.Background()
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"EMPTY": nil}}
	l := New(f, cache.NewMemory(), time.Minute, nil)

	_, err := l.Load(ctx, "EMPTY", day(2024, 1, 1), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrNoData)
	assert.NotErrorIs(t, err, ErrRetrieval)

	// Empty results are not cached.
	_, err = l.Load(ctx, "EMPTY", day(2024, 1, 1), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 2, f.Calls())
}

func TestLoad_RetrievalFailure(t *testing.T) {
	upstream := errors.New("connection reset")
	l := New(&collector.MockFetcher{Err: upstream}, nil, 0, nil)

	_, err := l.Load(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrRetrieval)
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestLoad_UnknownSymbol(t *testing.T) {
	l := New(&collector.MockFetcher{Err: collector.ErrSymbolNotFound}, nil, 0, nil)
	_, err := l.Load(context.Background(), "ZZZZ", day(2024, 1, 1), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, collector.ErrSymbolNotFound)
	assert.NotErrorIs(t, err, ErrRetrieval)
}

func TestLoad_InvalidInput(t *testing.T) {
	f := &collector.MockFetcher{}
	l := New(f, nil, 0, nil)

	_, err := l.Load(context.Background(), "AAPL", day(2024, 6, 2), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = l.Load(context.Background(), "", day(2024, 1, 1), day(2024, 6, 1))
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	assert.Equal(t, 0, f.Calls())
}
