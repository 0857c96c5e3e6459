// Package loader retrieves the daily closing-price history of a symbol.
package loader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"StockCast/internal/cache"
	"StockCast/internal/calendar"
	"StockCast/internal/collector"
	"StockCast/internal/model"
)

var (
	// ErrInvalidRange is returned when start is after end.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidSymbol is returned for an empty symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrRetrieval wraps every upstream failure other than an unknown symbol.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrNoData is returned when the provider had no rows for the range or
	// did not know the symbol.
	ErrNoData = errors.New("no data")
)

// DefaultTTL is how long a retrieved series stays cached.
const DefaultTTL = 5 * time.Minute

// Loader fetches and normalises price history, memoising results.
type Loader struct {
	fetcher collector.Fetcher
	cache   cache.Cache
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New creates a Loader. A nil cache disables memoisation.
func New(fetcher collector.Fetcher, c cache.Cache, ttl time.Duration, log *zap.Logger) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, cache: c, ttl: ttl, log: log, now: time.Now}
}

// Source returns the name of the underlying fetcher.
func (l *Loader) Source() string { return l.fetcher.Name() }

// CacheKey identifies a retrieval by symbol and calendar dates.
func CacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("history:%s:%s:%s", symbol, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

// Load returns the closing prices of symbol for every trading day in
// [start, end]. Both bounds are truncated to calendar dates.
func (l *Loader) Load(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	start, end = calendar.Date(start), calendar.Date(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	key := CacheKey(symbol, start, end)
	if l.cache != nil {
		var cached model.PriceSeries
		ok, err := l.cache.Get(ctx, key, &cached)
		if err != nil {
			l.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			l.log.Debug("history cache hit", zap.String("key", key))
			return &cached, nil
		}
	}

	bars, err := l.fetcher.FetchDailyBars(ctx, symbol, start, end)
	if errors.Is(err, collector.ErrSymbolNotFound) {
		return nil, fmt.Errorf("%w for %s from %s: %w", ErrNoData, symbol, l.fetcher.Name(), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s from %s: %w", ErrRetrieval, symbol, l.fetcher.Name(), err)
	}

	series := Normalize(symbol, bars, start, end)
	series.FetchedAt = l.now()
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w for %s between %s and %s", ErrNoData, symbol,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	l.log.Info("history loaded",
		zap.String("symbol", symbol),
		zap.String("source", l.fetcher.Name()),
		zap.Int("points", series.Len()))

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, series, l.ttl); err != nil {
			l.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return series, nil
}

// Normalize converts raw bars into a closing-price series: bars without a
// positive finite close are dropped, timestamps are truncated to their
// calendar date, dates outside [start, end] are dropped and duplicates keep
// the last bar seen.
func Normalize(symbol string, bars []model.OHLCV, start, end time.Time) *model.PriceSeries {
	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			continue
		}
		d := calendar.Date(b.Time)
		if d.Before(start) || d.After(end) {
			continue
		}
		points = append(points, model.PricePoint{Date: d, Close: b.Close})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	out := points[:0]
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return &model.PriceSeries{Symbol: symbol, Points: out}
}
