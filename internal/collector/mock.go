package collector

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"StockCast/internal/calendar"
	"StockCast/internal/model"
)

// MockFetcher returns controllable synthetic data for development and testing.
// Without fixtures it produces a deterministic random walk per symbol.
type MockFetcher struct {
	Price    float64
	Fixtures map[string][]model.OHLCV // returned verbatim, even when empty
	Profiles map[string]*model.CompanyProfile
	News     map[string][]model.NewsItem
	Err      error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchDailyBars was invoked.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Fixtures[symbol]; ok {
		return bars, nil
	}
	return GenerateBars(symbol, m.Price, start, end), nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, symbol string) (*model.CompanyProfile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Profiles[symbol]; ok {
		return p, nil
	}
	return &model.CompanyProfile{Symbol: symbol, Name: symbol + " Corp.", Sector: "Technology"}, nil
}

func (m *MockFetcher) FetchNews(_ context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	items := m.News[symbol]
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GenerateBars produces one bar per business day in [start, end]. The path
// is seeded by the symbol, so the same request always yields the same data.
func GenerateBars(symbol string, basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	var bars []model.OHLCV
	p := basePrice
	drift := 0.0
	last := calendar.Date(end)
	for d := calendar.Date(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if !calendar.IsBusinessDay(d) {
			continue
		}
		drift = 0.2*drift + 0.015*rng.NormFloat64()
		open := p
		p = math.Max(p*math.Exp(drift), 0.01)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   open,
			High:   math.Max(open, p) * 1.004,
			Low:    math.Min(open, p) * 0.996,
			Close:  p,
			Volume: 1000000,
		})
	}
	return bars
}
