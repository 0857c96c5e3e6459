package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/collector"
	"StockCast/internal/loader"
	"StockCast/internal/model"
)

type failingInfo struct{}

func (failingInfo) FetchProfile(context.Context, string) (*model.CompanyProfile, error) {
	return nil, errors.New("quote summary unavailable")
}

func (failingInfo) FetchNews(context.Context, string, int) ([]model.NewsItem, error) {
	return nil, errors.New("search unavailable")
}

var (
	start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestAnalyze(t *testing.T) {
	f := &collector.MockFetcher{
		Price: 120,
		News: map[string][]model.NewsItem{"AAPL": {
			{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}, {Title: "e"}, {Title: "f"},
		}},
	}
	a := New(loader.New(f, nil, 0, nil), f, f, nil)

	rep, err := a.Analyze(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	assert.Greater(t, rep.History.Len(), 200)
	assert.Equal(t, rep.History.Last().Close, rep.Metrics.LastClose)
	assert.NotZero(t, rep.Metrics.MA200)
	assert.GreaterOrEqual(t, rep.Metrics.PeriodHigh, rep.Metrics.PeriodLow)
	require.NotNil(t, rep.Profile)
	assert.Equal(t, "AAPL Corp.", rep.Profile.Name)
	assert.Len(t, rep.News, NewsLimit)
}

func TestAnalyze_OptionalSectionsFail(t *testing.T) {
	f := &collector.MockFetcher{Price: 120}
	a := New(loader.New(f, nil, 0, nil), failingInfo{}, failingInfo{}, nil)

	rep, err := a.Analyze(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	assert.Nil(t, rep.Profile)
	assert.Nil(t, rep.News)
}

func TestAnalyze_HistoryFailure(t *testing.T) {
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"ZZZZ": nil}}
	a := New(loader.New(f, nil, 0, nil), nil, nil, nil)

	rep, err := a.Analyze(context.Background(), "ZZZZ", start, end)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, loader.ErrNoData)
}
