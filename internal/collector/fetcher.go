package collector

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/model"
)

// ErrSymbolNotFound is returned when the provider does not know the symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDailyBars returns the daily bars in [start, end] in chronological order.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// ProfileFetcher is implemented by fetchers that can describe a company.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error)
}

// NewsFetcher is implemented by fetchers that can list recent headlines.
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)
}
