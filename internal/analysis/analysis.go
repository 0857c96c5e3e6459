// Package analysis assembles the historical-analysis view of a symbol.
package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StockCast/internal/calculator"
	"StockCast/internal/collector"
	"StockCast/internal/model"
)

// NewsLimit caps the headlines shown per report.
const NewsLimit = 5

// HistoryLoader is satisfied by *loader.Loader.
type HistoryLoader interface {
	Load(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
}

// Report is the data behind the analysis page. Profile and News are nil
// when the provider could not supply them.
type Report struct {
	Symbol  string                `json:"symbol"`
	Start   time.Time             `json:"start"`
	End     time.Time             `json:"end"`
	History *model.PriceSeries    `json:"history"`
	Metrics model.MarketMetrics   `json:"metrics"`
	Profile *model.CompanyProfile `json:"profile,omitempty"`
	News    []model.NewsItem      `json:"news,omitempty"`
}

// Analyzer combines price history with company information.
type Analyzer struct {
	loader   HistoryLoader
	profiles collector.ProfileFetcher
	news     collector.NewsFetcher
	log      *zap.Logger
}

// New creates an Analyzer. profiles and news may be nil.
func New(l HistoryLoader, profiles collector.ProfileFetcher, news collector.NewsFetcher, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{loader: l, profiles: profiles, news: news, log: log}
}

// Analyze loads the history for [start, end] and decorates it. Only a
// history failure is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, start, end time.Time) (*Report, error) {
	history, err := a.loader.Load(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	metrics, err := calculator.Metrics(history)
	if err != nil {
		return nil, fmt.Errorf("metrics for %s: %w", symbol, err)
	}

	rep := &Report{
		Symbol:  symbol,
		Start:   start,
		End:     end,
		History: history,
		Metrics: metrics,
	}

	if a.profiles != nil {
		p, err := a.profiles.FetchProfile(ctx, symbol)
		if err != nil {
			a.log.Warn("profile unavailable", zap.String("symbol", symbol), zap.Error(err))
		} else {
			rep.Profile = p
		}
	}
	if a.news != nil {
		items, err := a.news.FetchNews(ctx, symbol, NewsLimit)
		if err != nil {
			a.log.Warn("news unavailable", zap.String("symbol", symbol), zap.Error(err))
		} else {
			rep.News = items
		}
	}
	return rep, nil
}
