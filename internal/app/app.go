// Package app wires the configured components into a running service.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"StockCast/internal/analysis"
	"StockCast/internal/cache"
	"StockCast/internal/collector"
	"StockCast/internal/config"
	"StockCast/internal/loader"
	"StockCast/internal/notifier"
	"StockCast/internal/predictor"
	"StockCast/internal/recorder"
)

// App holds the shared components built from a Config.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Fetcher   collector.Fetcher
	Cache     cache.Cache
	Loader    *loader.Loader
	Predictor *predictor.Predictor
	Analyzer  *analysis.Analyzer
	Recorder  recorder.Recorder
	// Notifier is nil when Telegram is not configured.
	Notifier *notifier.TelegramNotifier
}

// NewFetcher returns the data provider named by the config.
func NewFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderYahoo:
		f := collector.NewYahooFetcher(cfg.Proxy, ds.Timeout)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case config.ProviderFinanceGo:
		return collector.NewFinanceGoFetcher(), nil
	case config.ProviderREST:
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout), nil
	case config.ProviderMock:
		return &collector.MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

// New builds every component. Optional backends (Redis, SQLite) that fail
// to open are replaced by their in-process fallbacks.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("data source", zap.String("provider", fetcher.Name()))

	a := &App{Config: cfg, Log: log, Fetcher: fetcher}

	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Cache.RedisAddr, "stockcast:")
		if err != nil {
			log.Warn("init redis cache failed, using memory", zap.Error(err))
		} else {
			a.Cache = rc
		}
	}
	if a.Cache == nil {
		a.Cache = cache.NewMemory()
	}

	a.Recorder = recorder.NewNoopRecorder()
	if path := cfg.Database.SQLitePath; path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Warn("create database dir failed", zap.Error(err))
			}
		}
		sr, err := recorder.NewSQLiteRecorder(path, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			a.Recorder = sr
		}
	}

	a.Loader = loader.New(fetcher, a.Cache, cfg.Cache.TTL, log)
	a.Predictor = predictor.New(a.Loader, a.Recorder, log)

	profiles, _ := fetcher.(collector.ProfileFetcher)
	news, _ := fetcher.(collector.NewsFetcher)
	a.Analyzer = analysis.New(a.Loader, profiles, news, log)

	if cfg.TelegramEnabled() {
		a.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	}
	return a, nil
}

// Purger returns the cache as a Purger when it supports purging.
func (a *App) Purger() interface{ Purge() int } {
	if m, ok := a.Cache.(*cache.Memory); ok {
		return m
	}
	return nil
}

// Close releases the cache and recorder.
func (a *App) Close() error {
	var firstErr error
	if err := a.Recorder.Close(); err != nil {
		firstErr = err
	}
	if err := a.Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
