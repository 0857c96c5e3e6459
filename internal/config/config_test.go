package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SERVER_ADDR", "DATA_PROVIDER", "DATA_BASE_URL", "DATA_API_KEY", "CACHE_TTL",
	"REDIS_ADDR", "SQLITE_PATH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	"CRON_REFRESH", "WATCHLIST", "LOG_LEVEL", "HTTPS_PROXY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8501", cfg.Server.Addr)
	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "AAPL", cfg.Forecast.DefaultSymbol)
	assert.Equal(t, 30, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, 2, cfg.Forecast.TrainingYears)
	assert.Equal(t, "0 30 22 * * 1-5", cfg.Schedule.RefreshCron)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_source:
  provider: REST
  base_url: "http://localhost:9000"
  timeout: 10s
cache:
  ttl: 2m
forecast:
  default_symbol: MSFT
  default_horizon: 60
schedule:
  watchlist: [" aapl", "msft "]
`)
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderREST, cfg.DataSource.Provider)
	assert.Equal(t, "http://localhost:9000", cfg.DataSource.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "MSFT", cfg.Forecast.DefaultSymbol)
	assert.Equal(t, 60, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Schedule.Watchlist)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_WatchlistEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("WATCHLIST", "aapl, ,tsla")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "TSLA"}, cfg.Schedule.Watchlist)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "server: [oops"))
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cases := map[string]func(*Config){
		"unknown provider":  func(c *Config) { c.DataSource.Provider = "bloomberg" },
		"rest without url":  func(c *Config) { c.DataSource.Provider = ProviderREST },
		"horizon too large": func(c *Config) { c.Forecast.DefaultHorizon = 91 },
		"horizon negative":  func(c *Config) { c.Forecast.DefaultHorizon = -1 },
		"no training data":  func(c *Config) { c.Forecast.TrainingYears = -1 },
		"negative ttl":      func(c *Config) { c.Cache.TTL = -time.Second },
		"token without id":  func(c *Config) { c.Telegram.BotToken = "t" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := base()
	cfg.Telegram.BotToken, cfg.Telegram.ChatID = "t", "1"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.TelegramEnabled())
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("CONFIG_PATH", "/etc/stockcast.yaml")
	assert.Equal(t, "/etc/stockcast.yaml", Path())
}
