package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "StockCast")
}

func TestForecastJSON(t *testing.T) {
	out, err := run(t, "forecast", "aapl", "--provider", "mock", "--days", "4", "--json")
	require.NoError(t, err)

	var fc model.ForecastSeries
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	assert.Equal(t, "AAPL", fc.Symbol)
	assert.Len(t, fc.Points, 4)
}

func TestForecastInvalidHorizon(t *testing.T) {
	out, err := run(t, "forecast", "AAPL", "--provider", "mock", "--days", "120")
	require.Error(t, err)
	assert.Contains(t, out, "between 1 and 90")
}

func TestAnalyze(t *testing.T) {
	out, err := run(t, "analyze", "TSLA", "--provider", "mock", "--start", "2024-01-02", "--end", "2024-06-28")
	require.NoError(t, err)
	assert.Contains(t, out, "TSLA")
	assert.Contains(t, out, "Last Close")
}

func TestBadDateFlag(t *testing.T) {
	_, err := run(t, "analyze", "TSLA", "--provider", "mock", "--start", "June")
	assert.ErrorContains(t, err, "--start must be YYYY-MM-DD")
}
