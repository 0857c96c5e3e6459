package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2024-06-03", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"timestamp":1717459200,"close":11},{"timestamp":1717372800,"close":10}]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", time.Second)
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 10.0, bars[0].Close)
	assert.Equal(t, 11.0, bars[1].Close)
}

func TestRESTFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "", time.Second)
	_, err := f.FetchDailyBars(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}
