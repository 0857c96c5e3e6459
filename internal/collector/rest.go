package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"StockCast/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars REST API:
//
//	GET {base}/api/v1/bars/daily?symbol=AAPL&from=2024-01-02&to=2024-06-28
//
// returning a JSON array of bars with unix-second timestamps.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *resty.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	c := newHTTPClient(proxyURL, timeout)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &RESTFetcher{BaseURL: baseURL, APIKey: apiKey, Client: c}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	var raw []restBar
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   start.Format(time.DateOnly),
			"to":     end.Format(time.DateOnly),
		}).
		SetResult(&raw).
		Get(f.BaseURL + "/api/v1/bars/daily")
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	switch {
	case resp.StatusCode() == 404:
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, ErrSymbolNotFound)
	case resp.IsError():
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	bars := make([]model.OHLCV, len(raw))
	for i, b := range raw {
		bars[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
