package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"StockCast/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher, ProfileFetcher and NewsFetcher using the
// Yahoo Finance public JSON API.
type YahooFetcher struct {
	Client    *resty.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		Client:  newHTTPClient(proxyURL, timeout),
		BaseURL: DefaultYahooBaseURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooError is the error object embedded in every Yahoo response envelope.
type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *yahooError) err(symbol string) error {
	if strings.EqualFold(e.Code, "Not Found") {
		return fmt.Errorf("yahoo: %s: %w: %s", symbol, ErrSymbolNotFound, e.Description)
	}
	return fmt.Errorf("yahoo api error: %s: %s", e.Code, e.Description)
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Null prices (halted sessions) decode to nil.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				Symbol    string `json:"symbol"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

func valueAt(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return 0
	}
	return *vs[i]
}

// get decodes the JSON body into out and returns the HTTP status. Yahoo
// reports unknown symbols as 404 with a JSON envelope, so the body is decoded
// before the status is checked.
func (f *YahooFetcher) get(ctx context.Context, path string, query map[string]string, out any) (int, error) {
	resp, err := f.Client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(f.BaseURL + path)
	if err != nil {
		return 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return resp.StatusCode(), statusError(resp)
		}
		return resp.StatusCode(), fmt.Errorf("yahoo decode: %w", err)
	}
	return resp.StatusCode(), nil
}

func statusError(resp *resty.Response) error {
	return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 200))
}

// FetchDailyBars returns daily bars whose session date lies in [start, end].
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	var chart yahooChart
	status, err := f.get(ctx, "/v8/finance/chart/"+f.yahooSymbol(symbol), map[string]string{
		"interval": "1d",
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10),
		"events":   "history",
	}, &chart)
	if err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, chart.Chart.Error.err(symbol)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, ErrSymbolNotFound)
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	loc := time.FixedZone("exchange", result.Meta.GMTOffset)
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := valueAt(quote.Close, i)
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   valueAt(quote.Open, i),
			High:   valueAt(quote.High, i),
			Low:    valueAt(quote.Low, i),
			Close:  c,
			Volume: valueAt(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

type rawValue struct {
	Raw float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector            string `json:"sector"`
				Industry          string `json:"industry"`
				FullTimeEmployees int64  `json:"fullTimeEmployees"`
				Website           string `json:"website"`
			} `json:"assetProfile"`
			Price struct {
				LongName     string   `json:"longName"`
				ShortName    string   `json:"shortName"`
				Currency     string   `json:"currency"`
				ExchangeName string   `json:"exchangeName"`
				MarketCap    rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// FetchProfile returns company information and headline fundamentals.
func (f *YahooFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	var summary yahooSummary
	status, err := f.get(ctx, "/v10/finance/quoteSummary/"+f.yahooSymbol(symbol), map[string]string{
		"modules": "assetProfile,price,summaryDetail",
	}, &summary)
	if err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, summary.QuoteSummary.Error.err(symbol)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, ErrSymbolNotFound)
	}

	r := summary.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}
	return &model.CompanyProfile{
		Symbol:        symbol,
		Name:          name,
		Sector:        r.AssetProfile.Sector,
		Industry:      r.AssetProfile.Industry,
		Employees:     r.AssetProfile.FullTimeEmployees,
		Website:       r.AssetProfile.Website,
		Currency:      r.Price.Currency,
		Exchange:      r.Price.ExchangeName,
		MarketCap:     r.Price.MarketCap.Raw,
		TrailingPE:    r.SummaryDetail.TrailingPE.Raw,
		DividendYield: r.SummaryDetail.DividendYield.Raw,
	}, nil
}

type yahooSearch struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// FetchNews returns up to limit recent headlines for the symbol.
func (f *YahooFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	var search yahooSearch
	status, err := f.get(ctx, "/v1/finance/search", map[string]string{
		"q":           f.yahooSymbol(symbol),
		"quotesCount": "0",
		"newsCount":   strconv.Itoa(limit),
	}, &search)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}

	items := make([]model.NewsItem, 0, len(search.News))
	for _, n := range search.News {
		if len(items) == limit {
			break
		}
		items = append(items, model.NewsItem{
			Title:       n.Title,
			Publisher:   n.Publisher,
			PublishedAt: time.Unix(n.ProviderPublishTime, 0),
			Link:        n.Link,
		})
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
