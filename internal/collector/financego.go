package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"StockCast/internal/model"
)

// FinanceGoFetcher implements Fetcher and ProfileFetcher on top of the
// piquette/finance-go Yahoo client.
type FinanceGoFetcher struct{}

// NewFinanceGoFetcher creates a fetcher backed by finance-go.
func NewFinanceGoFetcher() *FinanceGoFetcher { return &FinanceGoFetcher{} }

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	to := end.AddDate(0, 0, 1)
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	})

	var raw []*finance.ChartBar
	for iter.Next() {
		raw = append(raw, iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart %s: %w", symbol, err)
	}
	meta, _ := iter.Iter.Meta().(finance.ChartMeta)
	return chartBars(raw, meta), nil
}

// chartBars converts finance-go bars into exchange-local OHLCV bars, so the
// session date survives truncation to a calendar day.
func chartBars(raw []*finance.ChartBar, meta finance.ChartMeta) []model.OHLCV {
	loc := time.FixedZone(meta.ExchangeTimezoneName, meta.Gmtoffset)
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		if b == nil || b.Close.IsZero() {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(int64(b.Timestamp), 0).In(loc),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: float64(b.Volume),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

// FetchProfile reports quote-level fundamentals. Sector, industry and
// headcount are not exposed by the equity quote and stay empty.
func (f *FinanceGoFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go equity %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("finance-go equity %s: %w", symbol, ErrSymbolNotFound)
	}

	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	return &model.CompanyProfile{
		Symbol:        symbol,
		Name:          name,
		Currency:      q.CurrencyID,
		Exchange:      q.FullExchangeName,
		MarketCap:     float64(q.MarketCap),
		TrailingPE:    q.TrailingPE,
		DividendYield: q.TrailingAnnualDividendYield,
	}, nil
}
