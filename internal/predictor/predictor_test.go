package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/collector"
	"StockCast/internal/forecast"
	"StockCast/internal/loader"
	"StockCast/internal/model"
	"StockCast/internal/recorder"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeRecorder struct {
	runs     []*recorder.ForecastRun
	failures []*recorder.FailureEvent
}

func (f *fakeRecorder) RecordForecast(r *recorder.ForecastRun) error {
	f.runs = append(f.runs, r)
	return nil
}

func (f *fakeRecorder) RecordFailure(e *recorder.FailureEvent) error {
	f.failures = append(f.failures, e)
	return nil
}

func (f *fakeRecorder) RecentRuns(int) ([]recorder.RunSummary, error) { return nil, nil }
func (f *fakeRecorder) Close() error                                  { return nil }

// fridayFixture returns 500 business-day bars ending Friday 2024-05-31.
func fridayFixture(t *testing.T) []model.OHLCV {
	t.Helper()
	bars := collector.GenerateBars("AAPL", 150, day(2021, 1, 1), day(2024, 5, 31))
	require.GreaterOrEqual(t, len(bars), 500)
	bars = bars[len(bars)-500:]
	require.Equal(t, time.Friday, bars[len(bars)-1].Time.Weekday())
	return bars
}

func newTestPredictor(f collector.Fetcher, rec recorder.Recorder, now time.Time) *Predictor {
	p := New(loader.New(f, nil, 0, nil), rec, nil)
	p.now = func() time.Time { return now }
	return p
}

func TestRun_FridayHistory(t *testing.T) {
	bars := fridayFixture(t)
	rec := &fakeRecorder{}
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"AAPL": bars}}
	p := newTestPredictor(f, rec, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	res, err := p.Run(context.Background(), Request{Symbol: " aapl ", Start: bars[0].Time, Horizon: 5})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "AAPL", res.Request.Symbol)
	assert.Equal(t, 500, res.History.Len())
	assert.Equal(t, "mock", res.Source)
	require.Equal(t, 5, res.Forecast.Len())

	want := []time.Time{day(2024, 6, 3), day(2024, 6, 4), day(2024, 6, 5), day(2024, 6, 6), day(2024, 6, 7)}
	for i, pt := range res.Forecast.Points {
		assert.Equal(t, want[i], pt.Date)
		assert.False(t, math.IsNaN(pt.Price) || math.IsInf(pt.Price, 0))
	}
	assert.Equal(t, forecast.DefaultOrder, res.Model.Order)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, "AAPL", rec.runs[0].Symbol)
	assert.Equal(t, day(2024, 5, 31), rec.runs[0].LastDate)
	assert.Len(t, rec.runs[0].Points, 5)
	assert.Empty(t, rec.failures)
}

func TestRun_HorizonBounds(t *testing.T) {
	bars := fridayFixture(t)
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"AAPL": bars}}
	p := newTestPredictor(f, nil, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	for _, h := range []int{MinHorizon, MaxHorizon} {
		res, err := p.Run(context.Background(), Request{Symbol: "AAPL", Start: bars[0].Time, Horizon: h})
		require.NoError(t, err)
		assert.Equal(t, h, res.Forecast.Len())
		assert.Equal(t, day(2024, 6, 3), res.Forecast.Points[0].Date)
	}

	for _, h := range []int{0, -1, MaxHorizon + 1} {
		res, err := p.Run(context.Background(), Request{Symbol: "AAPL", Start: bars[0].Time, Horizon: h})
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, SeverityWarning, Classify(err))
	}
	assert.Equal(t, 2, f.Calls(), "invalid horizons must not reach the provider")
}

func TestRun_Deterministic(t *testing.T) {
	bars := fridayFixture(t)
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"AAPL": bars}}
	p := newTestPredictor(f, nil, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	req := Request{Symbol: "AAPL", Start: bars[0].Time, Horizon: 30}

	a, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a.Forecast.Points, b.Forecast.Points)
}

func TestProject_DoesNotRecord(t *testing.T) {
	bars := fridayFixture(t)
	rec := &fakeRecorder{}
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"AAPL": bars}}
	p := newTestPredictor(f, rec, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	req := Request{Symbol: "AAPL", Start: bars[0].Time, Horizon: 5}

	projected, err := p.Project(context.Background(), req)
	require.NoError(t, err)
	ran, err := p.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ran.Forecast.Points, projected.Forecast.Points)

	_, err = p.Project(context.Background(), Request{Symbol: "AAPL", Start: bars[0].Time, Horizon: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Len(t, rec.runs, 1)
	assert.Empty(t, rec.failures)
}

func TestRun_NoData(t *testing.T) {
	rec := &fakeRecorder{}
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"ZZZZ": {}}}
	p := newTestPredictor(f, rec, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	res, err := p.Run(context.Background(), Request{Symbol: "ZZZZ", Start: day(2022, 1, 1), Horizon: 30})
	assert.Nil(t, res)
	require.ErrorIs(t, err, loader.ErrNoData)
	assert.Equal(t, SeverityWarning, Classify(err))
	assert.Equal(t, "No data found for this stock symbol.", UserMessage(err))

	require.Len(t, rec.failures, 1)
	assert.Equal(t, "warning", rec.failures[0].Severity)
	assert.Empty(t, rec.runs)
}

func TestRun_UnknownSymbolIsNoData(t *testing.T) {
	rec := &fakeRecorder{}
	f := &collector.MockFetcher{Err: fmt.Errorf("yahoo: QQQQX: %w", collector.ErrSymbolNotFound)}
	p := newTestPredictor(f, rec, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	res, err := p.Run(context.Background(), Request{Symbol: "QQQQX", Start: day(2022, 1, 1), Horizon: 30})
	assert.Nil(t, res)
	require.ErrorIs(t, err, loader.ErrNoData)
	assert.Equal(t, SeverityWarning, Classify(err))
	assert.Equal(t, "No data found for this stock symbol.", UserMessage(err))
	require.Len(t, rec.failures, 1)
	assert.Equal(t, "warning", rec.failures[0].Severity)
}

func TestRun_ShortHistoryFailsFit(t *testing.T) {
	bars := fridayFixture(t)[490:]
	f := &collector.MockFetcher{Fixtures: map[string][]model.OHLCV{"AAPL": bars}}
	p := newTestPredictor(f, nil, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	res, err := p.Run(context.Background(), Request{Symbol: "AAPL", Start: bars[0].Time, Horizon: 5})
	assert.Nil(t, res)
	require.ErrorIs(t, err, forecast.ErrFit)
	assert.Equal(t, SeverityError, Classify(err))
}

func TestRun_RetrievalFailure(t *testing.T) {
	f := &collector.MockFetcher{Err: errors.New("connection reset")}
	p := newTestPredictor(f, nil, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	res, err := p.Run(context.Background(), Request{Symbol: "AAPL", Start: day(2022, 1, 1), Horizon: 5})
	assert.Nil(t, res)
	require.ErrorIs(t, err, loader.ErrRetrieval)
	assert.Equal(t, SeverityError, Classify(err))
	assert.Contains(t, UserMessage(err), "connection reset")
}

func TestRequest_Normalize(t *testing.T) {
	today := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

	r, err := Request{Symbol: " msft", Start: time.Date(2023, 1, 2, 18, 0, 0, 0, time.UTC), Horizon: 30}.Normalize(today)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", r.Symbol)
	assert.Equal(t, day(2023, 1, 2), r.Start)

	cases := map[string]Request{
		"empty symbol":  {Symbol: "  ", Start: day(2023, 1, 2), Horizon: 30},
		"zero start":    {Symbol: "AAPL", Horizon: 30},
		"start today":   {Symbol: "AAPL", Start: day(2024, 6, 1), Horizon: 30},
		"start future":  {Symbol: "AAPL", Start: day(2024, 7, 1), Horizon: 30},
		"horizon large": {Symbol: "AAPL", Start: day(2023, 1, 2), Horizon: 91},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := req.Normalize(today)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, SeverityNone, Classify(nil))
	assert.Equal(t, SeverityError, Classify(errors.New("boom")))
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "", UserMessage(nil))
}
