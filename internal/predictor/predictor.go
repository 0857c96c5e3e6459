// Package predictor runs the forecast pipeline: validate the request, load
// the price history, fit the model and date the projected prices.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockCast/internal/calendar"
	"StockCast/internal/forecast"
	"StockCast/internal/loader"
	"StockCast/internal/model"
	"StockCast/internal/recorder"
)

// Horizon bounds, in business days.
const (
	MinHorizon = 1
	MaxHorizon = 90
)

// ErrInvalidInput is returned for requests rejected before any retrieval.
var ErrInvalidInput = errors.New("invalid input")

// Request is a user-triggered forecast.
type Request struct {
	Symbol  string    `json:"symbol"`
	Start   time.Time `json:"start"`
	Horizon int       `json:"horizon"`
}

// Result holds everything the presentation layer needs. It is only ever
// returned complete.
type Result struct {
	Request  Request               `json:"request"`
	History  *model.PriceSeries    `json:"history"`
	Forecast *model.ForecastSeries `json:"forecast"`
	Model    forecast.Summary      `json:"model"`
	Source   string                `json:"source"`
	Elapsed  time.Duration         `json:"elapsed"`
}

// HistoryLoader is satisfied by *loader.Loader.
type HistoryLoader interface {
	Load(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Source() string
}

// Predictor wires the loader, the model and the run recorder together.
type Predictor struct {
	Loader   HistoryLoader
	Recorder recorder.Recorder
	Order    forecast.Order
	Log      *zap.Logger

	now func() time.Time
}

// New creates a Predictor using the default ARIMA(5,1,0) order.
func New(l HistoryLoader, rec recorder.Recorder, log *zap.Logger) *Predictor {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Predictor{Loader: l, Recorder: rec, Order: forecast.DefaultOrder, Log: log, now: time.Now}
}

// Normalize trims and upper-cases the symbol and validates the request
// against today's date.
func (r Request) Normalize(today time.Time) (Request, error) {
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	if r.Symbol == "" {
		return r, fmt.Errorf("%w: ticker symbol is required", ErrInvalidInput)
	}
	if r.Horizon < MinHorizon || r.Horizon > MaxHorizon {
		return r, fmt.Errorf("%w: forecast horizon must be between %d and %d days, got %d",
			ErrInvalidInput, MinHorizon, MaxHorizon, r.Horizon)
	}
	if r.Start.IsZero() {
		return r, fmt.Errorf("%w: training start date is required", ErrInvalidInput)
	}
	r.Start = calendar.Date(r.Start)
	if !r.Start.Before(calendar.Date(today)) {
		return r, fmt.Errorf("%w: training start date %s must be before today",
			ErrInvalidInput, r.Start.Format(time.DateOnly))
	}
	return r, nil
}

// Run executes the pipeline synchronously and records the outcome. On any
// failure the returned Result is nil and the error can be classified with
// Classify.
func (p *Predictor) Run(ctx context.Context, req Request) (*Result, error) {
	res, err := p.Project(ctx, req)
	if err != nil {
		if rerr := p.Recorder.RecordFailure(&recorder.FailureEvent{
			Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
			Start:    req.Start,
			Horizon:  req.Horizon,
			Severity: Classify(err).String(),
			Message:  err.Error(),
		}); rerr != nil {
			p.Log.Error("record failure", zap.Error(rerr))
		}
		return nil, err
	}

	if rerr := p.Recorder.RecordForecast(&recorder.ForecastRun{
		Symbol:    res.Request.Symbol,
		Start:     res.Request.Start,
		Horizon:   res.Request.Horizon,
		Source:    res.Source,
		Order:     p.Order.String(),
		LastDate:  res.History.Last().Date,
		LastClose: res.History.Last().Close,
		Sigma2:    res.Model.Sigma2,
		AIC:       res.Model.AIC,
		Points:    res.Forecast.Points,
	}); rerr != nil {
		p.Log.Error("record forecast", zap.Error(rerr))
	}
	return res, nil
}

// Project runs the same pipeline as Run without writing to the recorder.
func (p *Predictor) Project(ctx context.Context, req Request) (*Result, error) {
	began := p.now()
	res, err := p.run(ctx, req, began)
	if err != nil {
		p.Log.Warn("forecast failed",
			zap.String("symbol", req.Symbol),
			zap.Int("horizon", req.Horizon),
			zap.String("severity", Classify(err).String()),
			zap.Error(err))
		return nil, err
	}
	p.Log.Info("forecast complete",
		zap.String("symbol", res.Request.Symbol),
		zap.Int("history", res.History.Len()),
		zap.Int("horizon", res.Forecast.Len()),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (p *Predictor) run(ctx context.Context, req Request, began time.Time) (*Result, error) {
	req, err := req.Normalize(began)
	if err != nil {
		return nil, err
	}

	history, err := p.Loader.Load(ctx, req.Symbol, req.Start, began)
	if err != nil {
		if errors.Is(err, loader.ErrInvalidRange) || errors.Is(err, loader.ErrInvalidSymbol) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}

	fc, summary, err := Forecast(history, req.Horizon, p.Order)
	if err != nil {
		return nil, err
	}

	return &Result{
		Request:  req,
		History:  history,
		Forecast: fc,
		Model:    summary,
		Source:   p.Loader.Source(),
		Elapsed:  p.now().Sub(began),
	}, nil
}

// Forecast fits the model to the history and projects it horizon business
// days past the last historical date.
func Forecast(history *model.PriceSeries, horizon int, order forecast.Order) (*model.ForecastSeries, forecast.Summary, error) {
	m, err := forecast.Fit(history.Closes(), order)
	if err != nil {
		return nil, forecast.Summary{}, fmt.Errorf("%s: %w", history.Symbol, err)
	}
	values, err := m.Forecast(horizon)
	if err != nil {
		return nil, forecast.Summary{}, fmt.Errorf("%s: %w: %w", history.Symbol, forecast.ErrFit, err)
	}

	dates := calendar.NextBusinessDays(history.Last().Date, horizon)
	points := make([]model.ForecastPoint, horizon)
	for i := range points {
		points[i] = model.ForecastPoint{Date: dates[i], Price: values[i]}
	}
	return &model.ForecastSeries{Symbol: history.Symbol, Points: points}, m.Summary(), nil
}
