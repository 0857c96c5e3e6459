package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"StockCast/internal/analysis"
	"StockCast/internal/loader"
	"StockCast/internal/model"
	"StockCast/internal/predictor"
	"StockCast/internal/presenter"
	"StockCast/internal/recorder"
)

type indexPage struct {
	Title   string
	Content template.HTML
}

type predictionPage struct {
	Title      string
	Symbol     string
	Start      string
	Horizon    int
	MinHorizon int
	MaxHorizon int
	Result     *predictor.Result
	Table      presenter.Table
	ChartURL   string
	Alert      *alert
}

type analysisPage struct {
	Title        string
	Symbol       string
	Start        string
	End          string
	Report       *analysis.Report
	Fundamentals presenter.Table
	ChartURL     string
	Alert        *alert
}

// apiForecast is the JSON shape of a successful /api/forecast call.
type apiForecast struct {
	Symbol    string                `json:"symbol"`
	Start     string                `json:"start"`
	Horizon   int                   `json:"horizon"`
	Source    string                `json:"source"`
	Model     string                `json:"model"`
	LastDate  string                `json:"last_date"`
	LastClose float64               `json:"last_close"`
	Forecast  []model.ForecastPoint `json:"forecast"`
}

// inputError folds loader range and symbol errors into the invalid-input
// category so they surface as warnings.
func inputError(err error) error {
	if errors.Is(err, loader.ErrInvalidRange) || errors.Is(err, loader.ErrInvalidSymbol) {
		return fmt.Errorf("%w: %w", predictor.ErrInvalidInput, err)
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "index.html", http.StatusOK, indexPage{
		Title:   "Stock Analysis & Forecasting",
		Content: s.landing,
	})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	req, err := s.forecastRequest(r)
	page := predictionPage{
		Title:      "Stock Price Prediction",
		Symbol:     req.Symbol,
		Horizon:    req.Horizon,
		MinHorizon: predictor.MinHorizon,
		MaxHorizon: predictor.MaxHorizon,
	}
	if !req.Start.IsZero() {
		page.Start = req.Start.Format(time.DateOnly)
	}
	if err != nil {
		page.Alert = newAlert(err)
		s.renderPage(w, "prediction.html", statusFor(err), page)
		return
	}

	res, err := s.deps.Predictor.Run(r.Context(), req)
	if err != nil {
		page.Alert = newAlert(err)
		s.renderPage(w, "prediction.html", statusFor(err), page)
		return
	}
	page.Result = res
	page.Table = presenter.NewForecastTable(res.Forecast)
	page.ChartURL = s.keepChart(r.Context(), res)
	s.renderPage(w, "prediction.html", http.StatusOK, page)
}

// keepChart stores the page's forecast chart and returns the image URL that
// serves it. If the chart cannot be stored the URL carries the request
// parameters instead.
func (s *Server) keepChart(ctx context.Context, res *predictor.Result) string {
	s.charts.Purge()
	key := strconv.FormatUint(middleware.NextRequestID(), 36)
	if err := s.charts.Set(ctx, key, presenter.NewForecastChart(res.History, res.Forecast), chartTTL); err != nil {
		s.deps.Log.Warn("keep chart", zap.String("symbol", res.Request.Symbol), zap.Error(err))
		return "/chart/forecast.png?" + forecastQuery(res.Request)
	}
	return "/chart/forecast.png?" + url.Values{"run": {key}}.Encode()
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol, start, end, err := s.historyRange(r)
	page := analysisPage{Title: "Stock Analysis Dashboard", Symbol: symbol}
	if !start.IsZero() {
		page.Start = start.Format(time.DateOnly)
	}
	if !end.IsZero() {
		page.End = end.Format(time.DateOnly)
	}
	if err != nil {
		page.Alert = newAlert(err)
		s.renderPage(w, "analysis.html", statusFor(err), page)
		return
	}

	rep, err := s.deps.Analyzer.Analyze(r.Context(), symbol, start, end)
	if err != nil {
		err = inputError(err)
		page.Alert = newAlert(err)
		s.renderPage(w, "analysis.html", statusFor(err), page)
		return
	}
	page.Report = rep
	page.Fundamentals = presenter.NewFundamentalsTable(rep.Profile)
	page.ChartURL = "/chart/history.png?" + historyQuery(symbol, start, end)
	s.renderPage(w, "analysis.html", http.StatusOK, page)
}

// handleForecastChart serves a chart kept by a prediction page, or projects
// one from the query parameters without recording a run.
func (s *Server) handleForecastChart(w http.ResponseWriter, r *http.Request) {
	if key := r.URL.Query().Get("run"); key != "" {
		var chart presenter.Chart
		ok, err := s.charts.Get(r.Context(), key, &chart)
		if err != nil {
			s.deps.Log.Warn("load kept chart", zap.String("run", key), zap.Error(err))
		}
		if !ok {
			http.Error(w, "Chart expired. Run the forecast again.", http.StatusNotFound)
			return
		}
		s.renderChart(w, chart)
		return
	}

	req, err := s.forecastRequest(r)
	if err != nil {
		http.Error(w, predictor.UserMessage(err), statusFor(err))
		return
	}
	res, err := s.deps.Predictor.Project(r.Context(), req)
	if err != nil {
		http.Error(w, predictor.UserMessage(err), statusFor(err))
		return
	}
	s.renderChart(w, presenter.NewForecastChart(res.History, res.Forecast))
}

func (s *Server) handleHistoryChart(w http.ResponseWriter, r *http.Request) {
	symbol, start, end, err := s.historyRange(r)
	if err != nil {
		http.Error(w, predictor.UserMessage(err), statusFor(err))
		return
	}
	history, err := s.deps.History.Load(r.Context(), symbol, start, end)
	if err != nil {
		err = inputError(err)
		http.Error(w, predictor.UserMessage(err), statusFor(err))
		return
	}
	s.renderChart(w, presenter.NewHistoryChart(history))
}

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	req, err := s.forecastRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.deps.Predictor.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	last := res.History.Last()
	writeJSON(w, http.StatusOK, apiForecast{
		Symbol:    res.Request.Symbol,
		Start:     res.Request.Start.Format(time.DateOnly),
		Horizon:   res.Request.Horizon,
		Source:    res.Source,
		Model:     res.Model.Order.String(),
		LastDate:  last.Date.Format(time.DateOnly),
		LastClose: last.Close,
		Forecast:  res.Forecast.Points,
	})
}

func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":    "limit must be between 1 and 200",
				"severity": predictor.SeverityWarning.String(),
			})
			return
		}
		limit = n
	}
	runs, err := s.deps.Runs.RecentRuns(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []recorder.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}
