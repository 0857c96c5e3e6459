package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockCast/internal/calendar"
	"StockCast/internal/predictor"
)

func parseDate(q url.Values, key string, def time.Time) (time.Time, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", predictor.ErrInvalidInput, key)
	}
	return t, nil
}

func symbolParam(q url.Values, def string) string {
	if v := strings.ToUpper(strings.TrimSpace(q.Get("symbol"))); v != "" {
		return v
	}
	return def
}

// forecastRequest reads symbol, start and horizon, falling back to the
// configured defaults.
func (s *Server) forecastRequest(r *http.Request) (predictor.Request, error) {
	q := r.URL.Query()
	today := calendar.Date(s.now())
	req := predictor.Request{
		Symbol:  symbolParam(q, s.deps.Defaults.PredictionSymbol),
		Horizon: s.deps.Defaults.Horizon,
	}

	start, err := parseDate(q, "start", today.AddDate(-s.deps.Defaults.TrainingYears, 0, 0))
	if err != nil {
		return req, err
	}
	req.Start = start

	if v := strings.TrimSpace(q.Get("horizon")); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: horizon must be a whole number of days", predictor.ErrInvalidInput)
		}
		req.Horizon = h
	}
	return req, nil
}

// historyRange reads symbol, start and end for the analysis views.
func (s *Server) historyRange(r *http.Request) (symbol string, start, end time.Time, err error) {
	q := r.URL.Query()
	today := calendar.Date(s.now())
	symbol = symbolParam(q, s.deps.Defaults.AnalysisSymbol)
	if start, err = parseDate(q, "start", today.AddDate(-1, 0, 0)); err != nil {
		return
	}
	end, err = parseDate(q, "end", today)
	return
}

func forecastQuery(req predictor.Request) string {
	v := url.Values{}
	v.Set("symbol", req.Symbol)
	v.Set("start", req.Start.Format(time.DateOnly))
	v.Set("horizon", strconv.Itoa(req.Horizon))
	return v.Encode()
}

func historyQuery(symbol string, start, end time.Time) string {
	v := url.Values{}
	v.Set("symbol", symbol)
	v.Set("start", start.Format(time.DateOnly))
	v.Set("end", end.Format(time.DateOnly))
	return v.Encode()
}
