package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"StockCast/internal/forecast"
	"StockCast/internal/loader"
	"StockCast/internal/predictor"
	"StockCast/internal/presenter"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var funcs = template.FuncMap{
	"price":     presenter.Price,
	"change":    presenter.Change,
	"percent":   presenter.Percent,
	"ratio":     presenter.Ratio,
	"rsi":       presenter.Oscillator,
	"marketCap": presenter.MarketCap,
	"employees": presenter.Employees,
	"text":      presenter.Text,
	"date":      func(t time.Time) string { return t.Format(time.DateOnly) },
	"age":       func(t time.Time) string { return presenter.Age(t, time.Now()) },
}

func renderMarkdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// alert replaces the chart and table when a run fails.
type alert struct {
	Severity string
	Message  string
}

func newAlert(err error) *alert {
	return &alert{Severity: predictor.Classify(err).String(), Message: predictor.UserMessage(err)}
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, predictor.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, loader.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, loader.ErrRetrieval):
		return http.StatusBadGateway
	case errors.Is(err, forecast.ErrFit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) renderPage(w http.ResponseWriter, page string, status int, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.deps.Log.Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderChart(w http.ResponseWriter, c presenter.Chart) {
	var buf bytes.Buffer
	if err := presenter.RenderPNG(&buf, c, presenter.DefaultRenderOptions); err != nil {
		s.deps.Log.Error("render chart", zap.Error(err))
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=300")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // response already committed
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{
		"error":    predictor.UserMessage(err),
		"severity": predictor.Classify(err).String(),
	})
}
