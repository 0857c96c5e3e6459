// Package web serves the dashboard: landing, analysis and prediction pages,
// PNG charts and a small JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"StockCast/internal/analysis"
	"StockCast/internal/cache"
	"StockCast/internal/model"
	"StockCast/internal/predictor"
	"StockCast/internal/recorder"
)

//go:embed templates/*.html templates/*.md
var assets embed.FS

// Forecaster is satisfied by *predictor.Predictor. Run records the outcome,
// Project does not.
type Forecaster interface {
	Run(ctx context.Context, req predictor.Request) (*predictor.Result, error)
	Project(ctx context.Context, req predictor.Request) (*predictor.Result, error)
}

// Analyzer is satisfied by *analysis.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, start, end time.Time) (*analysis.Report, error)
}

// HistoryLoader is satisfied by *loader.Loader.
type HistoryLoader interface {
	Load(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
}

// Defaults pre-fill the page forms.
type Defaults struct {
	PredictionSymbol string
	AnalysisSymbol   string
	Horizon          int
	TrainingYears    int
}

// Deps are the collaborators the dashboard needs.
type Deps struct {
	Predictor Forecaster
	Analyzer  Analyzer
	History   HistoryLoader
	Runs      recorder.Recorder
	Defaults  Defaults
	Log       *zap.Logger
}

// chartTTL is how long a prediction page's chart stays fetchable.
const chartTTL = 10 * time.Minute

// Server renders the dashboard.
type Server struct {
	deps    Deps
	pages   map[string]*template.Template
	landing template.HTML
	charts  *cache.Memory // forecast charts kept for prediction page images
	now     func() time.Time
}

// NewServer parses the embedded templates and renders the landing copy.
func NewServer(deps Deps) (*Server, error) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Runs == nil {
		deps.Runs = recorder.NewNoopRecorder()
	}
	if deps.Defaults.PredictionSymbol == "" {
		deps.Defaults.PredictionSymbol = "AAPL"
	}
	if deps.Defaults.AnalysisSymbol == "" {
		deps.Defaults.AnalysisSymbol = "TSLA"
	}
	if deps.Defaults.Horizon == 0 {
		deps.Defaults.Horizon = 30
	}
	if deps.Defaults.TrainingYears == 0 {
		deps.Defaults.TrainingYears = 2
	}

	s := &Server{
		deps:   deps,
		pages:  make(map[string]*template.Template),
		charts: cache.NewMemory(),
		now:    time.Now,
	}
	for _, page := range []string{"index.html", "analysis.html", "prediction.html"} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		s.pages[page] = t
	}

	md, err := assets.ReadFile("templates/landing.md")
	if err != nil {
		return nil, fmt.Errorf("read landing: %w", err)
	}
	if s.landing, err = renderMarkdown(md); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/analysis", s.handleAnalysis)
	r.Get("/prediction", s.handlePrediction)
	r.Route("/chart", func(r chi.Router) {
		r.Get("/forecast.png", s.handleForecastChart)
		r.Get("/history.png", s.handleHistoryChart)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/forecast", s.handleAPIForecast)
		r.Get("/runs", s.handleAPIRuns)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Log.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.deps.Log.Info("dashboard shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r)
		s.deps.Log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(began)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
