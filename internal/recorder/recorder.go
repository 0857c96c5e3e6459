package recorder

import (
	"time"

	"StockCast/internal/model"
)

// ForecastRun holds all data for a successful forecast.
type ForecastRun struct {
	Symbol    string
	Start     time.Time
	Horizon   int
	Source    string
	Order     string
	LastDate  time.Time
	LastClose float64
	Sigma2    float64
	AIC       float64
	Points    []model.ForecastPoint
}

// FailureEvent records a run that stopped before producing output.
type FailureEvent struct {
	Symbol   string
	Start    time.Time
	Horizon  int
	Severity string // "warning" or "error"
	Message  string
}

// RunSummary is one row of the run history.
type RunSummary struct {
	ID         int64     `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
	Symbol     string    `json:"symbol"`
	Horizon    int       `json:"horizon"`
	Source     string    `json:"source"`
	LastClose  float64   `json:"last_close"`
	FinalPrice float64   `json:"final_price"`
}

// Recorder persists forecast history for later review.
type Recorder interface {
	RecordForecast(run *ForecastRun) error
	RecordFailure(evt *FailureEvent) error
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
