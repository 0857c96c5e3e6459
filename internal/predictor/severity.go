package predictor

import (
	"errors"

	"StockCast/internal/forecast"
	"StockCast/internal/loader"
)

// Severity tells the presentation layer how to show a failed run.
type Severity int

const (
	SeverityNone Severity = iota
	// SeverityWarning covers bad input and empty history.
	SeverityWarning
	// SeverityError covers retrieval and model fitting failures.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

// Classify maps a pipeline error onto a Severity.
func Classify(err error) Severity {
	switch {
	case err == nil:
		return SeverityNone
	case errors.Is(err, ErrInvalidInput), errors.Is(err, loader.ErrNoData):
		return SeverityWarning
	default:
		return SeverityError
	}
}

// UserMessage returns the text shown in place of the chart and table.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, loader.ErrNoData):
		return "No data found for this stock symbol."
	case errors.Is(err, ErrInvalidInput):
		return err.Error()
	case errors.Is(err, loader.ErrRetrieval):
		return "Could not retrieve price history: " + err.Error()
	case errors.Is(err, forecast.ErrFit):
		return "Error during prediction: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
