package model

// MarketMetrics holds the summary figures shown on the analysis page.
type MarketMetrics struct {
	LastClose      float64  `json:"last_close"`
	DailyChangePct float64  `json:"daily_change_pct"`
	PeriodHigh     float64  `json:"period_high"`
	PeriodLow      float64  `json:"period_low"`
	MA50           float64  `json:"ma50"`
	MA200          float64  `json:"ma200"`
	RSI14          *float64 `json:"rsi14,omitempty"` // nil when the range is too short
	Position       float64  `json:"position"`        // 0.0 ~ 1.0 within [PeriodLow, PeriodHigh]
}
