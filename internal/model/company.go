package model

import "time"

// CompanyProfile is the descriptive and fundamental data for a symbol.
// Zero values mean the provider did not report the field.
type CompanyProfile struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector,omitempty"`
	Industry      string  `json:"industry,omitempty"`
	Employees     int64   `json:"employees,omitempty"`
	Website       string  `json:"website,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Exchange      string  `json:"exchange,omitempty"`
	MarketCap     float64 `json:"market_cap,omitempty"`
	TrailingPE    float64 `json:"trailing_pe,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
}

// NewsItem is a single headline related to a symbol.
type NewsItem struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"published_at"`
	Link        string    `json:"link"`
}
