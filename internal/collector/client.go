package collector

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "Mozilla/5.0 (compatible; StockCast/1.0)"

// newHTTPClient builds the resty client shared by the HTTP fetchers.
func newHTTPClient(proxyURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		c.SetProxy(proxyURL)
	}
	return c
}
