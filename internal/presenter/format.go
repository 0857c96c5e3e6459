package presenter

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// NA is shown for figures the provider did not supply.
const NA = "N/A"

// Price formats a price with two decimals, rounding half away from zero.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a percentage with a sign and two decimals. Zero means
// unknown and is shown as N/A.
func Percent(v float64) string {
	if v == 0 {
		return NA
	}
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Change formats a daily move; unlike Percent a zero move is shown.
func Change(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Ratio formats a plain multiple such as P/E.
func Ratio(v float64) string {
	if v == 0 {
		return NA
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Oscillator formats a 0-100 indicator reading. Nil means the series was too
// short to compute it.
func Oscillator(v *float64) string {
	if v == nil {
		return NA
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

// MarketCap formats a capitalisation with an SI suffix, e.g. "$2.95T".
func MarketCap(v float64) string {
	if v <= 0 {
		return NA
	}
	s := humanize.SIWithDigits(v, 2, "")
	s = strings.Replace(s, " ", "", 1)
	// SI uses G for 1e9; markets say B.
	s = strings.Replace(s, "G", "B", 1)
	return "$" + s
}

// Employees formats a head count with thousands separators.
func Employees(n int64) string {
	if n <= 0 {
		return NA
	}
	return humanize.Comma(n)
}

// Age formats how long ago t was relative to now.
func Age(t, now time.Time) string {
	if t.IsZero() {
		return NA
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Text returns s, or N/A when it is empty.
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}
