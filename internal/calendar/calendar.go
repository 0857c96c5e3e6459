// Package calendar provides weekday arithmetic for daily price series.
// Exchange holidays are not modelled: every Monday to Friday is a business day.
package calendar

import "time"

// Date truncates t to midnight UTC of its calendar date in t's own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay reports whether t falls on Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// NextBusinessDay returns the first business day strictly after t's date.
func NextBusinessDay(t time.Time) time.Time {
	d := Date(t).AddDate(0, 0, 1)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// NextBusinessDays returns the n business days strictly after t's date.
func NextBusinessDays(t time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, 0, n)
	d := Date(t)
	for len(days) < n {
		d = NextBusinessDay(d)
		days = append(days, d)
	}
	return days
}
