package collector

import (
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/calendar"
)

func TestChartBars_ExchangeLocalDates(t *testing.T) {
	// Tokyo sessions are stamped at local midnight, the previous day in UTC.
	tue := time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC).Unix()
	mon := time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC).Unix()
	raw := []*finance.ChartBar{
		{Timestamp: int(tue), Close: decimal.NewFromFloat(2710.5), Volume: 1200},
		{Timestamp: int(mon), Close: decimal.NewFromFloat(2698), Volume: 900},
		{Timestamp: int(mon) + 3600, Close: decimal.Zero},
		nil,
	}
	meta := finance.ChartMeta{ExchangeTimezoneName: "Asia/Tokyo", Gmtoffset: 9 * 3600}

	bars := chartBars(raw, meta)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), calendar.Date(bars[0].Time))
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), calendar.Date(bars[1].Time))
	assert.Equal(t, 2698.0, bars[0].Close)
	assert.Equal(t, 1200.0, bars[1].Volume)
}

func TestChartBars_MissingMetaUsesUTC(t *testing.T) {
	ts := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC).Unix()
	bars := chartBars([]*finance.ChartBar{{Timestamp: int(ts), Close: decimal.NewFromInt(10)}}, finance.ChartMeta{})
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), calendar.Date(bars[0].Time))
}
