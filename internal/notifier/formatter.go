package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockCast/internal/predictor"
	"StockCast/internal/presenter"
)

// maxListed caps the forecast rows included in a chat message.
const maxListed = 10

// FormatForecast formats a forecast run into a Telegram message.
func FormatForecast(res *predictor.Result) string {
	var b strings.Builder
	last := res.History.Last()
	fc := res.Forecast.Points

	b.WriteString(fmt.Sprintf("📈 <b>%s forecast</b> | %s\n\n", html.EscapeString(res.Request.Symbol), last.Date.Format(time.DateOnly)))
	b.WriteString(fmt.Sprintf("Last close: %s\n", presenter.Price(last.Close)))
	final := fc[len(fc)-1]
	move := (final.Price - last.Close) / last.Close * 100
	b.WriteString(fmt.Sprintf("In %d business days: %s (%s)\n", len(fc), presenter.Price(final.Price), presenter.Change(move)))
	b.WriteString(fmt.Sprintf("Model: %s, %d closes\n\n", res.Model.Order, res.History.Len()))

	b.WriteString("<pre>")
	for i, p := range fc {
		if i == maxListed {
			b.WriteString(fmt.Sprintf("… %d more\n", len(fc)-maxListed))
			break
		}
		b.WriteString(fmt.Sprintf("%s  %10s\n", p.Date.Format(time.DateOnly), presenter.Price(p.Price)))
	}
	b.WriteString("</pre>")
	return b.String()
}

// FormatFailure formats a failed run.
func FormatFailure(symbol string, err error) string {
	icon := "❌"
	if predictor.Classify(err) == predictor.SeverityWarning {
		icon = "⚠️"
	}
	return fmt.Sprintf("%s <b>%s</b>: %s", icon, html.EscapeString(symbol), html.EscapeString(predictor.UserMessage(err)))
}

// HelpText lists the supported chat commands.
func HelpText() string {
	return "Available commands:\n" +
		"• /forecast SYMBOL [DAYS] (forecast 1-90 business days, default 30)\n" +
		"• /help"
}
