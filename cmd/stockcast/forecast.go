package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"StockCast/internal/calendar"
	"StockCast/internal/predictor"
	"StockCast/internal/presenter"
)

func newForecastCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast SYMBOL",
		Short: "Forecast closing prices for a stock symbol",
		Long: `Fit ARIMA(5,1,0) to the daily closes since --start and project --days
business days ahead.
Example: stockcast forecast AAPL --start=2023-01-02 --days=30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := opts.bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer closeApp(a)

			today := calendar.Date(time.Now())
			start, err := parseDateFlag(cmd, "start", today.AddDate(-a.Config.Forecast.TrainingYears, 0, 0))
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")
			if days == 0 {
				days = a.Config.Forecast.DefaultHorizon
			}

			res, err := a.Predictor.Run(ctx, predictor.Request{Symbol: args[0], Start: start, Horizon: days})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), alertLine(err))
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res.Forecast)
			}
			out, err := renderMarkdown(presenter.ForecastMarkdown(res))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("completed in "+res.Elapsed.Round(time.Millisecond).String()))
			return nil
		},
	}
	cmd.Flags().String("start", "", "Training start date in YYYY-MM-DD format (default: training_years ago)")
	cmd.Flags().Int("days", 0, "Business days to forecast, 1-90 (default: forecast.default_horizon)")
	cmd.Flags().Bool("json", false, "Print the forecast as JSON")
	return cmd
}
