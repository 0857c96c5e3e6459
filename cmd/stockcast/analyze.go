package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"StockCast/internal/calendar"
	"StockCast/internal/presenter"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Show price history metrics, company profile and news",
		Long: `Summarise a symbol between --start and --end: closing-price metrics,
company fundamentals where the provider supplies them, and recent headlines.
Example: stockcast analyze TSLA --start=2024-01-02`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := opts.bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer closeApp(a)

			today := calendar.Date(time.Now())
			start, err := parseDateFlag(cmd, "start", today.AddDate(-1, 0, 0))
			if err != nil {
				return err
			}
			end, err := parseDateFlag(cmd, "end", today)
			if err != nil {
				return err
			}

			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			rep, err := a.Analyzer.Analyze(ctx, symbol, start, end)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), alertLine(err))
				return err
			}
			out, err := renderMarkdown(presenter.AnalysisMarkdown(rep, time.Now()))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("start", "", "Start date in YYYY-MM-DD format (default: one year ago)")
	cmd.Flags().String("end", "", "End date in YYYY-MM-DD format (default: today)")
	return cmd
}
