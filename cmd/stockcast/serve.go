package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockCast/internal/scheduler"
	"StockCast/internal/web"
)

func newServeCmd(opts *options) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard, scheduler and Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := opts.bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer closeApp(a)
			cfg := a.Config
			a.Log.Info("StockCast starting", zap.String("version", version))

			var n scheduler.Notifier
			if a.Notifier != nil {
				n = a.Notifier
			}
			sched := scheduler.NewScheduler(ctx, a.Predictor, n, a.Purger(), scheduler.Options{
				Watchlist:     cfg.Schedule.Watchlist,
				Horizon:       cfg.Forecast.DefaultHorizon,
				TrainingYears: cfg.Forecast.TrainingYears,
			}, a.Log)
			if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if a.Notifier != nil {
				go a.Notifier.StartPolling(ctx, sched.HandleCommand)
				a.Log.Info("telegram polling started")
			}
			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				a.Log.Info("running watchlist refresh now")
				go sched.RunRefreshNow()
			}

			srv, err := web.NewServer(web.Deps{
				Predictor: a.Predictor,
				Analyzer:  a.Analyzer,
				History:   a.Loader,
				Runs:      a.Recorder,
				Defaults: web.Defaults{
					PredictionSymbol: cfg.Forecast.DefaultSymbol,
					Horizon:          cfg.Forecast.DefaultHorizon,
					TrainingYears:    cfg.Forecast.TrainingYears,
				},
				Log: a.Log,
			})
			if err != nil {
				return err
			}
			err = srv.ListenAndServe(ctx, cfg.Server.Addr)
			a.Log.Info("StockCast stopped")
			return err
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Refresh the watchlist immediately")
	return cmd
}
