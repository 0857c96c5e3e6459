package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockCast/internal/app"
	"StockCast/internal/config"
	"StockCast/internal/logger"
)

var version = "dev"

// options are the global flags shared by every subcommand.
type options struct {
	configPath string
	provider   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "stockcast",
		Short: "StockCast - stock analysis and ARIMA price forecasting",
		Long: `StockCast retrieves daily closing prices, fits an ARIMA(5,1,0) model and
projects prices up to 90 business days ahead. Run "stockcast serve" for the
web dashboard or use the forecast and analyze commands from the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file path (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "Override the data provider (yahoo, financego, rest, mock)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the log level")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newForecastCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadConfig applies flag overrides on top of the file and environment.
func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.provider != "" {
		cfg.DataSource.Provider = o.provider
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// bootstrap loads config, builds the logger and wires the components.
// Terminal commands log at warn unless asked otherwise.
func (o *options) bootstrap(ctx context.Context, quiet bool) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if quiet && o.logLevel == "" {
		level = "warn"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Log.Warn("close", zap.Error(err))
	}
	_ = a.Log.Sync()
}

func parseDateFlag(cmd *cobra.Command, name string, def time.Time) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("StockCast "+version))
			fmt.Fprintln(cmd.OutOrStdout(), "Stock analysis and ARIMA(5,1,0) forecasting")
		},
	}
}
