package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockCast/internal/calendar"
	"StockCast/internal/notifier"
	"StockCast/internal/predictor"
)

// purgeCron runs the cache purge at the top of every minute.
const purgeCron = "0 * * * * *"

// Forecaster is satisfied by *predictor.Predictor.
type Forecaster interface {
	Run(ctx context.Context, req predictor.Request) (*predictor.Result, error)
}

// Notifier is satisfied by *notifier.TelegramNotifier.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Purger drops expired cache entries. *cache.Memory satisfies it.
type Purger interface {
	Purge() int
}

// Options configures the watchlist refresh.
type Options struct {
	Watchlist     []string
	Horizon       int
	TrainingYears int
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Predictor Forecaster
	Notifier  Notifier
	Cache     Purger
	Opts      Options
	Log       *zap.Logger
	Ctx       context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler. n and purger may be nil.
func NewScheduler(ctx context.Context, p Forecaster, n Notifier, purger Purger, opts Options, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Horizon == 0 {
		opts.Horizon = 30
	}
	if opts.TrainingYears == 0 {
		opts.TrainingYears = 2
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Predictor: p,
		Notifier:  n,
		Cache:     purger,
		Opts:      opts,
		Log:       log,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the watchlist refresh and the cache purge.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if len(s.Opts.Watchlist) > 0 {
		if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	} else {
		s.Log.Info("watchlist empty, refresh task not scheduled")
	}
	if s.Cache != nil {
		if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
			return fmt.Errorf("register purge task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunRefreshNow executes the watchlist refresh immediately (for RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) request(symbol string, horizon int) predictor.Request {
	today := calendar.Date(s.now())
	return predictor.Request{
		Symbol:  symbol,
		Start:   today.AddDate(-s.Opts.TrainingYears, 0, 0),
		Horizon: horizon,
	}
}

func (s *Scheduler) refreshTask() {
	s.Log.Info("running watchlist refresh", zap.Strings("symbols", s.Opts.Watchlist))
	ok := 0
	for _, symbol := range s.Opts.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		res, err := s.Predictor.Run(s.Ctx, s.request(symbol, s.Opts.Horizon))
		if err != nil {
			s.trySend(notifier.FormatFailure(symbol, err))
			continue
		}
		ok++
		s.trySend(notifier.FormatForecast(res))
	}
	s.Log.Info("watchlist refresh done", zap.Int("ok", ok), zap.Int("total", len(s.Opts.Watchlist)))
}

func (s *Scheduler) purgeTask() {
	if n := s.Cache.Purge(); n > 0 {
		s.Log.Debug("cache purged", zap.Int("entries", n))
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// Group chats address bots as /cmd@BotName.
	cmd, _, _ := strings.Cut(fields[0], "@")

	switch strings.ToLower(cmd) {
	case "/forecast":
		if len(fields) < 2 {
			return "Usage: /forecast SYMBOL [DAYS]"
		}
		symbol := strings.ToUpper(fields[1])
		horizon := s.Opts.Horizon
		if len(fields) > 2 {
			h, err := strconv.Atoi(fields[2])
			if err != nil {
				return notifier.FormatFailure(symbol,
					fmt.Errorf("%w: DAYS must be a whole number", predictor.ErrInvalidInput))
			}
			horizon = h
		}
		res, err := s.Predictor.Run(ctx, s.request(symbol, horizon))
		if err != nil {
			return notifier.FormatFailure(symbol, err)
		}
		return notifier.FormatForecast(res)
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error("send notification", zap.Error(err))
	}
}
