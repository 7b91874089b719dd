// Package worker provides the background refresh loop that keeps the
// aggregation caches warm, so client requests are served from memory instead
// of waiting on provider fan-out.
package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/stocks"
	"github.com/radpocket/radpocket/internal/weather"
)

// EventSource re-aggregates the per-site traffic cards.
type EventSource interface {
	Aggregate(ctx context.Context) []events.SiteCard
}

// StockSource re-fetches the default symbol series.
type StockSource interface {
	Refresh(ctx context.Context) []stocks.SeriesResult
}

// ForecastSource re-fetches the forecast bundle.
type ForecastSource interface {
	Refresh(ctx context.Context) *weather.ForecastBundle
}

// RefreshConfig holds configuration for the refresh loop.
type RefreshConfig struct {
	// Interval between refresh runs.
	Interval time.Duration

	// Timeout bounds one full refresh run. Default: 60 seconds.
	Timeout time.Duration

	// Sources. Nil entries are skipped.
	Events   EventSource
	Stocks   StockSource
	Forecast ForecastSource

	// Logger for refresh operations.
	Logger zerolog.Logger
}

// Refresher runs the periodic cache refresh.
type Refresher struct {
	interval  time.Duration
	timeout   time.Duration
	events    EventSource
	stocks    StockSource
	forecast  ForecastSource
	logger    zerolog.Logger
	scheduler *gocron.Scheduler
}

// NewRefresher creates a refresh loop.
func NewRefresher(cfg RefreshConfig) *Refresher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Refresher{
		interval: cfg.Interval,
		timeout:  timeout,
		events:   cfg.Events,
		stocks:   cfg.Stocks,
		forecast: cfg.Forecast,
		logger:   cfg.Logger.With().Str("component", "refresh").Logger(),
	}
}

// Start runs one immediate warm-up refresh, then schedules runs on the
// configured interval. Call Stop to shut the scheduler down.
func (r *Refresher) Start() error {
	r.RunOnce(context.Background())

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(r.interval).SingletonMode().Do(func() {
		r.RunOnce(context.Background())
	}); err != nil {
		return err
	}
	scheduler.StartAsync()
	r.scheduler = scheduler

	r.logger.Info().Dur("interval", r.interval).Msg("background refresh started")
	return nil
}

// Stop halts the refresh schedule.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}

// RunOnce refreshes every configured source once.
func (r *Refresher) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()

	if r.events != nil {
		cards := r.events.Aggregate(ctx)
		ready := 0
		for _, c := range cards {
			if c.Status == events.StatusReady {
				ready++
			}
		}
		r.logger.Debug().Int("sites", len(cards)).Int("ready", ready).Msg("traffic cards refreshed")
	}

	if r.stocks != nil {
		results := r.stocks.Refresh(ctx)
		r.logger.Debug().Str("series", stocks.Summary(results)).Msg("stock series refreshed")
	}

	if r.forecast != nil {
		bundle := r.forecast.Refresh(ctx)
		if bundle == nil {
			r.logger.Warn().Msg("forecast refresh produced no bundle")
		} else {
			r.logger.Debug().Int("daily", len(bundle.DailyPeriods)).Msg("forecast refreshed")
		}
	}

	r.logger.Info().Dur("took", time.Since(start)).Msg("refresh run completed")
}
