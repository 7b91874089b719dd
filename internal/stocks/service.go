package stocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/radpocket/radpocket/pkg/batch"
)

// HistorySource fetches daily closes for one symbol.
type HistorySource interface {
	History(ctx context.Context, symbol string) ([]PricePoint, error)
	Name() string
}

// ServiceConfig holds configuration for the stock series service.
type ServiceConfig struct {
	// Primary is the CSV source, tried first for every symbol.
	Primary HistorySource

	// Fallback is the chart source, tried when the primary yields fewer
	// than MinPoints.
	Fallback HistorySource

	// DefaultSymbols is the ticker list refreshed in the background and
	// served when a request names no symbols.
	DefaultSymbols []string

	// Concurrency bounds how many symbols are fetched at once. Defaults
	// to 4.
	Concurrency int

	// BackoffUnit is the linear backoff multiplier between attempts.
	// Defaults to 1.2s, so retries wait 1.2s then 2.4s. Tests shrink it.
	BackoffUnit time.Duration

	// ExtraAttempts is how many retries follow a too-short first attempt.
	// Defaults to 2.
	ExtraAttempts uint64

	// CacheTTL bounds how long default-symbol results are served without
	// refetching. Defaults to 5 minutes.
	CacheTTL time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service aggregates per-symbol price series with source fallback and
// bounded retries.
type Service struct {
	primary       HistorySource
	fallback      HistorySource
	defaults      []string
	concurrency   int
	backoffUnit   time.Duration
	extraAttempts uint64
	ttl           time.Duration
	logger        zerolog.Logger

	mu        sync.RWMutex
	cached    []SeriesResult
	fetchedAt time.Time
}

// NewService creates a stock series service.
func NewService(cfg ServiceConfig) *Service {
	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = 4
	}
	backoffUnit := cfg.BackoffUnit
	if backoffUnit == 0 {
		backoffUnit = 1200 * time.Millisecond
	}
	extraAttempts := cfg.ExtraAttempts
	if extraAttempts == 0 {
		extraAttempts = 2
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		primary:       cfg.Primary,
		fallback:      cfg.Fallback,
		defaults:      cfg.DefaultSymbols,
		concurrency:   concurrency,
		backoffUnit:   backoffUnit,
		extraAttempts: extraAttempts,
		ttl:           ttl,
		logger:        cfg.Logger.With().Str("component", "stocks").Logger(),
	}
}

// DefaultSymbols returns the background-refreshed ticker list.
func (s *Service) DefaultSymbols() []string {
	return s.defaults
}

// Series fetches a series per symbol, at most four symbols in flight. Every
// symbol gets a result: fetch failures become error-status entries rather
// than aborting the batch.
func (s *Service) Series(ctx context.Context, symbols []string) []SeriesResult {
	results := batch.Run(ctx, symbols, s.concurrency, func(ctx context.Context, symbol string, _ int) (SeriesResult, error) {
		return s.fetchSeries(ctx, symbol), nil
	})
	return batch.Values(results)
}

// Cached returns the default-symbol results, refreshing them when the cache
// has expired.
func (s *Service) Cached(ctx context.Context) []SeriesResult {
	s.mu.RLock()
	cached, fetchedAt := s.cached, s.fetchedAt
	s.mu.RUnlock()

	if cached != nil && time.Since(fetchedAt) < s.ttl {
		return cached
	}
	return s.Refresh(ctx)
}

// Refresh re-fetches the default symbols and replaces the cache.
func (s *Service) Refresh(ctx context.Context) []SeriesResult {
	fresh := s.Series(ctx, s.defaults)

	s.mu.Lock()
	s.cached = fresh
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return fresh
}

// errTooFewPoints drives the retry loop when both sources come up short.
var errTooFewPoints = fmt.Errorf("fewer than %d data points", MinPoints)

// fetchSeries resolves one symbol: primary source, then fallback, retried
// with linear backoff when the series stays too short.
func (s *Service) fetchSeries(ctx context.Context, symbol string) SeriesResult {
	var points []PricePoint

	attempt := 0
	backoff := retry.WithMaxRetries(s.extraAttempts, retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * s.backoffUnit, false
	}))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		points = s.attempt(ctx, symbol)
		if len(points) < MinPoints {
			return retry.RetryableError(errTooFewPoints)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("symbol resolved to no usable series")
		return SeriesResult{Symbol: symbol, Status: StatusError, Error: err.Error()}
	}

	if len(points) > MaxPoints {
		points = points[len(points)-MaxPoints:]
	}
	return SeriesResult{Symbol: symbol, Status: StatusReady, Points: points}
}

// attempt runs one primary-then-fallback pass and returns the best series
// it produced.
func (s *Service) attempt(ctx context.Context, symbol string) []PricePoint {
	points, err := s.primary.History(ctx, symbol)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Str("source", s.primary.Name()).Msg("primary source failed")
	}
	if len(points) >= MinPoints {
		return points
	}

	if s.fallback == nil {
		return points
	}
	fbPoints, err := s.fallback.History(ctx, symbol)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Str("source", s.fallback.Name()).Msg("fallback source failed")
		return points
	}
	if len(fbPoints) > len(points) {
		return fbPoints
	}
	return points
}

// Summary formats a result list for log lines.
func Summary(results []SeriesResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("%s:%s", r.Symbol, r.Status))
	}
	return strings.Join(parts, " ")
}
