package weather

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/sites"
)

// ForecastSource resolves a site to its forecast bundle.
type ForecastSource interface {
	Forecast(ctx context.Context, site sites.Site) (*ForecastBundle, error)
	Name() string
}

// ServiceConfig holds configuration for the forecast service.
type ServiceConfig struct {
	// Source provides forecast bundles.
	Source ForecastSource

	// SiteID selects the forecast site. Unknown or empty ids fall back to
	// the default facility.
	SiteID string

	// CacheTTL bounds how long a bundle is served without refetching.
	// Defaults to 10 minutes.
	CacheTTL time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service fetches and caches the forecast bundle for the configured site.
// The last good bundle keeps being served when a refresh fails.
type Service struct {
	source ForecastSource
	site   sites.Site
	ttl    time.Duration
	logger zerolog.Logger

	mu        sync.RWMutex
	bundle    *ForecastBundle
	fetchedAt time.Time
}

// NewService creates a forecast service.
func NewService(cfg ServiceConfig) *Service {
	site, ok := sites.ByID(cfg.SiteID)
	if !ok {
		site = sites.Default()
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		source: cfg.Source,
		site:   site,
		ttl:    ttl,
		logger: cfg.Logger.With().Str("component", "weather").Logger(),
	}
}

// Site returns the resolved forecast site.
func (s *Service) Site() sites.Site {
	return s.site
}

// Bundle returns the current forecast bundle, refreshing it when the cache
// has expired. A failed refresh serves the last good bundle; nil means no
// forecast has ever been fetched successfully.
func (s *Service) Bundle(ctx context.Context) *ForecastBundle {
	s.mu.RLock()
	bundle, fetchedAt := s.bundle, s.fetchedAt
	s.mu.RUnlock()

	if bundle != nil && time.Since(fetchedAt) < s.ttl {
		return bundle
	}
	return s.Refresh(ctx)
}

// Refresh fetches a fresh bundle, replacing the cache on success. On failure
// the previous bundle is returned unchanged.
func (s *Service) Refresh(ctx context.Context) *ForecastBundle {
	fresh, err := s.source.Forecast(ctx, s.site)
	if err != nil || fresh == nil {
		s.logger.Warn().Err(err).Str("site", s.site.ID).Msg("forecast refresh failed, serving last good bundle")
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.bundle
	}

	s.mu.Lock()
	s.bundle = fresh
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	s.logger.Debug().Int("daily", len(fresh.DailyPeriods)).Int("hourly", len(fresh.HourlyPeriods)).Msg("forecast refreshed")
	return fresh
}
