package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/construction"
	"github.com/radpocket/radpocket/internal/geo"
	"github.com/radpocket/radpocket/internal/sites"
	"github.com/radpocket/radpocket/pkg/batch"
)

// Per-site caps applied after merge, filter, and sort.
const (
	MaxEventsPerSite       = 6
	MaxConstructionPerSite = 4
)

// TicketSource fetches events near a site from one ticketing provider.
type TicketSource interface {
	Events(ctx context.Context, site sites.Site, window DateRange) ([]Event, error)
	Name() string
}

// ScheduleSource fetches the league home schedule, shared across all sites in
// a run, and decides which sites are close enough to the home venue to care.
type ScheduleSource interface {
	HomeGames(ctx context.Context, window DateRange) ([]Event, error)
	InRadius(site sites.Site) bool
}

// ConstructionSource fetches roadwork projects near a site.
type ConstructionSource interface {
	Projects(ctx context.Context, site sites.Site) ([]construction.Project, error)
}

// ServiceConfig holds configuration for the event aggregation service.
type ServiceConfig struct {
	// Sites are the facilities to aggregate for.
	Sites []sites.Site

	// Ticketing providers. Nil entries are skipped.
	Ticketmaster TicketSource
	SeatGeek     TicketSource

	// Schedule is the league schedule source. Nil disables league games.
	Schedule ScheduleSource

	// Construction is the roadwork source. Nil disables construction.
	Construction ConstructionSource

	// SiteConcurrency caps how many sites are aggregated at once.
	// Default: 3.
	SiteConcurrency int

	// FetchConcurrency caps the per-site provider fetches in flight.
	// Default: 3.
	FetchConcurrency int

	// CacheTTL is how long an aggregation result is served before a new
	// run. Default: 5 minutes.
	CacheTTL time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service aggregates events and construction into per-site cards.
type Service struct {
	sites            []sites.Site
	ticketmaster     TicketSource
	seatgeek         TicketSource
	schedule         ScheduleSource
	construction     ConstructionSource
	siteConcurrency  int
	fetchConcurrency int
	cacheTTL         time.Duration
	logger           zerolog.Logger

	mu        sync.RWMutex
	cached    []SiteCard
	fetchedAt time.Time
}

// NewService creates an event aggregation service.
func NewService(cfg ServiceConfig) *Service {
	siteConcurrency := cfg.SiteConcurrency
	if siteConcurrency == 0 {
		siteConcurrency = 3
	}
	fetchConcurrency := cfg.FetchConcurrency
	if fetchConcurrency == 0 {
		fetchConcurrency = 3
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		sites:            cfg.Sites,
		ticketmaster:     cfg.Ticketmaster,
		seatgeek:         cfg.SeatGeek,
		schedule:         cfg.Schedule,
		construction:     cfg.Construction,
		siteConcurrency:  siteConcurrency,
		fetchConcurrency: fetchConcurrency,
		cacheTTL:         cacheTTL,
		logger:           cfg.Logger,
	}
}

// Cards returns the current per-site cards, running a fresh aggregation when
// the cached result has expired. Never returns an error: every failure mode
// is folded into a card's status.
func (s *Service) Cards(ctx context.Context) []SiteCard {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < s.cacheTTL {
		cards := s.cached
		s.mu.RUnlock()
		return cards
	}
	s.mu.RUnlock()

	return s.Aggregate(ctx)
}

// Aggregate runs a full aggregation: one shared date window and league
// schedule fetch, then per-site provider fan-out with bounded concurrency.
// One SiteCard is returned for every configured site regardless of provider
// failures.
func (s *Service) Aggregate(ctx context.Context) []SiteCard {
	window := NewDateRange(time.Now())

	// The league schedule is independent of site coordinates; fetch it once
	// and share across sites.
	var games []Event
	if s.schedule != nil {
		g, err := s.schedule.HomeGames(ctx, window)
		if err != nil {
			s.logger.Warn().Err(err).Msg("league schedule fetch failed, continuing without games")
		} else {
			games = g
		}
	}

	results := batch.Run(ctx, s.sites, s.siteConcurrency, func(ctx context.Context, site sites.Site, _ int) (SiteCard, error) {
		return s.siteCard(ctx, site, window, games), nil
	})

	cards := make([]SiteCard, 0, len(results))
	for _, r := range results {
		cards = append(cards, r.Value)
	}

	s.mu.Lock()
	s.cached = cards
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return cards
}

// siteCard aggregates one site: concurrent provider fetches, merge with
// in-radius league games, dedupe, traffic-impact filter, sort, cap.
func (s *Service) siteCard(ctx context.Context, site sites.Site, window DateRange, games []Event) SiteCard {
	card := SiteCard{
		Site:         site,
		Status:       StatusReady,
		Events:       []Event{},
		Construction: []construction.Project{},
	}

	if !geo.Valid(site.Lat, site.Lon) {
		card.Status = StatusError
		card.Error = "site has no usable coordinates"
		return card
	}

	tasks := []string{"ticketmaster", "seatgeek", "construction"}
	results := batch.Run(ctx, tasks, s.fetchConcurrency, func(ctx context.Context, task string, _ int) (fetched, error) {
		switch task {
		case "ticketmaster":
			return s.ticketEvents(ctx, s.ticketmaster, site, window)
		case "seatgeek":
			return s.ticketEvents(ctx, s.seatgeek, site, window)
		default:
			if s.construction == nil {
				return fetched{}, nil
			}
			projects, err := s.construction.Projects(ctx, site)
			return fetched{projects: projects}, err
		}
	})

	var merged []Event
	for i, r := range results {
		if r.Err != nil {
			s.logger.Warn().Err(r.Err).Str("task", tasks[i]).Str("site", site.ID).Msg("provider fetch failed")
			continue
		}
		merged = append(merged, r.Value.events...)
		if len(r.Value.projects) > 0 {
			projects := r.Value.projects
			if len(projects) > MaxConstructionPerSite {
				projects = projects[:MaxConstructionPerSite]
			}
			card.Construction = projects
		}
	}

	if s.schedule != nil && len(games) > 0 && s.schedule.InRadius(site) {
		merged = append(merged, games...)
	}

	merged = Dedupe(merged)
	merged = FilterTrafficImpacting(merged)
	SortByStart(merged)
	card.Events = Cap(merged, MaxEventsPerSite)

	return card
}

// fetched carries the outcome of one per-site provider task.
type fetched struct {
	events   []Event
	projects []construction.Project
}

func (s *Service) ticketEvents(ctx context.Context, src TicketSource, site sites.Site, window DateRange) (fetched, error) {
	if src == nil {
		return fetched{}, nil
	}
	evts, err := src.Events(ctx, site, window)
	return fetched{events: evts}, err
}
