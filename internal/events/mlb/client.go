// Package mlb adapts the MLB Stats API schedule into the common event model.
// Home games at the tracked ballpark always count as traffic-impacting, so
// the schedule is fetched once per aggregation and merged into every site
// within driving distance of the park.
package mlb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/geo"
	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/sites"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "mlb"

	// DefaultBaseURL is the MLB Stats API base URL.
	DefaultBaseURL = "https://statsapi.mlb.com/api/v1"

	// DefaultTeamID is the Atlanta Braves.
	DefaultTeamID = 144

	// DefaultRadiusMiles bounds which sites receive home games. Sites
	// farther than this from the ballpark see no game-day traffic.
	DefaultRadiusMiles = 25

	// BallparkCapacity is the seating capacity of Truist Park.
	BallparkCapacity = 41084
)

// Ballpark coordinates (Truist Park).
const (
	ballparkLat = 33.8907
	ballparkLon = -84.4677
)

// ClientConfig holds configuration for the MLB schedule client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (used in tests).
	BaseURL string

	// TeamID is the tracked home team. Zero selects the default.
	TeamID int

	// RadiusMiles overrides the ballpark proximity radius.
	RadiusMiles float64

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches the league schedule for one team's home games.
type Client struct {
	baseURL string
	teamID  int
	radius  float64
	fetcher *fetch.Client
	logger  zerolog.Logger
}

// NewClient creates an MLB schedule client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	teamID := cfg.TeamID
	if teamID == 0 {
		teamID = DefaultTeamID
	}
	radius := cfg.RadiusMiles
	if radius == 0 {
		radius = DefaultRadiusMiles
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.Config{Name: ProviderName, Logger: cfg.Logger})
	}
	return &Client{
		baseURL: baseURL,
		teamID:  teamID,
		radius:  radius,
		fetcher: fetcher,
		logger:  cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// InRadius reports whether a site is close enough to the ballpark for home
// games to matter. Sites without coordinates are never in radius.
func (c *Client) InRadius(site sites.Site) bool {
	if !geo.Valid(site.Lat, site.Lon) {
		return false
	}
	return geo.Miles(site.Lat, site.Lon, ballparkLat, ballparkLon) <= c.radius
}

// HomeGames fetches the tracked team's home games inside the date window.
// Away games in the schedule payload are filtered out.
func (c *Client) HomeGames(ctx context.Context, window events.DateRange) ([]events.Event, error) {
	url := fmt.Sprintf("%s/schedule?sportId=1&teamId=%d&startDate=%s&endDate=%s",
		c.baseURL, c.teamID, window.StartDate, window.EndDate)

	var raw scheduleResponse
	if err := c.fetcher.GetJSON(ctx, url, &raw); err != nil {
		return nil, fmt.Errorf("fetching league schedule: %w", err)
	}

	return c.toEvents(&raw), nil
}

// toEvents flattens schedule dates into home-game events.
func (c *Client) toEvents(raw *scheduleResponse) []events.Event {
	var out []events.Event
	for _, date := range raw.Dates {
		for _, game := range date.Games {
			if game.Teams.Home.Team.ID != c.teamID {
				continue
			}
			start := events.ParseStart(game.GameDate)
			venue := game.Venue.Name
			if venue == "" {
				venue = "Truist Park"
			}
			out = append(out, events.Event{
				ID:             fmt.Sprintf("mlb-%d", game.GamePk),
				Title:          fmt.Sprintf("%s vs %s", game.Teams.Home.Team.Name, game.Teams.Away.Team.Name),
				DateTime:       game.GameDate,
				DateLabel:      events.FormatLabel(start),
				StartTimestamp: start,
				Venue:          venue,
				Category:       events.CategorySports,
				Source:         events.SourceMLB,
				Capacity:       BallparkCapacity,
			})
		}
	}
	return out
}

// Stats API schedule response structures.

type scheduleResponse struct {
	Dates []struct {
		Games []struct {
			GamePk   int64  `json:"gamePk"`
			GameDate string `json:"gameDate"`
			Teams    struct {
				Home scheduleSide `json:"home"`
				Away scheduleSide `json:"away"`
			} `json:"teams"`
			Venue struct {
				Name string `json:"name"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleSide struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}
