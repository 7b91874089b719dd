// Package seatgeek adapts the SeatGeek events API into the common event
// model. SeatGeek is the only ticketing source that reports venue capacity,
// which feeds the traffic-impact classifier.
package seatgeek

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/geo"
	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/sites"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "seatgeek"

	// DefaultBaseURL is the SeatGeek API base URL.
	DefaultBaseURL = "https://api.seatgeek.com/2"

	// DefaultRadiusMiles is the search radius around a site.
	DefaultRadiusMiles = 15

	perPage = 20
)

// ClientConfig holds configuration for the SeatGeek client.
type ClientConfig struct {
	// ClientID is the SeatGeek API client id. Empty disables the adapter.
	ClientID string

	// BaseURL overrides the API base URL (used in tests).
	BaseURL string

	// RadiusMiles overrides the search radius.
	RadiusMiles int

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a SeatGeek API client.
type Client struct {
	clientID string
	baseURL  string
	radius   int
	fetcher  *fetch.Client
	logger   zerolog.Logger
}

// NewClient creates a SeatGeek client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
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
		clientID: cfg.ClientID,
		baseURL:  baseURL,
		radius:   radius,
		fetcher:  fetcher,
		logger:   cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Events fetches events near a site inside the date window. Returns no
// events without a network call when the client id is absent or the site has
// no usable coordinates.
func (c *Client) Events(ctx context.Context, site sites.Site, window events.DateRange) ([]events.Event, error) {
	if c.clientID == "" || !geo.Valid(site.Lat, site.Lon) {
		return nil, nil
	}

	// SeatGeek expects UTC bounds without the trailing Z.
	url := fmt.Sprintf("%s/events?client_id=%s&lat=%.4f&lon=%.4f&range=%dmi&datetime_utc.gte=%s&datetime_utc.lte=%s&per_page=%d",
		c.baseURL, c.clientID, site.Lat, site.Lon, c.radius,
		strings.TrimSuffix(window.StartISO, "Z"), strings.TrimSuffix(window.EndISO, "Z"), perPage)

	var raw eventsResponse
	if err := c.fetcher.GetJSON(ctx, url, &raw); err != nil {
		c.logger.Debug().Err(err).Str("site", site.ID).Msg("seatgeek returned no data")
		return nil, nil
	}

	return toEvents(&raw), nil
}

// toEvents maps the SeatGeek payload into the common event model.
func toEvents(raw *eventsResponse) []events.Event {
	out := make([]events.Event, 0, len(raw.Events))
	for _, e := range raw.Events {
		dateTime := e.DatetimeLocal
		if dateTime == "" {
			dateTime = e.DatetimeUTC
		}
		start := events.ParseStart(dateTime)

		out = append(out, events.Event{
			ID:             fmt.Sprintf("sg-%d", e.ID),
			Title:          e.Title,
			DateTime:       dateTime,
			DateLabel:      events.FormatLabel(start),
			StartTimestamp: start,
			Venue:          e.Venue.Name,
			Category:       events.InferCategory(e.Title, taxonomyCategory(e.Type)),
			Source:         events.SourceSeatGeek,
			URL:            e.URL,
			Capacity:       e.Venue.Capacity,
		})
	}
	return out
}

// taxonomyCategory maps SeatGeek event type strings onto the common category
// vocabulary.
func taxonomyCategory(eventType string) events.Category {
	t := strings.ToLower(eventType)
	switch {
	case t == "concert" || t == "music_festival":
		if t == "music_festival" {
			return events.CategoryFestival
		}
		return events.CategoryConcert
	case strings.HasPrefix(t, "sports") || t == "mlb" || t == "nba" || t == "nfl" || t == "nhl" || t == "mls":
		return events.CategorySports
	case t == "theater" || t == "comedy" || strings.Contains(t, "broadway"):
		return events.CategoryShow
	case strings.Contains(t, "festival"):
		return events.CategoryFestival
	}
	return ""
}

// SeatGeek API response structures.

type eventsResponse struct {
	Events []struct {
		ID            int64  `json:"id"`
		Title         string `json:"title"`
		Type          string `json:"type"`
		URL           string `json:"url"`
		DatetimeLocal string `json:"datetime_local"`
		DatetimeUTC   string `json:"datetime_utc"`
		Venue         struct {
			Name     string `json:"name"`
			Capacity int    `json:"capacity"`
		} `json:"venue"`
	} `json:"events"`
}
