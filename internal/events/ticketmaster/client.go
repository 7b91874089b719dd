// Package ticketmaster adapts the Ticketmaster Discovery API into the common
// event model.
package ticketmaster

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
	ProviderName = "ticketmaster"

	// DefaultBaseURL is the Discovery API base URL.
	DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

	// DefaultRadiusMiles is the search radius around a site.
	DefaultRadiusMiles = 15

	// pageSize is the fixed page size for event queries.
	pageSize = 20
)

// ClientConfig holds configuration for the Ticketmaster client.
type ClientConfig struct {
	// APIKey is the Discovery API key. An empty key is a normal deployment
	// state: the client returns no events without calling the network.
	APIKey string

	// BaseURL overrides the API base URL (used in tests).
	BaseURL string

	// RadiusMiles overrides the search radius.
	RadiusMiles int

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Ticketmaster Discovery API client.
type Client struct {
	apiKey  string
	baseURL string
	radius  int
	fetcher *fetch.Client
	logger  zerolog.Logger
}

// NewClient creates a Ticketmaster client.
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
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		radius:  radius,
		fetcher: fetcher,
		logger:  cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Events fetches events near a site inside the date window. Returns no
// events without a network call when the API key is absent or the site has
// no usable coordinates.
func (c *Client) Events(ctx context.Context, site sites.Site, window events.DateRange) ([]events.Event, error) {
	if c.apiKey == "" || !geo.Valid(site.Lat, site.Lon) {
		return nil, nil
	}

	url := fmt.Sprintf("%s/events.json?apikey=%s&latlong=%.4f,%.4f&radius=%d&unit=miles&startDateTime=%s&endDateTime=%s&size=%d&sort=date,asc",
		c.baseURL, c.apiKey, site.Lat, site.Lon, c.radius, window.StartISO, window.EndISO, pageSize)

	var raw discoveryResponse
	if err := c.fetcher.GetJSON(ctx, url, &raw); err != nil {
		c.logger.Debug().Err(err).Str("site", site.ID).Msg("ticketmaster returned no data")
		return nil, nil
	}

	return toEvents(&raw), nil
}

// toEvents maps the Discovery payload into the common event model.
func toEvents(raw *discoveryResponse) []events.Event {
	out := make([]events.Event, 0, len(raw.Embedded.Events))
	for _, e := range raw.Embedded.Events {
		dateTime := e.Dates.Start.DateTime
		if dateTime == "" && e.Dates.Start.LocalDate != "" {
			dateTime = e.Dates.Start.LocalDate
			if e.Dates.Start.LocalTime != "" {
				dateTime += "T" + e.Dates.Start.LocalTime
			}
		}
		start := events.ParseStart(dateTime)

		label := events.FormatLabel(start)
		if label == "" {
			label = e.Dates.Start.LocalDate
		}

		venue := ""
		if len(e.Embedded.Venues) > 0 {
			venue = e.Embedded.Venues[0].Name
		}

		out = append(out, events.Event{
			ID:             "tm-" + e.ID,
			Title:          e.Name,
			DateTime:       dateTime,
			DateLabel:      label,
			StartTimestamp: start,
			Venue:          venue,
			Category:       events.InferCategory(e.Name, taxonomyCategory(e)),
			Source:         events.SourceTicketmaster,
			URL:            e.URL,
		})
	}
	return out
}

// taxonomyCategory maps the Discovery segment/genre taxonomy onto the common
// category vocabulary. Unknown segments yield no hint.
func taxonomyCategory(e discoveryEvent) events.Category {
	if len(e.Classifications) == 0 {
		return ""
	}
	cls := e.Classifications[0]
	switch cls.Segment.Name {
	case "Sports":
		return events.CategorySports
	case "Music":
		return events.CategoryConcert
	case "Arts & Theatre", "Film":
		return events.CategoryShow
	}
	if cls.Genre.Name == "Festival" {
		return events.CategoryFestival
	}
	return ""
}

// Discovery API response structures.

type discoveryResponse struct {
	Embedded struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
	} `json:"classifications"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
		} `json:"venues"`
	} `json:"_embedded"`
}
