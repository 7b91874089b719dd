// Package gdot adapts the Georgia DOT construction-project feature service
// into the common project model.
package gdot

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/construction"
	"github.com/radpocket/radpocket/internal/geo"
	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/sites"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "gdot"

	// DefaultBaseURL is the GDOT ArcGIS feature-service query endpoint.
	DefaultBaseURL = "https://services1.arcgis.com/wQz8f8XhJWjB3nBq/arcgis/rest/services/Construction_Projects/FeatureServer/0/query"

	// DefaultRadiusMiles is the search distance around a site.
	DefaultRadiusMiles = 10
)

// finishedPattern matches project statuses that no longer affect traffic.
var finishedPattern = regexp.MustCompile(`(?i)complete|closed`)

// ClientConfig holds configuration for the GDOT client.
type ClientConfig struct {
	// BaseURL overrides the query endpoint (used in tests).
	BaseURL string

	// RadiusMiles overrides the search distance.
	RadiusMiles int

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client queries active construction projects near a point.
type Client struct {
	baseURL string
	radius  int
	fetcher *fetch.Client
	logger  zerolog.Logger
}

// NewClient creates a GDOT client.
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

// Projects fetches active construction projects within the search radius of
// a site. Finished projects are filtered out. A site without coordinates
// yields no projects and no network call.
func (c *Client) Projects(ctx context.Context, site sites.Site) ([]construction.Project, error) {
	if !geo.Valid(site.Lat, site.Lon) {
		return nil, nil
	}

	params := url.Values{}
	params.Set("geometry", fmt.Sprintf("%.4f,%.4f", site.Lon, site.Lat))
	params.Set("geometryType", "esriGeometryPoint")
	params.Set("inSR", "4326")
	params.Set("spatialRel", "esriSpatialRelIntersects")
	params.Set("distance", fmt.Sprintf("%d", c.radius))
	params.Set("units", "esriSRUnit_StatuteMile")
	params.Set("outFields", "PROJECT_ID,PROJECT_NAME,STATUS,ROAD_NAME,COUNTY")
	params.Set("returnGeometry", "false")
	params.Set("f", "json")

	var raw queryResponse
	if err := c.fetcher.GetJSON(ctx, c.baseURL+"?"+params.Encode(), &raw); err != nil {
		c.logger.Debug().Err(err).Str("site", site.ID).Msg("gdot returned no data")
		return nil, nil
	}

	return toProjects(&raw), nil
}

// toProjects maps feature attributes into projects, dropping finished work.
func toProjects(raw *queryResponse) []construction.Project {
	out := make([]construction.Project, 0, len(raw.Features))
	for _, f := range raw.Features {
		a := f.Attributes
		if finishedPattern.MatchString(a.Status) {
			continue
		}
		title := strings.TrimSpace(a.ProjectName)
		if title == "" {
			title = strings.TrimSpace(a.RoadName)
		}
		if title == "" {
			continue
		}
		out = append(out, construction.Project{
			ID:      "gdot-" + a.ProjectID,
			Title:   title,
			Status:  a.Status,
			Roadway: a.RoadName,
			County:  a.County,
			Source:  "GDOT",
		})
	}
	return out
}

// ArcGIS feature-service response structures.

type queryResponse struct {
	Features []struct {
		Attributes struct {
			ProjectID   string `json:"PROJECT_ID"`
			ProjectName string `json:"PROJECT_NAME"`
			Status      string `json:"STATUS"`
			RoadName    string `json:"ROAD_NAME"`
			County      string `json:"COUNTY"`
		} `json:"attributes"`
	} `json:"features"`
}
