// Package nws adapts the National Weather Service API. Forecasts are a
// two-stage lookup: a points request resolves coordinates to per-zone
// forecast URLs, then the daily and hourly period lists are fetched from
// those URLs.
package nws

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/geo"
	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/sites"
	"github.com/radpocket/radpocket/internal/weather"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "nws"

	// DefaultBaseURL is the NWS API base URL.
	DefaultBaseURL = "https://api.weather.gov"
)

// ClientConfig holds configuration for the NWS client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (used in tests).
	BaseURL string

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an NWS API client.
type Client struct {
	baseURL string
	fetcher *fetch.Client
	logger  zerolog.Logger
}

// NewClient creates an NWS client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.Config{Name: ProviderName, Logger: cfg.Logger})
	}
	return &Client{
		baseURL: baseURL,
		fetcher: fetcher,
		logger:  cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Forecast resolves a site's coordinates to its forecast zone and fetches
// the daily and hourly period lists, the hourly list in parallel with the
// daily one. Returns a nil bundle when the zone lookup yields no forecast
// URL. The hourly list is best-effort: a bundle with daily periods and no
// hourly periods is still returned.
func (c *Client) Forecast(ctx context.Context, site sites.Site) (*weather.ForecastBundle, error) {
	if !geo.Valid(site.Lat, site.Lon) {
		return nil, nil
	}

	var point pointsResponse
	url := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, site.Lat, site.Lon)
	if err := c.fetcher.GetJSON(ctx, url, &point); err != nil {
		return nil, fmt.Errorf("resolving forecast zone: %w", err)
	}
	if point.Properties.Forecast == "" {
		c.logger.Debug().Str("site", site.ID).Msg("no forecast url for point")
		return nil, nil
	}

	var (
		hourly    []weather.Period
		hourlyErr error
		wg        sync.WaitGroup
	)
	if point.Properties.ForecastHourly != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hourly, hourlyErr = c.periods(ctx, point.Properties.ForecastHourly)
		}()
	}

	daily, err := c.periods(ctx, point.Properties.Forecast)
	wg.Wait()
	if err != nil {
		return nil, fmt.Errorf("fetching daily forecast: %w", err)
	}
	if hourlyErr != nil {
		c.logger.Warn().Err(hourlyErr).Str("site", site.ID).Msg("hourly forecast unavailable")
		hourly = nil
	}

	return &weather.ForecastBundle{DailyPeriods: daily, HourlyPeriods: hourly}, nil
}

func (c *Client) periods(ctx context.Context, url string) ([]weather.Period, error) {
	var raw forecastResponse
	if err := c.fetcher.GetJSON(ctx, url, &raw); err != nil {
		return nil, err
	}
	return raw.Properties.Periods, nil
}

// NWS API response structures.

type pointsResponse struct {
	Properties struct {
		Forecast       string `json:"forecast"`
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []weather.Period `json:"periods"`
	} `json:"properties"`
}
