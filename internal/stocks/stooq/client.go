// Package stooq adapts the stooq.com daily CSV download into price points.
// This is the primary stock source: it needs no API key and one GET per
// symbol returns the full daily history.
package stooq

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/stocks"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "stooq"

	// DefaultBaseURL is the CSV download endpoint.
	DefaultBaseURL = "https://stooq.com/q/d/l/"
)

// ClientConfig holds configuration for the stooq client.
type ClientConfig struct {
	// BaseURL overrides the download endpoint (used in tests).
	BaseURL string

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client downloads daily price history as CSV.
type Client struct {
	baseURL string
	fetcher *fetch.Client
	logger  zerolog.Logger
}

// NewClient creates a stooq client.
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

// History fetches daily closes for a symbol, trying each symbol variant in
// order and stopping at the first one that yields a usable series.
func (c *Client) History(ctx context.Context, symbol string) ([]stocks.PricePoint, error) {
	var lastErr error
	for _, variant := range stocks.Variants(symbol) {
		url := fmt.Sprintf("%s?s=%s&i=d", c.baseURL, variant)
		text, err := c.fetcher.GetText(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		points := ParseCSV(text)
		if len(points) >= stocks.MinPoints {
			return points, nil
		}
		c.logger.Debug().Str("variant", variant).Int("points", len(points)).Msg("variant below minimum, trying next")
	}
	if lastErr != nil {
		return nil, fmt.Errorf("fetching %s history: %w", symbol, lastErr)
	}
	return nil, nil
}

// ParseCSV parses the daily download format. The first column is the date
// and the close is the "Close" column from the header; rows that fail to
// parse are skipped.
func ParseCSV(text string) []stocks.PricePoint {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	closeIdx := -1
	header := strings.Split(lines[0], ",")
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), "close") {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return nil
	}

	var out []stocks.PricePoint
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) <= closeIdx {
			continue
		}
		date := strings.TrimSpace(fields[0])
		close, err := strconv.ParseFloat(strings.TrimSpace(fields[closeIdx]), 64)
		if err != nil || date == "" {
			continue
		}
		out = append(out, stocks.PricePoint{Date: date, Close: close})
	}
	return out
}
