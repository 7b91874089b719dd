// Package yahoo adapts the Yahoo Finance chart endpoint into price points.
// It is the fallback stock source, used when the CSV source yields too few
// points for a symbol.
package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/stocks"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "yahoo"

	// DefaultBaseURL is the chart API base URL.
	DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
)

// ClientConfig holds configuration for the Yahoo client.
type ClientConfig struct {
	// BaseURL overrides the chart endpoint (used in tests).
	BaseURL string

	// Fetcher is the fetch-with-fallback client. If nil, a default is built.
	Fetcher *fetch.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches daily closes from the chart endpoint.
type Client struct {
	baseURL string
	fetcher *fetch.Client
	logger  zerolog.Logger
}

// NewClient creates a Yahoo chart client.
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

// History fetches recent daily closes for a symbol. Class-share dots become
// dashes per the chart endpoint's symbol convention (BRK.B -> BRK-B).
func (c *Client) History(ctx context.Context, symbol string) ([]stocks.PricePoint, error) {
	chartSymbol := strings.ReplaceAll(strings.ToUpper(symbol), ".", "-")
	url := fmt.Sprintf("%s/%s?interval=1d&range=1mo", c.baseURL, chartSymbol)

	var raw chartResponse
	if err := c.fetcher.GetJSON(ctx, url, &raw); err != nil {
		return nil, fmt.Errorf("fetching %s chart: %w", symbol, err)
	}

	return toPoints(&raw), nil
}

// toPoints pairs the timestamp and close arrays, skipping null closes
// (market holidays leave gaps in the chart arrays).
func toPoints(raw *chartResponse) []stocks.PricePoint {
	if len(raw.Chart.Result) == 0 {
		return nil
	}
	result := raw.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close

	var out []stocks.PricePoint
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		out = append(out, stocks.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *closes[i],
		})
	}
	return out
}

// Chart API response structures.

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}
