// Package fetch implements the shared fetch-with-fallback primitive used by
// every provider adapter. A request that fails directly is retried once
// through a public read-through text mirror; mirror bodies may carry wrapper
// formatting, which is stripped before parsing. Parse failures resolve to
// ErrNoData rather than surfacing to callers: downstream code treats missing
// data as a normal degraded state, not an error to propagate.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/provider/resilience"
)

// ErrNoData signals that neither the direct request nor the mirror fallback
// produced a parseable payload. Callers treat it as "no data for this
// source", never as a failure to surface.
var ErrNoData = errors.New("no data from provider")

// maxBodyBytes caps how much of a provider response is read. The largest
// legitimate payloads (hourly forecast periods) are well under 1 MiB.
const maxBodyBytes = 4 << 20

var (
	fallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radpocket_fetch_mirror_fallback_total",
		Help: "Number of requests that fell back to the read-through mirror.",
	}, []string{"provider"})

	noDataTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radpocket_fetch_no_data_total",
		Help: "Number of requests that resolved to no data after all fallbacks.",
	}, []string{"provider"})
)

// Config holds configuration for a fetch client.
type Config struct {
	// Name identifies the provider for logging, metrics, and the breaker.
	Name string

	// MirrorBaseURL is the read-through mirror prefix; the original URL is
	// appended verbatim. Empty disables the mirror fallback.
	MirrorBaseURL string

	// Client is the resilient HTTP client. If nil, a default client named
	// after the provider is created.
	Client *resilience.Client

	// Registry receives success/failure outcomes when non-nil.
	Registry *resilience.Registry

	// Logger for fetch operations.
	Logger zerolog.Logger
}

// Client performs provider requests with the mirror fallback.
type Client struct {
	name     string
	mirror   string
	client   *resilience.Client
	registry *resilience.Registry
	logger   zerolog.Logger
}

// New creates a fetch client.
func New(cfg Config) *Client {
	client := cfg.Client
	if client == nil {
		client = resilience.NewClient(resilience.DefaultConfig(cfg.Name))
	}
	if cfg.Registry != nil {
		cfg.Registry.Register(client)
	}
	return &Client{
		name:     cfg.Name,
		mirror:   cfg.MirrorBaseURL,
		client:   client,
		registry: cfg.Registry,
		logger:   cfg.Logger,
	}
}

// GetJSON fetches rawURL and decodes the JSON body into v. On a failed or
// unparseable direct response it retries once through the mirror, stripping
// any non-JSON wrapper before decoding. Returns ErrNoData when both paths
// fail to yield JSON.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.get(ctx, rawURL)
	if err == nil {
		if decodeErr := json.Unmarshal(StripToJSON(body), v); decodeErr == nil {
			c.recordSuccess()
			return nil
		}
	}

	if c.mirror == "" {
		c.recordFailure(err)
		noDataTotal.WithLabelValues(c.name).Inc()
		return ErrNoData
	}

	fallbackTotal.WithLabelValues(c.name).Inc()
	c.logger.Debug().Str("provider", c.name).Str("url", rawURL).Msg("direct fetch failed, trying mirror")

	body, err = c.get(ctx, c.mirror+rawURL)
	if err == nil {
		if decodeErr := json.Unmarshal(StripToJSON(body), v); decodeErr == nil {
			c.recordSuccess()
			return nil
		}
	}

	c.recordFailure(err)
	noDataTotal.WithLabelValues(c.name).Inc()
	return ErrNoData
}

// GetText fetches rawURL as plain text, stripping any leading banner before
// the first "date," header line (the stock CSV sources prepend one when
// served through the mirror). Returns ErrNoData when no CSV header is found
// on either path.
func (c *Client) GetText(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL)
	if err == nil {
		if text, ok := StripToCSV(string(body)); ok {
			c.recordSuccess()
			return text, nil
		}
	}

	if c.mirror == "" {
		c.recordFailure(err)
		noDataTotal.WithLabelValues(c.name).Inc()
		return "", ErrNoData
	}

	fallbackTotal.WithLabelValues(c.name).Inc()

	body, err = c.get(ctx, c.mirror+rawURL)
	if err == nil {
		if text, ok := StripToCSV(string(body)); ok {
			c.recordSuccess()
			return text, nil
		}
	}

	c.recordFailure(err)
	noDataTotal.WithLabelValues(c.name).Inc()
	return "", ErrNoData
}

// get performs one GET and returns the body for 2xx responses.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &resilience.StatusError{StatusCode: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func (c *Client) recordSuccess() {
	if c.registry != nil {
		c.registry.RecordSuccess(c.name)
	}
}

func (c *Client) recordFailure(err error) {
	if c.registry != nil {
		c.registry.RecordFailure(c.name, err)
	}
}

// StripToJSON returns the body from the first '{' onward, dropping any
// wrapper text a mirror may prepend. Bodies without a '{' are returned
// unchanged and left for the JSON decoder to reject.
func StripToJSON(body []byte) []byte {
	if i := bytes.IndexByte(body, '{'); i > 0 {
		return body[i:]
	}
	return body
}

// StripToCSV returns the text from the first line beginning with "date,"
// (case-insensitive) onward. The second return is false when no such header
// line exists.
func StripToCSV(text string) (string, bool) {
	offset := 0
	for {
		line := text[offset:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "date,") {
			return text[offset:], true
		}
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return "", false
		}
		offset += i + 1
	}
}
