package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpocket/radpocket/internal/api"
	"github.com/radpocket/radpocket/internal/api/middleware"
	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/provider/resilience"
	"github.com/radpocket/radpocket/internal/sites"
	"github.com/radpocket/radpocket/internal/stocks"
	"github.com/radpocket/radpocket/internal/weather"
)

type fakeTraffic struct{ cards []events.SiteCard }

func (f *fakeTraffic) Cards(_ context.Context) []events.SiteCard { return f.cards }

type fakeStocks struct {
	results []stocks.SeriesResult
	cached  []stocks.SeriesResult
}

func (f *fakeStocks) Series(_ context.Context, symbols []string) []stocks.SeriesResult {
	out := make([]stocks.SeriesResult, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, stocks.SeriesResult{Symbol: s, Status: stocks.StatusReady})
	}
	if f.results != nil {
		return f.results
	}
	return out
}

func (f *fakeStocks) Cached(_ context.Context) []stocks.SeriesResult { return f.cached }

type fakeForecast struct{ bundle *weather.ForecastBundle }

func (f *fakeForecast) Bundle(_ context.Context) *weather.ForecastBundle { return f.bundle }

func (f *fakeForecast) Site() sites.Site { return sites.Default() }

func newTestRouter(t *testing.T, traffic *fakeTraffic, stockSvc *fakeStocks, forecast *fakeForecast) http.Handler {
	t.Helper()

	registry := resilience.NewRegistry()
	registry.Register(resilience.NewClient(resilience.DefaultConfig("ticketmaster")))

	reg := prometheus.NewRegistry()
	return api.NewRouter(api.RouterConfig{
		Version:         "test",
		BuildTime:       "2024-01-01T00:00:00Z",
		Logger:          zerolog.New(io.Discard),
		Metrics:         middleware.NewMetrics(reg),
		Gatherer:        reg,
		TrafficService:  traffic,
		StockService:    stockSvc,
		ForecastService: forecast,
		Registry:        registry,
	})
}

func defaultTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouter(t,
		&fakeTraffic{cards: []events.SiteCard{{Site: sites.Default(), Status: events.StatusReady}}},
		&fakeStocks{cached: []stocks.SeriesResult{{Symbol: "UNH", Status: stocks.StatusReady}}},
		&fakeForecast{bundle: &weather.ForecastBundle{DailyPeriods: []weather.Period{{Name: "Today"}}}},
	)
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/ops/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var body struct {
		Status  string         `json:"status"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "test", body.Details["version"])
}

func TestReadyEndpoint(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/ops/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProvidersEndpoint(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/ops/providers")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status    string `json:"status"`
		Providers []struct {
			Name         string `json:"name"`
			CircuitState string `json:"circuitState"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	require.Len(t, body.Providers, 1)
	assert.Equal(t, "ticketmaster", body.Providers[0].Name)
	assert.Equal(t, "closed", body.Providers[0].CircuitState)
}

func TestTrafficSitesEndpoint(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/traffic/sites")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Sites []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"sites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Sites, 1)
	assert.Equal(t, "kennestone", body.Sites[0].ID)
	assert.Equal(t, "ready", body.Sites[0].Status)
}

func TestStocksEndpoint_DefaultList(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/stocks")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Results []struct {
			Symbol string `json:"symbol"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "UNH", body.Results[0].Symbol)
}

func TestStocksEndpoint_ExplicitSymbols(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/stocks?symbols=hca,thc")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Results []struct {
			Symbol string `json:"symbol"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, "HCA", body.Results[0].Symbol)
	assert.Equal(t, "THC", body.Results[1].Symbol)
}

func TestStocksEndpoint_RejectsEmptySymbolList(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/stocks?symbols=,,")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestStocksEndpoint_RejectsTooManySymbols(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/stocks?symbols=a,b,c,d,e,f,g,h,i,j,k")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForecastEndpoint(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/weather/forecast")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Site struct {
			ID string `json:"id"`
		} `json:"site"`
		DailyPeriods []struct {
			Name string `json:"name"`
		} `json:"dailyPeriods"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kennestone", body.Site.ID)
	require.Len(t, body.DailyPeriods, 1)
	assert.Equal(t, "Today", body.DailyPeriods[0].Name)
}

func TestForecastEndpoint_UnavailableWithoutBundle(t *testing.T) {
	router := newTestRouter(t, &fakeTraffic{}, &fakeStocks{}, &fakeForecast{})
	rec := get(t, router, "/v1/weather/forecast")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := defaultTestRouter(t)
	get(t, router, "/v1/ops/health")

	rec := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "radpocket_http_requests_total")
}

func TestSecurityHeaders(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/ops/health")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestUnknownRouteIs404(t *testing.T) {
	rec := get(t, defaultTestRouter(t), "/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
