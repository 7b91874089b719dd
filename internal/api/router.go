// Package api provides the HTTP API for RadPocket.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/api/handler"
	"github.com/radpocket/radpocket/internal/api/middleware"
	"github.com/radpocket/radpocket/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	Gatherer        prometheus.Gatherer
	AllowedOrigins  []string
	TrafficService  handler.TrafficService
	StockService    handler.StockService
	ForecastService handler.ForecastService
	Registry        *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "radpocket-api"
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))        // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))      // Panic recovery
	r.Use(chimiddleware.RealIP)                 // Real IP extraction
	r.Use(middleware.SecurityHeaders)           // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)                // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.CORS(cfg.AllowedOrigins))  // Cross-origin for the mobile dev shell
	r.Use(middleware.ContentTypeJSON)           // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	trafficHandler := handler.NewTrafficHandler(cfg.TrafficService)
	stockHandler := handler.NewStockHandler(cfg.StockService)
	forecastHandler := handler.NewForecastHandler(cfg.ForecastService)

	// Rate limit middleware per endpoint category
	aggregationRateLimit := middleware.RateLimitByIP(middleware.AggregationRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)       // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/providers", opsHandler.ProviderStatus)
		})

		// Aggregation endpoints fan out to external providers on a cold
		// cache, so they get the stricter limit.
		r.With(aggregationRateLimit).Get("/traffic/sites", trafficHandler.GetSites)
		r.With(aggregationRateLimit).Get("/stocks", stockHandler.GetStocks)

		r.With(standardRateLimit).Get("/weather/forecast", forecastHandler.GetForecast)
	})

	// Prometheus scrape endpoint
	r.Method("GET", "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}
