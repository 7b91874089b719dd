// Package main provides the entrypoint for the RadPocket API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/radpocket/radpocket/internal/api"
	"github.com/radpocket/radpocket/internal/api/middleware"
	"github.com/radpocket/radpocket/internal/config"
	"github.com/radpocket/radpocket/internal/construction/gdot"
	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/events/mlb"
	"github.com/radpocket/radpocket/internal/events/seatgeek"
	"github.com/radpocket/radpocket/internal/events/ticketmaster"
	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/provider/resilience"
	"github.com/radpocket/radpocket/internal/sites"
	"github.com/radpocket/radpocket/internal/stocks"
	"github.com/radpocket/radpocket/internal/stocks/stooq"
	"github.com/radpocket/radpocket/internal/stocks/yahoo"
	"github.com/radpocket/radpocket/internal/telemetry"
	"github.com/radpocket/radpocket/internal/weather"
	"github.com/radpocket/radpocket/internal/weather/nws"
	"github.com/radpocket/radpocket/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "radpocket-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting RadPocket API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize OpenTelemetry tracing
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry tracing initialized")
	}

	// Every provider client shares one health registry, surfaced by the ops
	// endpoint.
	registry := resilience.NewRegistry()

	newFetcher := func(name string) *fetch.Client {
		return fetch.New(fetch.Config{
			Name:          name,
			MirrorBaseURL: cfg.MirrorBaseURL,
			Registry:      registry,
			Logger:        log,
		})
	}

	// Event and construction providers
	tmClient := ticketmaster.NewClient(ticketmaster.ClientConfig{
		APIKey:      cfg.TicketmasterAPIKey,
		RadiusMiles: cfg.EventRadiusMiles,
		Fetcher:     newFetcher(ticketmaster.ProviderName),
		Logger:      log,
	})
	if cfg.TicketmasterAPIKey == "" {
		log.Warn().Msg("Ticketmaster API key not configured - adapter will return no events")
	}

	sgClient := seatgeek.NewClient(seatgeek.ClientConfig{
		ClientID:    cfg.SeatGeekClientID,
		RadiusMiles: cfg.EventRadiusMiles,
		Fetcher:     newFetcher(seatgeek.ProviderName),
		Logger:      log,
	})
	if cfg.SeatGeekClientID == "" {
		log.Warn().Msg("SeatGeek client id not configured - adapter will return no events")
	}

	mlbClient := mlb.NewClient(mlb.ClientConfig{
		TeamID:      cfg.TeamID,
		RadiusMiles: cfg.BallparkRadiusMiles,
		Fetcher:     newFetcher(mlb.ProviderName),
		Logger:      log,
	})

	gdotClient := gdot.NewClient(gdot.ClientConfig{
		RadiusMiles: cfg.ConstructionRadiusMiles,
		Fetcher:     newFetcher(gdot.ProviderName),
		Logger:      log,
	})

	eventService := events.NewService(events.ServiceConfig{
		Sites:        sites.Facilities(),
		Ticketmaster: tmClient,
		SeatGeek:     sgClient,
		Schedule:     mlbClient,
		Construction: gdotClient,
		CacheTTL:     cfg.RefreshInterval,
		Logger:       log,
	})
	log.Info().Int("sites", len(sites.Facilities())).Msg("event service initialized")

	// Stock providers
	stockService := stocks.NewService(stocks.ServiceConfig{
		Primary:        stooq.NewClient(stooq.ClientConfig{Fetcher: newFetcher(stooq.ProviderName), Logger: log}),
		Fallback:       yahoo.NewClient(yahoo.ClientConfig{Fetcher: newFetcher(yahoo.ProviderName), Logger: log}),
		DefaultSymbols: stocks.ParseSymbols(cfg.StockSymbols),
		CacheTTL:       cfg.RefreshInterval,
		Logger:         log,
	})
	log.Info().Strs("symbols", stockService.DefaultSymbols()).Msg("stock service initialized")

	// Weather
	weatherService := weather.NewService(weather.ServiceConfig{
		Source: nws.NewClient(nws.ClientConfig{Fetcher: newFetcher(nws.ProviderName), Logger: log}),
		SiteID: cfg.WeatherSiteID,
		Logger: log,
	})
	log.Info().Str("site", weatherService.Site().ID).Msg("weather service initialized")

	// Background refresh keeps the caches warm
	refresher := worker.NewRefresher(worker.RefreshConfig{
		Interval: cfg.RefreshInterval,
		Events:   eventService,
		Stocks:   stockService,
		Forecast: weatherService,
		Logger:   log,
	})
	if err := refresher.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start background refresh")
	}
	defer refresher.Stop()

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         middleware.NewMetrics(prometheus.DefaultRegisterer),
		TrafficService:  eventService,
		StockService:    stockService,
		ForecastService: weatherService,
		Registry:        registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
