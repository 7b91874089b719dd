// Package config loads service configuration from the environment. A .env
// file is honored in development; real deployments set variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the full service configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `validate:"required,numeric"`

	// Env names the deployment environment (development, staging, production).
	Env string `validate:"required,oneof=development staging production"`

	// TicketmasterAPIKey enables the Ticketmaster adapter when set.
	TicketmasterAPIKey string

	// SeatGeekClientID enables the SeatGeek adapter when set.
	SeatGeekClientID string

	// MirrorBaseURL is the read-through text mirror prefix for the fetch
	// fallback. Empty disables the fallback.
	MirrorBaseURL string `validate:"omitempty,url"`

	// EventRadiusMiles is the ticketing-source search radius around a site.
	EventRadiusMiles int `validate:"gt=0,lte=100"`

	// ConstructionRadiusMiles is the roadwork search distance around a site.
	ConstructionRadiusMiles int `validate:"gt=0,lte=100"`

	// BallparkRadiusMiles bounds which sites receive home-game traffic.
	BallparkRadiusMiles float64 `validate:"gt=0,lte=200"`

	// TeamID is the tracked MLB home team.
	TeamID int `validate:"gt=0"`

	// WeatherSiteID selects the forecast site.
	WeatherSiteID string `validate:"required"`

	// StockSymbols is the comma-separated default ticker list.
	StockSymbols string `validate:"required"`

	// RefreshInterval is the background refresh cadence.
	RefreshInterval time.Duration `validate:"gte=1m"`

	// OTLPEndpoint receives traces when telemetry is enabled.
	OTLPEndpoint string `validate:"required"`

	// TelemetryEnabled turns on the OTLP trace exporter.
	TelemetryEnabled bool
}

// Load reads configuration from the environment, applying defaults and
// validating the result. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                    getenv("APP_PORT", "8080"),
		Env:                     getenv("APP_ENV", "development"),
		TicketmasterAPIKey:      os.Getenv("TICKETMASTER_API_KEY"),
		SeatGeekClientID:        os.Getenv("SEATGEEK_CLIENT_ID"),
		MirrorBaseURL:           os.Getenv("FETCH_MIRROR_BASE_URL"),
		WeatherSiteID:           getenv("WEATHER_SITE_ID", "kennestone"),
		StockSymbols:            getenv("STOCK_SYMBOLS", "UNH,HCA,THC"),
		OTLPEndpoint:            getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:        os.Getenv("OTEL_ENABLED") == "true",
	}

	var err error
	if cfg.EventRadiusMiles, err = getenvInt("EVENT_RADIUS_MILES", 15); err != nil {
		return Config{}, err
	}
	if cfg.ConstructionRadiusMiles, err = getenvInt("CONSTRUCTION_RADIUS_MILES", 10); err != nil {
		return Config{}, err
	}
	if cfg.BallparkRadiusMiles, err = getenvFloat("BALLPARK_RADIUS_MILES", 25); err != nil {
		return Config{}, err
	}
	if cfg.TeamID, err = getenvInt("MLB_TEAM_ID", 144); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 5*time.Minute); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
