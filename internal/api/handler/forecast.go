package handler

import (
	"context"
	"net/http"

	"github.com/radpocket/radpocket/internal/api/response"
	"github.com/radpocket/radpocket/internal/sites"
	"github.com/radpocket/radpocket/internal/weather"
)

// ForecastService provides the forecast bundle for the configured site.
type ForecastService interface {
	Bundle(ctx context.Context) *weather.ForecastBundle
	Site() sites.Site
}

// ForecastHandler handles the weather endpoints.
type ForecastHandler struct {
	service ForecastService
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(service ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// forecastResponse is the GET /v1/weather/forecast body.
type forecastResponse struct {
	Site          sites.Site       `json:"site"`
	DailyPeriods  []weather.Period `json:"dailyPeriods"`
	HourlyPeriods []weather.Period `json:"hourlyPeriods"`
}

// GetForecast handles GET /v1/weather/forecast.
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	bundle := h.service.Bundle(r.Context())
	if bundle == nil {
		response.ServiceUnavailable(w, r, "no forecast available for the configured site")
		return
	}

	response.JSON(w, r, http.StatusOK, forecastResponse{
		Site:          h.service.Site(),
		DailyPeriods:  bundle.DailyPeriods,
		HourlyPeriods: bundle.HourlyPeriods,
	})
}
