// Package handler provides HTTP handlers for the RadPocket API.
package handler

import (
	"context"
	"net/http"

	"github.com/radpocket/radpocket/internal/api/response"
	"github.com/radpocket/radpocket/internal/events"
)

// TrafficService provides per-site traffic cards.
type TrafficService interface {
	Cards(ctx context.Context) []events.SiteCard
}

// TrafficHandler handles the traffic endpoints.
type TrafficHandler struct {
	service TrafficService
}

// NewTrafficHandler creates a new TrafficHandler.
func NewTrafficHandler(service TrafficService) *TrafficHandler {
	return &TrafficHandler{service: service}
}

// trafficResponse is the GET /v1/traffic/sites body.
type trafficResponse struct {
	Sites []events.SiteCard `json:"sites"`
}

// GetSites handles GET /v1/traffic/sites - one card per facility.
func (h *TrafficHandler) GetSites(w http.ResponseWriter, r *http.Request) {
	cards := h.service.Cards(r.Context())
	response.JSON(w, r, http.StatusOK, trafficResponse{Sites: cards})
}
