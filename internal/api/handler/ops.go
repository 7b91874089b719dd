package handler

import (
	"net/http"
	"time"

	"github.com/radpocket/radpocket/internal/api/models"
	"github.com/radpocket/radpocket/internal/api/response"
	"github.com/radpocket/radpocket/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service
// has no hard dependencies: provider outages degrade responses rather than
// failing them, so readiness follows liveness.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ProviderStatus handles GET /v1/ops/providers - external provider health.
func (h *OpsHandler) ProviderStatus(w http.ResponseWriter, r *http.Request) {
	providers := h.registry.Snapshot()

	status := models.HealthStatusOK
	for _, p := range providers {
		if !p.Healthy() {
			status = models.HealthStatusDegraded
			break
		}
	}

	response.JSON(w, r, http.StatusOK, models.ProviderStatus{
		Status:    status,
		Time:      models.Timestamp(time.Now()),
		Providers: providers,
	})
}
