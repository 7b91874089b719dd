package models

import "github.com/radpocket/radpocket/internal/provider/resilience"

// Health is the liveness/readiness response body.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProviderStatus is the provider health report served by the ops endpoints.
type ProviderStatus struct {
	Status    HealthStatus        `json:"status"`
	Time      Timestamp           `json:"time"`
	Providers []resilience.Health `json:"providers"`
}
