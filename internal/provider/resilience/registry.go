package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Health is a point-in-time view of one provider's availability.
type Health struct {
	Name          string     `json:"name"`
	CircuitState  string     `json:"circuitState"`
	Requests      uint32     `json:"requests"`
	TotalFailures uint32     `json:"totalFailures"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt *time.Time `json:"lastFailureAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}

// Healthy reports whether the provider's circuit is closed.
func (h Health) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed.String()
}

// Registry tracks provider clients so the ops endpoint can report their
// circuit state and recent outcomes.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]*tracked
}

type tracked struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]*tracked)}
}

// Register adds a provider client under its configured name.
func (r *Registry) Register(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[client.Name()] = &tracked{client: client}
}

// RecordSuccess notes a successful request for a provider.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed request for a provider.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[name]; ok {
		now := time.Now()
		p.lastFailureAt = &now
		if err != nil {
			p.lastError = err.Error()
		}
	}
}

// Snapshot returns the health of every registered provider, sorted by
// registration map order (callers sort if they need stable output).
func (r *Registry) Snapshot() []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]Health, 0, len(r.providers))
	for name, p := range r.providers {
		counts := p.client.BreakerCounts()
		health = append(health, Health{
			Name:          name,
			CircuitState:  p.client.BreakerState().String(),
			Requests:      counts.Requests,
			TotalFailures: counts.TotalFailures,
			LastSuccessAt: p.lastSuccessAt,
			LastFailureAt: p.lastFailureAt,
			LastError:     p.lastError,
		})
	}
	return health
}
