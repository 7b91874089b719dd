package resilience_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpocket/radpocket/internal/provider/resilience"
)

func TestRegistry_Snapshot(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.Register(resilience.NewClient(resilience.DefaultConfig("stooq")))
	registry.Register(resilience.NewClient(resilience.DefaultConfig("nws")))

	registry.RecordSuccess("stooq")
	registry.RecordFailure("nws", errors.New("points lookup failed"))

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 2)

	byName := make(map[string]resilience.Health, len(snapshot))
	for _, h := range snapshot {
		byName[h.Name] = h
	}

	assert.NotNil(t, byName["stooq"].LastSuccessAt)
	assert.True(t, byName["stooq"].Healthy())

	assert.NotNil(t, byName["nws"].LastFailureAt)
	assert.Equal(t, "points lookup failed", byName["nws"].LastError)
	assert.True(t, byName["nws"].Healthy(), "recorded failures alone do not open the circuit")
}

func TestRegistry_IgnoresUnknownProviders(t *testing.T) {
	registry := resilience.NewRegistry()
	registry.RecordSuccess("nobody")
	registry.RecordFailure("nobody", errors.New("x"))
	assert.Empty(t, registry.Snapshot())
}
