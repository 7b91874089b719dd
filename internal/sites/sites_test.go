package sites_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpocket/radpocket/internal/geo"
	"github.com/radpocket/radpocket/internal/sites"
)

func TestFacilities_AllHaveCoordinates(t *testing.T) {
	facilities := sites.Facilities()
	require.NotEmpty(t, facilities)

	seen := make(map[string]bool)
	for _, s := range facilities {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Name)
		assert.True(t, geo.Valid(s.Lat, s.Lon), "site %s should have usable coordinates", s.ID)
		assert.False(t, seen[s.ID], "duplicate site id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestByID(t *testing.T) {
	s, ok := sites.ByID("cobb")
	require.True(t, ok)
	assert.Equal(t, "Cobb Hospital", s.Name)

	_, ok = sites.ByID("nonexistent")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	s := sites.Default()
	assert.Equal(t, sites.DefaultSiteID, s.ID)
}

func TestUnlocated(t *testing.T) {
	s := sites.Unlocated(sites.Default())
	assert.False(t, geo.Valid(s.Lat, s.Lon))
}
