package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpocket/radpocket/internal/events"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  *int64
	}{
		{"rfc3339", "2024-04-12T23:05:00Z", ts(time.Date(2024, 4, 12, 23, 5, 0, 0, time.UTC).UnixMilli())},
		{"local without zone", "2024-04-12T19:05:00", ts(time.Date(2024, 4, 12, 19, 5, 0, 0, time.UTC).UnixMilli())},
		{"date only", "2024-04-12", ts(time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC).UnixMilli())},
		{"empty", "", nil},
		{"garbage", "next tuesday", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := events.ParseStart(tt.value)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFormatLabel(t *testing.T) {
	evening := time.Date(2024, 4, 12, 19, 5, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "Fri, Apr 12 7:05 PM", events.FormatLabel(&evening))

	midnight := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "Fri, Apr 12", events.FormatLabel(&midnight))

	assert.Equal(t, "", events.FormatLabel(nil))
}

func TestNewDateRange(t *testing.T) {
	now := time.Date(2024, 4, 12, 15, 30, 45, 0, time.UTC)
	window := events.NewDateRange(now)

	assert.Equal(t, "2024-04-12T15:30:45Z", window.StartISO)
	assert.Equal(t, "2024-04-19T15:30:45Z", window.EndISO)
	assert.Equal(t, "2024-04-12", window.StartDate)
	assert.Equal(t, "2024-04-19", window.EndDate)
	assert.Equal(t, 7*24*time.Hour, window.End.Sub(window.Start))
}
