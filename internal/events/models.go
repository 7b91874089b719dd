// Package events defines the common event model shared by every ticketing and
// schedule provider, the normalization rules that reconcile their divergent
// payloads, and the per-site aggregation service.
package events

import (
	"time"

	"github.com/radpocket/radpocket/internal/construction"
	"github.com/radpocket/radpocket/internal/sites"
)

// Category is the fixed event category vocabulary.
type Category string

const (
	CategoryFestival    Category = "Festival"
	CategoryCelebration Category = "Celebration"
	CategoryRace        Category = "Race"
	CategorySports      Category = "Sports"
	CategoryConcert     Category = "Concert"
	CategoryShow        Category = "Show"
	CategoryEvent       Category = "Event"
)

// Provider source names as they appear on events.
const (
	SourceTicketmaster = "Ticketmaster"
	SourceSeatGeek     = "SeatGeek"
	SourceMLB          = "MLB"
)

// Event is a traffic-impact-relevant happening near a facility. IDs are
// provider-prefixed (tm-, sg-, mlb-) so merged lists stay globally unique.
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// DateTime is the provider's ISO-ish timestamp, empty when unknown.
	DateTime string `json:"dateTime"`

	// DateLabel is the human-readable rendering shown in the UI.
	DateLabel string `json:"dateLabel"`

	// StartTimestamp is epoch milliseconds, nil when the provider's date
	// could not be parsed. Used only for sort order.
	StartTimestamp *int64 `json:"startTimestamp"`

	Venue    string   `json:"venue"`
	Category Category `json:"category"`
	Source   string   `json:"source"`
	URL      string   `json:"url,omitempty"`
	Capacity int      `json:"capacity,omitempty"`
}

// Status describes the lifecycle of an aggregation result.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// SiteCard is the aggregation result for one facility: ranked, capped events
// and nearby construction, or an error state when the site is unusable.
type SiteCard struct {
	sites.Site
	Status       Status                 `json:"status"`
	Events       []Event                `json:"events"`
	Construction []construction.Project `json:"construction"`
	Error        string                 `json:"error,omitempty"`
}

// DateRange is the lookahead window for one aggregation run, computed once
// and shared by every adapter in the run.
type DateRange struct {
	Start time.Time
	End   time.Time

	// StartISO/EndISO are RFC3339 UTC bounds for datetime query parameters.
	StartISO string
	EndISO   string

	// StartDate/EndDate are date-only bounds for providers keyed by day.
	StartDate string
	EndDate   string
}

// lookaheadDays is how far ahead of now the window extends.
const lookaheadDays = 7

// NewDateRange builds the now .. now+7d window used for event queries.
func NewDateRange(now time.Time) DateRange {
	start := now.UTC().Truncate(time.Second)
	end := start.AddDate(0, 0, lookaheadDays)
	return DateRange{
		Start:     start,
		End:       end,
		StartISO:  start.Format("2006-01-02T15:04:05Z"),
		EndISO:    end.Format("2006-01-02T15:04:05Z"),
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
}
