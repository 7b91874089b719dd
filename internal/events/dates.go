package events

import "time"

// startLayouts are the timestamp shapes seen across providers, tried in
// order. Ticketmaster emits RFC3339 UTC, SeatGeek local timestamps without a
// zone, and some feeds date-only strings.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseStart parses an ISO-ish timestamp into epoch milliseconds. Returns
// nil when no known layout matches; events without a parseable start sort
// first via the zero fallback in SortByStart.
func ParseStart(value string) *int64 {
	if value == "" {
		return nil
	}
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			ms := t.UnixMilli()
			return &ms
		}
	}
	return nil
}

// FormatLabel renders a start timestamp as the human-readable label shown on
// event rows, e.g. "Sat, Apr 12 7:05 PM". Date-only timestamps (midnight)
// drop the time portion.
func FormatLabel(millis *int64) string {
	if millis == nil {
		return ""
	}
	t := time.UnixMilli(*millis).UTC()
	if t.Hour() == 0 && t.Minute() == 0 {
		return t.Format("Mon, Jan 2")
	}
	return t.Format("Mon, Jan 2 3:04 PM")
}
