// Package stocks provides per-symbol daily closing-price series for the
// ticker widget.
package stocks

// Status reflects where a symbol's series is in its lifecycle.
type Status string

// Series statuses.
const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

const (
	// MinPoints is the smallest series considered usable. A single closing
	// price cannot draw a trend line.
	MinPoints = 2

	// MaxPoints is how many of the most recent points a series is trimmed to.
	MaxPoints = 5
)

// PricePoint is one daily close.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// SeriesResult is the per-symbol aggregation outcome.
type SeriesResult struct {
	Symbol string       `json:"symbol"`
	Status Status       `json:"status"`
	Points []PricePoint `json:"points"`
	Error  string       `json:"error,omitempty"`
}
