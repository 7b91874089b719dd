// Package construction defines the roadwork model produced by the
// road-construction adapter.
package construction

// Project is an active roadwork record near a facility. Completed and closed
// projects are excluded at the adapter boundary and never reach this type's
// consumers.
type Project struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Status  string `json:"status"`
	Roadway string `json:"roadway"`
	County  string `json:"county"`
	Source  string `json:"source"`
}
