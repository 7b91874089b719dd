package events

import (
	"regexp"
	"strings"
)

// Title keyword rules, checked before any provider taxonomy hint.
var (
	festivalPattern    = regexp.MustCompile(`(?i)\b(festival|fair)\b`)
	celebrationPattern = regexp.MustCompile(`(?i)\b(parade|celebration)\b`)
	racePattern        = regexp.MustCompile(`(?i)\b(marathon|race)\b`)
)

// Traffic-impact heuristics over the combined title+venue+category text.
var (
	venueKeywordPattern    = regexp.MustCompile(`(?i)stadium|arena|amphitheater|coliseum|ballpark|speedway`)
	activityKeywordPattern = regexp.MustCompile(`(?i)festival|fair|parade|celebration|marathon|race|show|concert|game|match|tournament`)
	categoryKeywordPattern = regexp.MustCompile(`(?i)sports|concert|show|festival|celebration`)
)

// TrafficCapacityThreshold is the venue capacity at or above which an event
// is assumed to affect local traffic regardless of its text.
const TrafficCapacityThreshold = 2000

// InferCategory assigns a category with fixed precedence: title keywords
// first, then the provider's taxonomy hint, else the default Event.
func InferCategory(title string, taxonomy Category) Category {
	switch {
	case festivalPattern.MatchString(title):
		return CategoryFestival
	case celebrationPattern.MatchString(title):
		return CategoryCelebration
	case racePattern.MatchString(title):
		return CategoryRace
	}
	if taxonomy != "" {
		return taxonomy
	}
	return CategoryEvent
}

// IsTrafficImpacting reports whether an event is likely to affect road
// traffic near a facility. This is a union of heuristics, not a scoring
// model: false positives are accepted over hiding relevant events.
func IsTrafficImpacting(e Event) bool {
	if e.Source == SourceMLB {
		return true
	}
	if e.Capacity >= TrafficCapacityThreshold {
		return true
	}
	text := strings.Join([]string{e.Title, e.Venue, string(e.Category)}, " ")
	return venueKeywordPattern.MatchString(text) ||
		activityKeywordPattern.MatchString(text) ||
		categoryKeywordPattern.MatchString(text)
}

// FilterTrafficImpacting returns the events classified as traffic-impacting,
// preserving input order.
func FilterTrafficImpacting(list []Event) []Event {
	kept := make([]Event, 0, len(list))
	for _, e := range list {
		if IsTrafficImpacting(e) {
			kept = append(kept, e)
		}
	}
	return kept
}
