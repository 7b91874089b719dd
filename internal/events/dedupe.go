package events

import (
	"sort"
	"strings"
)

// DedupeKey is the identity used for duplicate collapse: the same show listed
// by two ticketing providers shares a title and start, not an ID.
func DedupeKey(e Event) string {
	when := e.DateTime
	if when == "" {
		when = e.DateLabel
	}
	return strings.ToLower(e.Title) + "|" + when
}

// Dedupe collapses events sharing a DedupeKey. The first occurrence wins and
// insertion order is otherwise preserved; the operation is idempotent.
func Dedupe(list []Event) []Event {
	seen := make(map[string]struct{}, len(list))
	out := make([]Event, 0, len(list))
	for _, e := range list {
		key := DedupeKey(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// SortByStart orders events ascending by start timestamp. Events without a
// parseable start use zero and therefore sort first; the UI treats them as
// "date unconfirmed" rows pinned to the top.
func SortByStart(list []Event) {
	sort.SliceStable(list, func(i, j int) bool {
		return startOrZero(list[i]) < startOrZero(list[j])
	})
}

func startOrZero(e Event) int64 {
	if e.StartTimestamp == nil {
		return 0
	}
	return *e.StartTimestamp
}

// Cap returns at most n events from the front of the list.
func Cap(list []Event, n int) []Event {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
