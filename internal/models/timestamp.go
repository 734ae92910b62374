package models

import (
	"fmt"
	"time"
)

// Timestamp is an ISO-8601 instant as delivered by the forecast API,
// e.g. "2025-10-19T14:00" or "2025-10-19".
type Timestamp string

// timestampLayouts lists the accepted layouts, most specific first
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse returns the instant the timestamp names. Timestamps without a zone
// suffix are read as UTC.
func (ts Timestamp) Parse() (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, string(ts)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", string(ts))
}

// WallClock returns the timestamp's literal date and time fields, ignoring
// any offset. Forecast series are requested in the location's own zone, so
// the literal fields are what a person at that location reads on a clock.
func (ts Timestamp) WallClock() (time.Time, bool) {
	t, err := ts.Parse()
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
}
