package models

import (
	"strings"
	"time"
)

// Layouts accepted for backend timestamps. Zoned layouts keep their offset;
// zone-less layouts are read in the caller's reference location.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// ParseTimestamp parses an ISO-8601-ish timestamp from the backend and
// returns it in loc (nil means time.Local). ok is false for empty or
// unparsable input.
func ParseTimestamp(s string, loc *time.Location) (t time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, s, loc); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
