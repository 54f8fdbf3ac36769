package domain

import (
	"fmt"
	"time"

	// Embed the zone database so named zones resolve on minimal images
	_ "time/tzdata"
)

// DisplayTimeLayout renders e.g. "January 02, 2024 03:04 PM"
const DisplayTimeLayout = "January 02, 2006 03:04 PM"

// Timezone is a named IANA zone a view can be rendered in
type Timezone string

const (
	TimezoneUSEastern Timezone = "US/Eastern"
	TimezoneUSPacific Timezone = "US/Pacific"
)

// DefaultTimezones are the zones offered when none are configured
var DefaultTimezones = []Timezone{TimezoneUSEastern, TimezoneUSPacific}

// Location loads the zone
func (tz Timezone) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(string(tz))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTimezone, string(tz))
	}
	return loc, nil
}

// FormatTimestamp converts the instant into loc and renders it for display
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayTimeLayout)
}

// ParseTimestamp parses a stored ISO-8601 timestamp. Values without an offset are UTC.
func ParseTimestamp(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid timestamp %q", ErrMalformedRecord, value)
}
