package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// EntityKeyDelimiter separates the emoji id from the emoji name in an entity key
	EntityKeyDelimiter = "|"

	// MetadataSortKey is the sort key value of per-emoji metadata items
	MetadataSortKey = "METADATA"

	// MinTopN and MaxTopN bound the per-member top-N view
	MinTopN = 1
	MaxTopN = 10

	// ViewSize is the number of rows kept by the global views
	ViewSize = 10
)

// EntityKey is the composite identity of a tracked emoji, "<id>|<name>"
type EntityKey string

// Name returns the human-readable emoji name, the portion after the first delimiter
func (k EntityKey) Name() (string, error) {
	_, name, found := strings.Cut(string(k), EntityKeyDelimiter)
	if !found {
		return "", fmt.Errorf("%w: %q", ErrMalformedEntityKey, string(k))
	}
	return name, nil
}

// EventRecord is a normalized emoji item read from the store.
// Metadata items carry an empty AuthorID.
type EventRecord struct {
	EntityKey EntityKey
	AuthorID  string
	Timestamp time.Time
	Count     int64
}

// EntityStat holds the statistics folded from the records of one entity
type EntityStat struct {
	Name           string
	TotalCount     int64
	LastUsedAt     time.Time
	OccurrenceRows int
}
