package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
)

// TopByCount returns the most used emojis by total count, ties broken by name
func TopByCount(records []domain.EventRecord) ([]domain.EntityStat, error) {
	stats, err := Aggregate(records)
	if err != nil {
		return nil, err
	}

	ranked := make([]domain.EntityStat, 0, len(stats))
	for _, stat := range stats {
		ranked = append(ranked, stat)
	}
	slices.SortFunc(ranked, func(a, b domain.EntityStat) int {
		if c := cmp.Compare(b.TotalCount, a.TotalCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return truncate(ranked, domain.ViewSize), nil
}

// LeastRecentlyUsed selects the oldest raw records first and only then aggregates them,
// so the view reflects the individual oldest records rather than per-emoji recency
func LeastRecentlyUsed(records []domain.EventRecord) ([]domain.EntityStat, error) {
	return aggregateInOrder(SelectByTimestamp(records, false, domain.ViewSize))
}

// MostRecentlyUsed is LeastRecentlyUsed with the newest raw records selected
func MostRecentlyUsed(records []domain.EventRecord) ([]domain.EntityStat, error) {
	return aggregateInOrder(SelectByTimestamp(records, true, domain.ViewSize))
}

// SelectByTimestamp returns at most limit raw records ordered by timestamp.
// The input slice is not modified.
func SelectByTimestamp(records []domain.EventRecord, desc bool, limit int) []domain.EventRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b domain.EventRecord) int {
		c := a.Timestamp.Compare(b.Timestamp)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c := cmp.Compare(a.EntityKey, b.EntityKey); c != 0 {
			return c
		}
		return cmp.Compare(a.AuthorID, b.AuthorID)
	})
	return truncate(sorted, limit)
}

// TopStats orders already aggregated member stats by occurrence rows, ties broken by name
func TopStats(stats map[string]domain.EntityStat, n int) ([]domain.EntityStat, error) {
	if err := ValidateTopN(n); err != nil {
		return nil, err
	}

	ranked := make([]domain.EntityStat, 0, len(stats))
	for _, stat := range stats {
		ranked = append(ranked, stat)
	}
	slices.SortFunc(ranked, func(a, b domain.EntityStat) int {
		if c := cmp.Compare(b.OccurrenceRows, a.OccurrenceRows); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return truncate(ranked, n), nil
}

// ValidateTopN checks n against the allowed per-member range
func ValidateTopN(n int) error {
	if n < domain.MinTopN || n > domain.MaxTopN {
		return fmt.Errorf("%w: %d (must be between %d and %d)", domain.ErrInvalidTopN, n, domain.MinTopN, domain.MaxTopN)
	}
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
