package ranking

import (
	"github.com/feral-file/ff-emoji-insights/internal/domain"
)

// Aggregate groups records by emoji name and folds each group into an EntityStat.
// It fails on the first record whose entity key has no name delimiter.
func Aggregate(records []domain.EventRecord) (map[string]domain.EntityStat, error) {
	stats := make(map[string]domain.EntityStat)
	for _, record := range records {
		name, err := record.EntityKey.Name()
		if err != nil {
			return nil, err
		}

		stat, ok := stats[name]
		if !ok {
			stat = domain.EntityStat{Name: name}
		}
		stat.TotalCount += record.Count
		stat.OccurrenceRows++
		if !ok || record.Timestamp.After(stat.LastUsedAt) {
			stat.LastUsedAt = record.Timestamp.UTC()
		}
		stats[name] = stat
	}
	return stats, nil
}

// aggregateInOrder folds records like Aggregate and returns the stats ordered by the
// first appearance of each emoji in records
func aggregateInOrder(records []domain.EventRecord) ([]domain.EntityStat, error) {
	stats, err := Aggregate(records)
	if err != nil {
		return nil, err
	}

	ordered := make([]domain.EntityStat, 0, len(stats))
	seen := make(map[string]bool, len(stats))
	for _, record := range records {
		// Aggregate already validated every key
		name, _ := record.EntityKey.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		ordered = append(ordered, stats[name])
	}
	return ordered, nil
}
