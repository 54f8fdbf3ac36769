package dto

import (
	"encoding/json"
	"time"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
)

const (
	LabelCount    = "Count"
	LabelLastUsed = "Last Used"
)

// UsageRow is one emoji's row of a usage table. It serializes as the fixed-order
// pair [count, "last used"] to match the table labels.
type UsageRow struct {
	Count    int64
	LastUsed string
}

// MarshalJSON renders the row as a two-element array
func (r UsageRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Count, r.LastUsed})
}

// UnmarshalJSON reads the row back from a two-element array
func (r *UsageRow) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &r.Count); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &r.LastUsed)
}

// UsageView is one rendered ranking: a table keyed by emoji name plus the display order
type UsageView struct {
	Labels []string            `json:"labels"`
	Order  []string            `json:"order"`
	Table  map[string]UsageRow `json:"table"`
}

// AllTimeUsageResponse represents the three workspace-wide rankings
type AllTimeUsageResponse struct {
	Timezone          string    `json:"timezone"`
	Top               UsageView `json:"top"`
	MostRecentlyUsed  UsageView `json:"most_recently_used"`
	LeastRecentlyUsed UsageView `json:"least_recently_used"`
	CacheRefreshed    bool      `json:"cache_refreshed"`
}

// MemberUsageResponse represents one member's most used emojis
type MemberUsageResponse struct {
	Member         MemberResponse `json:"member"`
	Timezone       string         `json:"timezone"`
	TopN           int            `json:"n"`
	Top            UsageView      `json:"top"`
	CacheRefreshed bool           `json:"cache_refreshed"`
}

// MapStatsToView maps ordered workspace stats to a UsageView, formatting timestamps in loc.
// The count column is the summed reaction count.
func MapStatsToView(stats []domain.EntityStat, loc *time.Location) UsageView {
	return mapView(stats, loc, func(stat domain.EntityStat) int64 {
		return stat.TotalCount
	})
}

// MapMemberStatsToView maps one member's ordered stats to a UsageView.
// The count column is the number of times the member used the emoji, the same value the ranking orders by.
func MapMemberStatsToView(stats []domain.EntityStat, loc *time.Location) UsageView {
	return mapView(stats, loc, func(stat domain.EntityStat) int64 {
		return int64(stat.OccurrenceRows)
	})
}

func mapView(stats []domain.EntityStat, loc *time.Location, count func(domain.EntityStat) int64) UsageView {
	view := UsageView{
		Labels: []string{LabelCount, LabelLastUsed},
		Order:  make([]string, 0, len(stats)),
		Table:  make(map[string]UsageRow, len(stats)),
	}
	for _, stat := range stats {
		view.Order = append(view.Order, stat.Name)
		view.Table[stat.Name] = UsageRow{
			Count:    count(stat),
			LastUsed: domain.FormatTimestamp(stat.LastUsedAt, loc),
		}
	}
	return view
}
