package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-emoji-insights/internal/api/shared/dto"
	"github.com/feral-file/ff-emoji-insights/internal/domain"
	"github.com/feral-file/ff-emoji-insights/internal/registry"
)

func TestMapStatsToView(t *testing.T) {
	eastern, err := domain.TimezoneUSEastern.Location()
	require.NoError(t, err)

	stats := []domain.EntityStat{
		{Name: "smile", TotalCount: 4, LastUsedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), OccurrenceRows: 2},
		{Name: "tada", TotalCount: 1, LastUsedAt: time.Date(2024, 7, 4, 3, 5, 0, 0, time.UTC), OccurrenceRows: 1},
	}

	view := dto.MapStatsToView(stats, eastern)

	assert.Equal(t, []string{"Count", "Last Used"}, view.Labels)
	assert.Equal(t, []string{"smile", "tada"}, view.Order)
	assert.Equal(t, dto.UsageRow{Count: 4, LastUsed: "January 15, 2024 09:30 AM"}, view.Table["smile"])
	assert.Equal(t, dto.UsageRow{Count: 1, LastUsed: "July 03, 2024 11:05 PM"}, view.Table["tada"])
}

func TestMapMemberStatsToView(t *testing.T) {
	stats := []domain.EntityStat{
		{Name: "fire", TotalCount: 1, LastUsedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), OccurrenceRows: 3},
		{Name: "thisisfine", TotalCount: 2, LastUsedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), OccurrenceRows: 1},
	}

	view := dto.MapMemberStatsToView(stats, time.UTC)

	assert.Equal(t, []string{"fire", "thisisfine"}, view.Order)
	assert.Equal(t, dto.UsageRow{Count: 3, LastUsed: "January 15, 2024 02:30 PM"}, view.Table["fire"])
	assert.Equal(t, dto.UsageRow{Count: 1, LastUsed: "January 15, 2024 02:30 PM"}, view.Table["thisisfine"])
}

func TestMapStatsToView_Empty(t *testing.T) {
	view := dto.MapStatsToView(nil, time.UTC)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":["Count","Last Used"],"order":[],"table":{}}`, string(data))
}

func TestUsageRow_JSON(t *testing.T) {
	row := dto.UsageRow{Count: 7, LastUsed: "March 01, 2024 07:00 AM"}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `[7,"March 01, 2024 07:00 AM"]`, string(data))

	var decoded dto.UsageRow
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, row, decoded)

	assert.Error(t, json.Unmarshal([]byte(`["x","y"]`), &decoded))
}

func TestMapMembersToDTO(t *testing.T) {
	resp := dto.MapMembersToDTO([]registry.Member{
		{Name: "alice", ID: "U1"},
		{Name: "bob", ID: "U2"},
	})

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, []dto.MemberResponse{{Name: "alice", ID: "U1"}, {Name: "bob", ID: "U2"}}, resp.Members)

	empty := dto.MapMembersToDTO(nil)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Members)
}
