package dto

import (
	"time"

	"github.com/feral-file/ff-emoji-insights/internal/registry"
)

// MemberResponse represents one member of the directory
type MemberResponse struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// MemberListResponse represents the member directory listing
type MemberListResponse struct {
	Members []MemberResponse `json:"items"`
	Total   int              `json:"total"`
}

// TimezoneListResponse represents the timezones the dashboard can render in
type TimezoneListResponse struct {
	Timezones []string `json:"items"`
	Default   string   `json:"default"`
}

// RefreshResponse represents the result of a manual cache invalidation
type RefreshResponse struct {
	Cleared   bool      `json:"cleared"`
	ClearedAt time.Time `json:"cleared_at"`
}

// HealthResponse represents the health status of the API
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// MapMembersToDTO maps directory members to MemberListResponse
func MapMembersToDTO(members []registry.Member) *MemberListResponse {
	items := make([]MemberResponse, len(members))
	for i, m := range members {
		items[i] = MemberResponse{Name: m.Name, ID: m.ID}
	}
	return &MemberListResponse{
		Members: items,
		Total:   len(items),
	}
}
