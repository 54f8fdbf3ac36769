package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-emoji-insights/internal/adapter"
	"github.com/feral-file/ff-emoji-insights/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-emoji-insights/internal/api/shared/errors"
	"github.com/feral-file/ff-emoji-insights/internal/dashboard"
	"github.com/feral-file/ff-emoji-insights/internal/domain"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
	"github.com/feral-file/ff-emoji-insights/internal/ranking"
	"github.com/feral-file/ff-emoji-insights/internal/registry"
	"github.com/feral-file/ff-emoji-insights/internal/store"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetAllTimeUsage renders the workspace-wide top, most recently used and least recently used emojis
	GetAllTimeUsage(ctx context.Context, timezone string) (*dto.AllTimeUsageResponse, error)

	// GetMemberUsage renders the n emojis a member used most often
	GetMemberUsage(ctx context.Context, memberName string, timezone string, topN int) (*dto.MemberUsageResponse, error)

	// ListMembers lists the member directory
	ListMembers(ctx context.Context) *dto.MemberListResponse

	// ListTimezones lists the timezones views can be rendered in
	ListTimezones(ctx context.Context) *dto.TimezoneListResponse

	// RefreshCache drops every cached store read
	RefreshCache(ctx context.Context) *dto.RefreshResponse

	// CheckHealth checks that the store is reachable
	CheckHealth(ctx context.Context) error
}

type executor struct {
	provider  dashboard.Provider
	directory registry.MemberDirectory
	store     store.Store
	clock     adapter.Clock
	timezones []domain.Timezone
	locations map[string]*time.Location
}

// NewExecutor creates the executor. Every timezone must resolve, otherwise startup fails.
func NewExecutor(
	provider dashboard.Provider,
	directory registry.MemberDirectory,
	store store.Store,
	clock adapter.Clock,
	timezones []domain.Timezone,
) (Executor, error) {
	if len(timezones) == 0 {
		return nil, errors.New("at least one timezone is required")
	}

	locations := make(map[string]*time.Location, len(timezones))
	for _, tz := range timezones {
		loc, err := tz.Location()
		if err != nil {
			return nil, err
		}
		locations[string(tz)] = loc
	}

	return &executor{
		provider:  provider,
		directory: directory,
		store:     store,
		clock:     clock,
		timezones: timezones,
		locations: locations,
	}, nil
}

func (e *executor) GetAllTimeUsage(ctx context.Context, timezone string) (*dto.AllTimeUsageResponse, error) {
	tz, loc, apiErr := e.location(timezone)
	if apiErr != nil {
		return nil, apiErr
	}

	records, refreshed, err := e.provider.AllEntities(ctx)
	if err != nil {
		return nil, storeError("Failed to load emoji usage", err)
	}

	top, err := ranking.TopByCount(records)
	if err != nil {
		return nil, dataError(ctx, err)
	}
	mru, err := ranking.MostRecentlyUsed(records)
	if err != nil {
		return nil, dataError(ctx, err)
	}
	lru, err := ranking.LeastRecentlyUsed(records)
	if err != nil {
		return nil, dataError(ctx, err)
	}

	return &dto.AllTimeUsageResponse{
		Timezone:          string(tz),
		Top:               dto.MapStatsToView(top, loc),
		MostRecentlyUsed:  dto.MapStatsToView(mru, loc),
		LeastRecentlyUsed: dto.MapStatsToView(lru, loc),
		CacheRefreshed:    refreshed,
	}, nil
}

func (e *executor) GetMemberUsage(ctx context.Context, memberName string, timezone string, topN int) (*dto.MemberUsageResponse, error) {
	if err := ranking.ValidateTopN(topN); err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}

	tz, loc, apiErr := e.location(timezone)
	if apiErr != nil {
		return nil, apiErr
	}

	memberID, ok := e.directory.Lookup(memberName)
	if !ok {
		return nil, apierrors.NewNotFoundError("Member not found", fmt.Errorf("%w: %s", domain.ErrUnknownMember, memberName).Error())
	}

	stats, refreshed, err := e.provider.MemberStats(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedEntityKey) || errors.Is(err, domain.ErrMalformedRecord) {
			return nil, dataError(ctx, err)
		}
		return nil, storeError("Failed to load member emoji usage", err)
	}

	top, err := ranking.TopStats(stats, topN)
	if err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}

	return &dto.MemberUsageResponse{
		Member:         dto.MemberResponse{Name: memberName, ID: memberID},
		Timezone:       string(tz),
		TopN:           topN,
		Top:            dto.MapMemberStatsToView(top, loc),
		CacheRefreshed: refreshed,
	}, nil
}

func (e *executor) ListMembers(ctx context.Context) *dto.MemberListResponse {
	return dto.MapMembersToDTO(e.directory.Members())
}

func (e *executor) ListTimezones(ctx context.Context) *dto.TimezoneListResponse {
	items := make([]string, len(e.timezones))
	for i, tz := range e.timezones {
		items[i] = string(tz)
	}
	return &dto.TimezoneListResponse{
		Timezones: items,
		Default:   items[0],
	}
}

func (e *executor) RefreshCache(ctx context.Context) *dto.RefreshResponse {
	e.provider.Refresh(ctx)
	return &dto.RefreshResponse{
		Cleared:   true,
		ClearedAt: e.clock.Now().UTC(),
	}
}

func (e *executor) CheckHealth(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// location resolves a requested timezone; empty selects the first configured zone
func (e *executor) location(timezone string) (domain.Timezone, *time.Location, *apierrors.APIError) {
	if timezone == "" {
		tz := e.timezones[0]
		return tz, e.locations[string(tz)], nil
	}

	loc, ok := e.locations[timezone]
	if !ok {
		err := fmt.Errorf("%w: %s", domain.ErrUnsupportedTimezone, timezone)
		return "", nil, apierrors.NewValidationError(err.Error())
	}
	return domain.Timezone(timezone), loc, nil
}

// storeError maps a store read failure to an API error
func storeError(message string, err error) *apierrors.APIError {
	if store.IsUnavailable(err) {
		return apierrors.NewServiceError(message, "store temporarily unavailable")
	}
	return apierrors.NewDatabaseError(fmt.Sprintf("%s: %v", message, err))
}

// dataError reports stored data that cannot be ranked
func dataError(ctx context.Context, err error) *apierrors.APIError {
	logger.ErrorCtx(ctx, err, zap.String("reason", "malformed stored data"))
	return apierrors.NewInternalError("Stored emoji data is malformed")
}
