package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-emoji-insights/internal/cache"
	"github.com/feral-file/ff-emoji-insights/internal/domain"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
	"github.com/feral-file/ff-emoji-insights/internal/ranking"
	"github.com/feral-file/ff-emoji-insights/internal/store"
)

const (
	opAllEntities     = "all_entities"
	opKnownEntityKeys = "known_entity_keys"
	opMemberStats     = "member_stats"
)

// Config holds the cache lifetimes and fan-out limits of the provider
type Config struct {
	// EntityScanTTL bounds how long a full table scan is reused
	EntityScanTTL time.Duration
	// KnownEntitiesTTL bounds how long the list of known emoji keys is reused
	KnownEntitiesTTL time.Duration
	// MemberTTL bounds how long a member's aggregated stats are reused
	MemberTTL time.Duration
	// MemberQueryConcurrency caps the per-emoji queries in flight while building member stats
	MemberQueryConcurrency int
}

// DefaultConfig mirrors the lifetimes the dashboard has always used
func DefaultConfig() Config {
	return Config{
		EntityScanTTL:          300 * time.Second,
		KnownEntitiesTTL:       1000 * time.Second,
		MemberTTL:              30 * time.Minute,
		MemberQueryConcurrency: 4,
	}
}

// Provider serves store reads through the cache. The boolean results report whether
// the value was fetched live during this call.
//
//go:generate mockgen -source=provider.go -destination=../mocks/dashboard_provider.go -package=mocks -mock_names=Provider=MockProvider
type Provider interface {
	// AllEntities returns the metadata record of every emoji
	AllEntities(ctx context.Context) ([]domain.EventRecord, bool, error)

	// KnownEntityKeys returns the keys of every emoji
	KnownEntityKeys(ctx context.Context) ([]domain.EntityKey, error)

	// MemberStats returns the per-emoji stats of one member's events
	MemberStats(ctx context.Context, memberID string) (map[string]domain.EntityStat, bool, error)

	// Refresh drops every cached value
	Refresh(ctx context.Context)
}

type provider struct {
	store  store.Store
	cache  cache.Cache
	config Config
}

// NewProvider creates a provider reading from s through c
func NewProvider(s store.Store, c cache.Cache, config Config) Provider {
	defaults := DefaultConfig()
	if config.EntityScanTTL <= 0 {
		config.EntityScanTTL = defaults.EntityScanTTL
	}
	if config.KnownEntitiesTTL <= 0 {
		config.KnownEntitiesTTL = defaults.KnownEntitiesTTL
	}
	if config.MemberTTL <= 0 {
		config.MemberTTL = defaults.MemberTTL
	}
	if config.MemberQueryConcurrency <= 0 {
		config.MemberQueryConcurrency = defaults.MemberQueryConcurrency
	}
	return &provider{store: s, cache: c, config: config}
}

func (p *provider) AllEntities(ctx context.Context) ([]domain.EventRecord, bool, error) {
	return cache.Fetch(ctx, p.cache, cache.NewKey(opAllEntities), p.config.EntityScanTTL,
		func(ctx context.Context) ([]domain.EventRecord, error) {
			records, err := p.store.ListAllEntities(ctx)
			if err != nil {
				return nil, err
			}
			logger.InfoCtx(ctx, "Entity cache refreshed", zap.Int("entities", len(records)))
			return records, nil
		})
}

func (p *provider) KnownEntityKeys(ctx context.Context) ([]domain.EntityKey, error) {
	keys, _, err := cache.Fetch(ctx, p.cache, cache.NewKey(opKnownEntityKeys), p.config.KnownEntitiesTTL,
		func(ctx context.Context) ([]domain.EntityKey, error) {
			records, err := p.store.ListAllEntities(ctx)
			if err != nil {
				return nil, err
			}
			keys := make([]domain.EntityKey, 0, len(records))
			for _, r := range records {
				keys = append(keys, r.EntityKey)
			}
			return keys, nil
		})
	return keys, err
}

func (p *provider) MemberStats(ctx context.Context, memberID string) (map[string]domain.EntityStat, bool, error) {
	return cache.Fetch(ctx, p.cache, cache.NewKey(opMemberStats, memberID), p.config.MemberTTL,
		func(ctx context.Context) (map[string]domain.EntityStat, error) {
			keys, err := p.KnownEntityKeys(ctx)
			if err != nil {
				return nil, err
			}

			records, err := p.memberRecords(ctx, keys, memberID)
			if err != nil {
				return nil, err
			}

			stats, err := ranking.Aggregate(records)
			if err != nil {
				return nil, err
			}
			logger.InfoCtx(ctx, "Member cache refreshed",
				zap.String("member_id", memberID),
				zap.Int("emojis", len(stats)),
			)
			return stats, nil
		})
}

// memberRecords queries every known emoji for the member's events with bounded concurrency
func (p *provider) memberRecords(ctx context.Context, keys []domain.EntityKey, memberID string) ([]domain.EventRecord, error) {
	if len(keys) == 0 {
		return []domain.EventRecord{}, nil
	}

	pool := pond.NewResultPool[[]domain.EventRecord](p.config.MemberQueryConcurrency)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for _, key := range keys {
		group.SubmitErr(func() ([]domain.EventRecord, error) {
			events, err := p.store.ListEventsFor(ctx, key, memberID)
			if err != nil {
				return nil, fmt.Errorf("failed to list events of %s for member %s: %w", key, memberID, err)
			}
			return events, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, err
	}

	var records []domain.EventRecord
	for _, events := range results {
		// A member without activity for an emoji is skipped, not an error
		if len(events) == 0 {
			continue
		}
		records = append(records, events...)
	}
	return records, nil
}

func (p *provider) Refresh(ctx context.Context) {
	p.cache.Clear()
	logger.InfoCtx(ctx, "Cache cleared")
}
