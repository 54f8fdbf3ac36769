package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/feral-file/ff-emoji-insights/internal/adapter"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
)

// keySeparator joins the parts of a key; it cannot appear in member or emoji ids
const keySeparator = "\x1f"

// Key identifies a cached call by its operation name and full argument tuple
type Key string

// NewKey derives the key of a call to op with the given arguments
func NewKey(op string, args ...string) Key {
	return Key(strings.Join(append([]string{op}, args...), keySeparator))
}

// FetchFunc produces a fresh value on a cache miss
type FetchFunc func(ctx context.Context) (any, error)

// Cache memoizes expensive reads for a bounded time
type Cache interface {
	// Get returns the value stored under key if it has not expired
	Get(key Key) (any, bool)

	// Set stores value under key for ttl
	Set(key Key, value any, ttl time.Duration)

	// TTL returns the remaining lifetime of key
	TTL(key Key) (time.Duration, bool)

	// Clear drops every entry immediately
	Clear()

	// Fetch returns the cached value of key, or calls fn on a miss and caches its result.
	// The boolean is true when the value came from fn. Errors from fn are never cached.
	// fn runs detached from ctx cancellation since other callers may be waiting on it.
	Fetch(ctx context.Context, key Key, ttl time.Duration, fn FetchFunc) (any, bool, error)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// ttlCache implements Cache with per-entry expiry and one in-flight fetch per key
type ttlCache struct {
	clock adapter.Clock

	mu         sync.Mutex
	entries    map[Key]entry
	generation uint64

	group singleflight.Group
}

// New creates an empty cache that reads time from clock
func New(clock adapter.Clock) Cache {
	return &ttlCache{
		clock:   clock,
		entries: make(map[Key]entry),
	}
}

func (c *ttlCache) Get(key Key) (any, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key, now)
}

// lookup must be called with mu held
func (c *ttlCache) lookup(key Key, now time.Time) (any, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) Set(key Key, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: now.Add(ttl)}
}

func (c *ttlCache) TTL(key Key) (time.Duration, bool) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lookup(key, now); !ok {
		return 0, false
	}
	return c.entries[key].expiresAt.Sub(now), true
}

func (c *ttlCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
	c.generation++
}

func (c *ttlCache) Fetch(ctx context.Context, key Key, ttl time.Duration, fn FetchFunc) (any, bool, error) {
	now := c.clock.Now()

	c.mu.Lock()
	if value, ok := c.lookup(key, now); ok {
		c.mu.Unlock()
		logger.DebugCtx(ctx, "Cache hit", zap.String("key", printable(key)))
		return value, false, nil
	}
	generation := c.generation
	c.mu.Unlock()

	// Flights are scoped to a generation so callers arriving after Clear start a new fetch
	flightKey := fmt.Sprintf("%d%s%s", generation, keySeparator, key)
	value, err, shared := c.group.Do(flightKey, func() (any, error) {
		logger.DebugCtx(ctx, "Cache miss, fetching", zap.String("key", printable(key)))
		// The flight is shared, so it must outlive the caller that started it
		value, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		storedAt := c.clock.Now()
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation == generation && ttl > 0 {
			c.entries[key] = entry{value: value, expiresAt: storedAt.Add(ttl)}
		}
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		logger.DebugCtx(ctx, "Joined in-flight fetch", zap.String("key", printable(key)))
	}
	return value, true, nil
}

// Fetch is the typed form of Cache.Fetch
func Fetch[T any](ctx context.Context, c Cache, key Key, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, bool, error) {
	var zero T
	value, fetched, err := c.Fetch(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, false, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, false, fmt.Errorf("cached value for %q has type %T", printable(key), value)
	}
	return typed, fetched, nil
}

func printable(key Key) string {
	return strings.ReplaceAll(string(key), keySeparator, "/")
}
