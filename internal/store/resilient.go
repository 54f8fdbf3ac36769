package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
)

// ResilienceConfig configures retries and the circuit breaker around store reads
type ResilienceConfig struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries uint64
	// InitialInterval is the first backoff delay
	InitialInterval time.Duration
	// MaxInterval caps the backoff delay
	MaxInterval time.Duration
	// BreakerMaxFailures is the number of consecutive failures that opens the circuit
	BreakerMaxFailures uint32
	// BreakerTimeout is how long the circuit stays open before probing again
	BreakerTimeout time.Duration
}

// resilientStore decorates a Store with retries and a circuit breaker
type resilientStore struct {
	inner   Store
	config  ResilienceConfig
	breaker *gobreaker.CircuitBreaker
}

// NewResilientStore wraps inner so transient database failures are retried with exponential
// backoff and repeated failures stop hitting the database for a while.
// Malformed data and context cancellation are never retried.
func NewResilientStore(inner Store, config ResilienceConfig) Store {
	if config.InitialInterval <= 0 {
		config.InitialInterval = 200 * time.Millisecond
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 2 * time.Second
	}
	if config.BreakerMaxFailures == 0 {
		config.BreakerMaxFailures = 5
	}
	if config.BreakerTimeout <= 0 {
		config.BreakerTimeout = 30 * time.Second
	}

	maxFailures := config.BreakerMaxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "emoji-store",
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isPermanent(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Store circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &resilientStore{
		inner:   inner,
		config:  config,
		breaker: breaker,
	}
}

func (s *resilientStore) ListAllEntities(ctx context.Context) ([]domain.EventRecord, error) {
	return s.read(ctx, "ListAllEntities", func() ([]domain.EventRecord, error) {
		return s.inner.ListAllEntities(ctx)
	})
}

func (s *resilientStore) ListEventsFor(ctx context.Context, entityKey domain.EntityKey, authorID string) ([]domain.EventRecord, error) {
	return s.read(ctx, "ListEventsFor", func() ([]domain.EventRecord, error) {
		return s.inner.ListEventsFor(ctx, entityKey, authorID)
	})
}

// Ping bypasses retries so health checks report the current state
func (s *resilientStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *resilientStore) read(ctx context.Context, op string, fn func() ([]domain.EventRecord, error)) ([]domain.EventRecord, error) {
	var records []domain.EventRecord

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.InitialInterval
	b.MaxInterval = s.config.MaxInterval
	b.MaxElapsedTime = 0 // bounded by MaxRetries instead

	attempt := 0
	operation := func() error {
		attempt++
		result, err := s.breaker.Execute(func() (interface{}, error) {
			return fn()
		})
		if err != nil {
			if isPermanent(err) || IsUnavailable(err) {
				return backoff.Permanent(err)
			}
			logger.WarnCtx(ctx, "Store read failed, retrying",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		records, _ = result.([]domain.EventRecord)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, s.config.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.EventRecord{}
	}
	return records, nil
}

// isPermanent reports errors that a retry cannot fix
func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrMalformedRecord) ||
		errors.Is(err, domain.ErrMalformedEntityKey) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IsUnavailable reports whether err came from an open circuit rather than the database itself
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
