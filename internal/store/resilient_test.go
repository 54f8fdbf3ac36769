package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
	"github.com/feral-file/ff-emoji-insights/internal/mocks"
)

func testResilienceConfig() ResilienceConfig {
	return ResilienceConfig{
		MaxRetries:         2,
		InitialInterval:    time.Millisecond,
		MaxInterval:        2 * time.Millisecond,
		BreakerMaxFailures: 3,
		BreakerTimeout:     time.Hour,
	}
}

func TestResilientStore_RetriesTransientErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockStore(ctrl)
	s := NewResilientStore(inner, testResilienceConfig())
	ctx := context.Background()

	expected := []domain.EventRecord{{EntityKey: "1|wave", Count: 1}}
	gomock.InOrder(
		inner.EXPECT().ListAllEntities(ctx).Return(nil, errors.New("connection reset")),
		inner.EXPECT().ListAllEntities(ctx).Return(expected, nil),
	)

	records, err := s.ListAllEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, records)
}

func TestResilientStore_GivesUpAfterMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockStore(ctrl)
	s := NewResilientStore(inner, testResilienceConfig())
	ctx := context.Background()

	inner.EXPECT().ListEventsFor(ctx, domain.EntityKey("1|wave"), "111").
		Return(nil, errors.New("timeout")).
		Times(3)

	_, err := s.ListEventsFor(ctx, "1|wave", "111")
	assert.EqualError(t, err, "timeout")
}

func TestResilientStore_DoesNotRetryMalformedData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockStore(ctrl)
	s := NewResilientStore(inner, testResilienceConfig())
	ctx := context.Background()

	inner.EXPECT().ListAllEntities(ctx).Return(nil, domain.ErrMalformedRecord).Times(1)

	_, err := s.ListAllEntities(ctx)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestResilientStore_OpensCircuit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockStore(ctrl)
	cfg := testResilienceConfig()
	cfg.MaxRetries = 0
	s := NewResilientStore(inner, cfg)
	ctx := context.Background()

	inner.EXPECT().ListAllEntities(ctx).Return(nil, errors.New("db down")).Times(3)

	for i := 0; i < 3; i++ {
		_, err := s.ListAllEntities(ctx)
		assert.EqualError(t, err, "db down")
	}

	// Circuit is open: the inner store is not called again
	_, err := s.ListAllEntities(ctx)
	assert.Error(t, err)
	assert.NotEqual(t, "db down", err.Error())
	assert.True(t, IsUnavailable(err))
}

func TestResilientStore_EmptyResultIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockStore(ctrl)
	s := NewResilientStore(inner, testResilienceConfig())
	ctx := context.Background()

	inner.EXPECT().ListEventsFor(ctx, domain.EntityKey("1|wave"), "111").Return(nil, nil)

	records, err := s.ListEventsFor(ctx, "1|wave", "111")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestResilientStore_PingPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inner := mocks.NewMockStore(ctrl)
	s := NewResilientStore(inner, testResilienceConfig())
	ctx := context.Background()

	inner.EXPECT().Ping(ctx).Return(errors.New("refused")).Times(1)
	assert.EqualError(t, s.Ping(ctx), "refused")
}
