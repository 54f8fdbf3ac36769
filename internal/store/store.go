package store

import (
	"context"

	"github.com/feral-file/ff-emoji-insights/internal/domain"
)

// Store is the read-only view of the emoji item table.
// Both list operations return an empty slice, never nil, when nothing matches.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// ListAllEntities returns the metadata item of every tracked emoji
	ListAllEntities(ctx context.Context) ([]domain.EventRecord, error)
	// ListEventsFor returns every event item of one emoji triggered by one member
	ListEventsFor(ctx context.Context, entityKey domain.EntityKey, authorID string) ([]domain.EventRecord, error)
	// Ping checks that the backing database is reachable
	Ping(ctx context.Context) error
}
