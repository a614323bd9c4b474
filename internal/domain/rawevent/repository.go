package rawevent

import "context"

type Repository interface {
	// Insert stores a record once. The same body again is InsertUnchanged, a
	// different body for the same fixture is ErrPayloadConflict.
	Insert(ctx context.Context, record Record) (InsertResult, error)
	GetFixture(ctx context.Context, provider Provider, providerMatchID string) (Fixture, bool, error)
	ListFixtures(ctx context.Context, provider Provider) ([]Fixture, error)
	ListEvents(ctx context.Context, provider Provider, providerMatchID string) ([]Event, error)
}
