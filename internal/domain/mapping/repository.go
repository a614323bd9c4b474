package mapping

import (
	"context"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

type Repository interface {
	List(ctx context.Context) ([]MatchMapping, error)
	GetByID(ctx context.Context, matchID string) (MatchMapping, bool, error)
	FindByProviderMatch(ctx context.Context, provider rawevent.Provider, providerMatchID string) (MatchMapping, bool, error)
	// UpsertMany writes mappings by canonical id. It fails with
	// ErrIdentityConflict instead of letting two canonical matches share a
	// provider match id.
	UpsertMany(ctx context.Context, mappings []MatchMapping) error
}
