package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

type payloadKey struct {
	provider rawevent.Provider
	matchID  string
}

// RawEventRepository keeps payloads with their parsed view. Stored records
// are never modified.
type RawEventRepository struct {
	mu      sync.RWMutex
	records map[payloadKey]rawevent.Record
}

func NewRawEventRepository() *RawEventRepository {
	return &RawEventRepository{records: make(map[payloadKey]rawevent.Record)}
}

func (r *RawEventRepository) Insert(_ context.Context, record rawevent.Record) (rawevent.InsertResult, error) {
	key := payloadKey{provider: record.Payload.Provider, matchID: record.Payload.ProviderMatchID}
	if key.provider == "" || key.matchID == "" {
		return "", fmt.Errorf("payload provider and match id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.records[key]; ok {
		if existing.Payload.Hash == record.Payload.Hash {
			return rawevent.InsertUnchanged, nil
		}
		return "", fmt.Errorf("%w: %s match %s", rawevent.ErrPayloadConflict, key.provider, key.matchID)
	}

	stored := record
	stored.Payload.Body = append([]byte(nil), record.Payload.Body...)
	stored.Events = append([]rawevent.Event(nil), record.Events...)
	r.records[key] = stored
	return rawevent.InsertCreated, nil
}

func (r *RawEventRepository) GetFixture(_ context.Context, provider rawevent.Provider, providerMatchID string) (rawevent.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[payloadKey{provider: provider, matchID: providerMatchID}]
	if !ok {
		return rawevent.Fixture{}, false, nil
	}
	return record.Fixture, true, nil
}

func (r *RawEventRepository) ListFixtures(_ context.Context, provider rawevent.Provider) ([]rawevent.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rawevent.Fixture, 0, len(r.records))
	for key, record := range r.records {
		if key.provider == provider {
			out = append(out, record.Fixture)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderMatchID < out[j].ProviderMatchID })
	return out, nil
}

func (r *RawEventRepository) ListEvents(_ context.Context, provider rawevent.Provider, providerMatchID string) ([]rawevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[payloadKey{provider: provider, matchID: providerMatchID}]
	if !ok {
		return nil, nil
	}
	return append([]rawevent.Event(nil), record.Events...), nil
}
