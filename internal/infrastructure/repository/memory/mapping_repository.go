package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
)

type MappingRepository struct {
	mu         sync.RWMutex
	mappings   map[string]mapping.MatchMapping
	byIdentity map[payloadKey]string
}

func NewMappingRepository() *MappingRepository {
	return &MappingRepository{
		mappings:   make(map[string]mapping.MatchMapping),
		byIdentity: make(map[payloadKey]string),
	}
}

func (r *MappingRepository) List(_ context.Context) ([]mapping.MatchMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]mapping.MatchMapping, 0, len(r.mappings))
	for _, m := range r.mappings {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MappingRepository) GetByID(_ context.Context, matchID string) (mapping.MatchMapping, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.mappings[matchID]
	if !ok {
		return mapping.MatchMapping{}, false, nil
	}
	return m.Clone(), true, nil
}

func (r *MappingRepository) FindByProviderMatch(_ context.Context, provider rawevent.Provider, providerMatchID string) (mapping.MatchMapping, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byIdentity[payloadKey{provider: provider, matchID: providerMatchID}]
	if !ok {
		return mapping.MatchMapping{}, false, nil
	}
	return r.mappings[id].Clone(), true, nil
}

// UpsertMany validates the whole batch before writing any of it.
func (r *MappingRepository) UpsertMany(_ context.Context, items []mapping.MatchMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	claimed := make(map[payloadKey]string, len(items)*2)
	for _, m := range items {
		if m.ID == "" || m.HomeTeamID == "" || m.AwayTeamID == "" {
			return fmt.Errorf("mapping id and teams are required")
		}
		for _, p := range rawevent.Providers {
			ref := m.Ref(p)
			if ref == nil {
				if prev, ok := r.mappings[m.ID]; ok && prev.Ref(p) != nil {
					return fmt.Errorf("mapping %s would drop its %s identity", m.ID, p)
				}
				continue
			}
			key := payloadKey{provider: p, matchID: ref.ProviderMatchID}
			if owner, ok := r.byIdentity[key]; ok && owner != m.ID {
				return fmt.Errorf("%w: %s match %s belongs to %s", mapping.ErrIdentityConflict, p, ref.ProviderMatchID, owner)
			}
			if owner, ok := claimed[key]; ok && owner != m.ID {
				return fmt.Errorf("%w: %s match %s claimed twice", mapping.ErrIdentityConflict, p, ref.ProviderMatchID)
			}
			claimed[key] = m.ID
		}
	}

	for _, m := range items {
		r.mappings[m.ID] = m.Clone()
	}
	for key, id := range claimed {
		r.byIdentity[key] = id
	}
	return nil
}
