package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/matchlens/internal/domain/embedding"
)

// EmbeddingRepository searches by exact scan, which is fine at the match
// counts an in-process store holds.
type EmbeddingRepository struct {
	mu      sync.RWMutex
	vectors map[string]embedding.Vector
}

func NewEmbeddingRepository() *EmbeddingRepository {
	return &EmbeddingRepository{vectors: make(map[string]embedding.Vector)}
}

func (r *EmbeddingRepository) Upsert(_ context.Context, v embedding.Vector) error {
	if v.MatchID == "" || len(v.Values) == 0 {
		return fmt.Errorf("embedding match id and values are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	v.Values = append([]float32(nil), v.Values...)
	r.vectors[v.MatchID] = v
	return nil
}

func (r *EmbeddingRepository) ListByMatchIDs(_ context.Context, matchIDs []string) (map[string]embedding.Vector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]embedding.Vector, len(matchIDs))
	for _, id := range matchIDs {
		if v, ok := r.vectors[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (r *EmbeddingRepository) ListStates(_ context.Context, matchIDs []string) (map[string]embedding.Vector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]embedding.Vector, len(matchIDs))
	for _, id := range matchIDs {
		if v, ok := r.vectors[id]; ok {
			v.Values = nil
			out[id] = v
		}
	}
	return out, nil
}

func (r *EmbeddingRepository) Search(_ context.Context, query []float32, candidates []string, limit int) ([]embedding.Hit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hits := make([]embedding.Hit, 0, len(candidates))
	for _, id := range candidates {
		v, ok := r.vectors[id]
		if !ok {
			continue
		}
		d, err := embedding.CosineDistance(query, v.Values)
		if err != nil {
			return nil, fmt.Errorf("distance to %s: %w", id, err)
		}
		hits = append(hits, embedding.Hit{MatchID: id, Distance: d})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].MatchID < hits[j].MatchID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
