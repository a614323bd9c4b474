package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
)

type TeamMetricsRepository struct {
	mu      sync.RWMutex
	byMatch map[string][]teammetrics.TeamMatchMetrics
}

func NewTeamMetricsRepository() *TeamMetricsRepository {
	return &TeamMetricsRepository{byMatch: make(map[string][]teammetrics.TeamMatchMetrics)}
}

func (r *TeamMetricsRepository) ReplaceByMatch(_ context.Context, matchID string, rows []teammetrics.TeamMatchMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rows) == 0 {
		delete(r.byMatch, matchID)
		return nil
	}
	r.byMatch[matchID] = append([]teammetrics.TeamMatchMetrics(nil), rows...)
	return nil
}

func (r *TeamMetricsRepository) ListByMatch(_ context.Context, matchID string) ([]teammetrics.TeamMatchMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]teammetrics.TeamMatchMetrics(nil), r.byMatch[matchID]...), nil
}

func (r *TeamMetricsRepository) List(_ context.Context) ([]teammetrics.TeamMatchMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byMatch))
	for id := range r.byMatch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []teammetrics.TeamMatchMetrics
	for _, id := range ids {
		out = append(out, r.byMatch[id]...)
	}
	return out, nil
}
