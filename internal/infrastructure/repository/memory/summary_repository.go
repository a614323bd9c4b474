package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/matchlens/internal/domain/summary"
)

type SummaryRepository struct {
	mu        sync.RWMutex
	summaries map[string]summary.MatchSummary
}

func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{summaries: make(map[string]summary.MatchSummary)}
}

func (r *SummaryRepository) UpsertMany(_ context.Context, items []summary.MatchSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.summaries[item.MatchID] = item
	}
	return nil
}

func (r *SummaryRepository) GetByMatchID(_ context.Context, matchID string) (summary.MatchSummary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.summaries[matchID]
	return item, ok, nil
}

func (r *SummaryRepository) List(_ context.Context, filter summary.Filter) ([]summary.MatchSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]summary.MatchSummary, 0, len(r.summaries))
	for _, item := range r.summaries {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.After(out[j].Kickoff)
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out, nil
}
