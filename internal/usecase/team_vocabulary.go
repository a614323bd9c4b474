package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/platform/cache"
)

const vocabularyKey = "teams"

// TeamVocabulary caches the canonical team list the query parser matches
// against. The resolver stage invalidates it after writing teams.
type TeamVocabulary struct {
	teams team.Repository
	cache *cache.Store[[]team.Team]
}

func NewTeamVocabulary(teams team.Repository, ttl time.Duration) *TeamVocabulary {
	return &TeamVocabulary{teams: teams, cache: cache.NewStore[[]team.Team](ttl)}
}

func (v *TeamVocabulary) Teams(ctx context.Context) ([]team.Team, error) {
	teams, err := v.cache.GetOrLoad(ctx, vocabularyKey, func(ctx context.Context) ([]team.Team, error) {
		items, err := v.teams.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (v *TeamVocabulary) Invalidate() {
	v.cache.Delete(vocabularyKey)
}
