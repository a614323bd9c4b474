package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
	basecache "github.com/riskibarqy/matchlens/internal/platform/cache"
)

const (
	summaryPrefix = "summary:"
	mappingPrefix = "mapping:"
)

// SummaryRepository is a read-through cache over summary reads. Any write
// drops every cached summary, since one upsert can change many filters.
type SummaryRepository struct {
	next  summary.Repository
	byID  *basecache.Store[cachedSummary]
	lists *basecache.Store[[]summary.MatchSummary]
}

type cachedSummary struct {
	value  summary.MatchSummary
	exists bool
}

func NewSummaryRepository(next summary.Repository, ttl time.Duration) *SummaryRepository {
	return &SummaryRepository{
		next:  next,
		byID:  basecache.NewStore[cachedSummary](ttl),
		lists: basecache.NewStore[[]summary.MatchSummary](ttl),
	}
}

func (r *SummaryRepository) UpsertMany(ctx context.Context, summaries []summary.MatchSummary) error {
	if err := r.next.UpsertMany(ctx, summaries); err != nil {
		return err
	}
	r.byID.DeletePrefix(summaryPrefix)
	r.lists.DeletePrefix(summaryPrefix)
	return nil
}

func (r *SummaryRepository) GetByMatchID(ctx context.Context, matchID string) (summary.MatchSummary, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, summaryPrefix+"id:"+matchID, func(ctx context.Context) (cachedSummary, error) {
		item, exists, err := r.next.GetByMatchID(ctx, matchID)
		if err != nil {
			return cachedSummary{}, err
		}
		return cachedSummary{value: item, exists: exists}, nil
	})
	if err != nil {
		return summary.MatchSummary{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *SummaryRepository) List(ctx context.Context, filter summary.Filter) ([]summary.MatchSummary, error) {
	items, err := r.lists.GetOrLoad(ctx, summaryPrefix+"list:"+filterKey(filter), func(ctx context.Context) ([]summary.MatchSummary, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]summary.MatchSummary(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]summary.MatchSummary(nil), items...), nil
}

// MappingRepository caches the per-match lookups the read API serves.
// List stays uncached so the resolver always plans against storage.
type MappingRepository struct {
	next  mapping.Repository
	byID  *basecache.Store[cachedMapping]
	byRef *basecache.Store[cachedMapping]
}

type cachedMapping struct {
	value  mapping.MatchMapping
	exists bool
}

func NewMappingRepository(next mapping.Repository, ttl time.Duration) *MappingRepository {
	return &MappingRepository{
		next:  next,
		byID:  basecache.NewStore[cachedMapping](ttl),
		byRef: basecache.NewStore[cachedMapping](ttl),
	}
}

func (r *MappingRepository) List(ctx context.Context) ([]mapping.MatchMapping, error) {
	return r.next.List(ctx)
}

func (r *MappingRepository) GetByID(ctx context.Context, matchID string) (mapping.MatchMapping, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, mappingPrefix+"id:"+matchID, func(ctx context.Context) (cachedMapping, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return cachedMapping{}, err
		}
		return cachedMapping{value: item, exists: exists}, nil
	})
	if err != nil {
		return mapping.MatchMapping{}, false, err
	}
	return cached.value.Clone(), cached.exists, nil
}

func (r *MappingRepository) FindByProviderMatch(ctx context.Context, provider rawevent.Provider, providerMatchID string) (mapping.MatchMapping, bool, error) {
	key := mappingPrefix + "ref:" + string(provider) + ":" + providerMatchID
	cached, err := r.byRef.GetOrLoad(ctx, key, func(ctx context.Context) (cachedMapping, error) {
		item, exists, err := r.next.FindByProviderMatch(ctx, provider, providerMatchID)
		if err != nil {
			return cachedMapping{}, err
		}
		return cachedMapping{value: item, exists: exists}, nil
	})
	if err != nil {
		return mapping.MatchMapping{}, false, err
	}
	return cached.value.Clone(), cached.exists, nil
}

func (r *MappingRepository) UpsertMany(ctx context.Context, mappings []mapping.MatchMapping) error {
	if err := r.next.UpsertMany(ctx, mappings); err != nil {
		return err
	}
	r.byID.DeletePrefix(mappingPrefix)
	r.byRef.DeletePrefix(mappingPrefix)
	return nil
}

func filterKey(f summary.Filter) string {
	parts := []string{
		"c=" + f.Competition,
		"f=" + timeKey(f.From),
		"t=" + timeKey(f.To),
		"in=" + idsKey(f.TeamIDs),
		"out=" + idsKey(f.ExcludeTeamIDs),
	}
	return strings.Join(parts, "|")
}

func timeKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func idsKey(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
