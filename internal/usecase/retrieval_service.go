package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/embedding"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/query"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultRetrievalLimit = 5
	maxRetrievalLimit     = 50

	QueryStatusMatchFound   = "match_found"
	QueryStatusRanked       = "ranked"
	QueryStatusNoMatchFound = "no_match_found"

	RouteConjunctive = "conjunctive"
	RouteStat        = "stat"
	RouteSemantic    = "semantic"
)

type QueryRequest struct {
	Query       string     `json:"query" validate:"required,min=2,max=500"`
	Competition string     `json:"competition,omitempty" validate:"omitempty,max=120"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Limit       int        `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

type RankedMatch struct {
	Summary  summary.MatchSummary `json:"summary"`
	Distance float64              `json:"distance"`
}

type QueryResult struct {
	Query             string                `json:"query"`
	Intent            query.Intent          `json:"intent"`
	Route             string                `json:"route"`
	Status            string                `json:"status"`
	Teams             []query.Mention       `json:"teams"`
	Match             *summary.MatchSummary `json:"match,omitempty"`
	Matches           []RankedMatch         `json:"matches,omitempty"`
	MissingEmbeddings int                   `json:"missing_embeddings"`
}

// Err reports an empty answer as ErrRetrievalNoMatchFound. It is a status,
// so Query itself still returns a nil error.
func (r QueryResult) Err() error {
	if r.Status == QueryStatusNoMatchFound {
		return query.ErrRetrievalNoMatchFound
	}
	return nil
}

// RetrievalService routes questions either to a structured lookup or to a
// vector search. It never writes.
type RetrievalService struct {
	summaries    summary.Repository
	vectors      embedding.Repository
	vocabulary   *TeamVocabulary
	names        *team.Matcher
	embeddings   *EmbeddingService
	defaultLimit int
	metrics      *metrics.Manager
	logger       *logging.Logger
}

func NewRetrievalService(
	summaries summary.Repository,
	vectors embedding.Repository,
	vocabulary *TeamVocabulary,
	names *team.Matcher,
	embeddings *EmbeddingService,
	defaultLimit int,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *RetrievalService {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultLimit <= 0 || defaultLimit > maxRetrievalLimit {
		defaultLimit = defaultRetrievalLimit
	}
	return &RetrievalService{
		summaries:    summaries,
		vectors:      vectors,
		vocabulary:   vocabulary,
		names:        names,
		embeddings:   embeddings,
		defaultLimit: defaultLimit,
		metrics:      metricsManager,
		logger:       logger,
	}
}

func (s *RetrievalService) Query(ctx context.Context, req QueryRequest) (QueryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RetrievalService.Query")
	defer span.End()

	started := time.Now()
	text := strings.TrimSpace(req.Query)
	if text == "" {
		return QueryResult{}, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return QueryResult{}, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxRetrievalLimit {
		limit = maxRetrievalLimit
	}

	teams, err := s.vocabulary.Teams(ctx)
	if err != nil {
		return QueryResult{}, err
	}
	parsed, err := query.NewParser(teams, s.names).Parse(text)
	if err != nil {
		if errors.Is(err, query.ErrRetrievalAmbiguousTeams) {
			s.metrics.QueryServed("parse", "ambiguous_team", time.Since(started))
		}
		return QueryResult{}, err
	}

	filter := summary.Filter{
		Competition: strings.TrimSpace(req.Competition),
		From:        req.From,
		To:          req.To,
	}
	result := QueryResult{Query: text, Intent: parsed.Intent, Teams: parsed.Mentions}

	switch {
	case len(parsed.Mentions) >= 2:
		result.Route = RouteConjunctive
		err = s.conjunctive(ctx, parsed, filter, &result)
	case len(parsed.Mentions) == 1 && parsed.Intent == query.IntentStat:
		result.Route = RouteStat
		err = s.latestForTeam(ctx, parsed.Mentions[0].TeamID, filter, &result)
	default:
		result.Route = RouteSemantic
		err = s.semantic(ctx, parsed, filter, limit, &result)
	}
	span.SetAttributes(attribute.String("retrieval.route", result.Route))
	if err != nil {
		failSpan(span, err)
		s.metrics.QueryServed(result.Route, "error", time.Since(started))
		return QueryResult{}, err
	}

	s.metrics.QueryServed(result.Route, result.Status, time.Since(started))
	s.logger.InfoContext(ctx, "query served",
		"route", result.Route,
		"intent", result.Intent,
		"status", result.Status,
		"teams", len(result.Teams),
		"missing_embeddings", result.MissingEmbeddings,
	)
	return result, nil
}

// conjunctive answers "A vs B" questions with at most one match in which
// both teams played.
func (s *RetrievalService) conjunctive(ctx context.Context, parsed query.Parsed, filter summary.Filter, result *QueryResult) error {
	first, second := parsed.Mentions[0].TeamID, parsed.Mentions[1].TeamID
	filter.TeamIDs = []string{first, second}

	items, err := s.summaries.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list summaries: %w", err)
	}
	if len(items) == 0 {
		result.Status = QueryStatusNoMatchFound
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if fa, fb := a.Coverage == mapping.CoverageFull, b.Coverage == mapping.CoverageFull; fa != fb {
			return fa
		}
		if oa, ob := a.HomeTeamID == first, b.HomeTeamID == first; oa != ob {
			return oa
		}
		if !a.Kickoff.Equal(b.Kickoff) {
			return a.Kickoff.After(b.Kickoff)
		}
		return a.MatchID < b.MatchID
	})
	best := items[0]
	result.Match = &best
	result.Status = QueryStatusMatchFound
	return nil
}

func (s *RetrievalService) latestForTeam(ctx context.Context, teamID string, filter summary.Filter, result *QueryResult) error {
	filter.TeamIDs = []string{teamID}
	items, err := s.summaries.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list summaries: %w", err)
	}
	if len(items) == 0 {
		result.Status = QueryStatusNoMatchFound
		return nil
	}
	latest := items[0]
	for _, item := range items[1:] {
		if item.Kickoff.After(latest.Kickoff) || (item.Kickoff.Equal(latest.Kickoff) && item.MatchID < latest.MatchID) {
			latest = item
		}
	}
	result.Match = &latest
	result.Status = QueryStatusMatchFound
	return nil
}

// semantic ranks filtered summaries by cosine distance to the query vector.
// "Similar to X" seeds with X's centroid and excludes X's own matches.
func (s *RetrievalService) semantic(ctx context.Context, parsed query.Parsed, filter summary.Filter, limit int, result *QueryResult) error {
	var seed []float32
	switch {
	case parsed.SimilarTo && len(parsed.Mentions) == 1:
		teamID := parsed.Mentions[0].TeamID
		centroid, err := s.teamCentroid(ctx, teamID)
		if err != nil {
			return err
		}
		seed = centroid
		filter.ExcludeTeamIDs = []string{teamID}
	case len(parsed.Mentions) == 1:
		filter.TeamIDs = []string{parsed.Mentions[0].TeamID}
	}
	if seed == nil {
		values, err := s.embeddings.EmbedText(ctx, parsed.Text)
		if err != nil {
			return err
		}
		seed = values
	}

	candidates, err := s.summaries.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list summaries: %w", err)
	}
	byID := make(map[string]summary.MatchSummary, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, item := range candidates {
		byID[item.MatchID] = item
		ids = append(ids, item.MatchID)
	}

	stored, err := s.vectors.ListStates(ctx, ids)
	if err != nil {
		return fmt.Errorf("list embeddings: %w", err)
	}
	embedded := ids[:0:0]
	for _, id := range ids {
		if _, ok := stored[id]; ok {
			embedded = append(embedded, id)
			continue
		}
		result.MissingEmbeddings++
	}

	hits, err := s.vectors.Search(ctx, seed, embedded, limit)
	if err != nil {
		return fmt.Errorf("search embeddings: %w", err)
	}
	for _, hit := range hits {
		item, ok := byID[hit.MatchID]
		if !ok {
			continue
		}
		result.Matches = append(result.Matches, RankedMatch{Summary: item, Distance: hit.Distance})
	}
	if len(result.Matches) == 0 {
		result.Status = QueryStatusNoMatchFound
		return nil
	}
	result.Status = QueryStatusRanked
	return nil
}

// teamCentroid averages the stored embeddings of every match teamID played.
// It returns nil when the team has none, so the caller embeds the text.
func (s *RetrievalService) teamCentroid(ctx context.Context, teamID string) ([]float32, error) {
	items, err := s.summaries.List(ctx, summary.Filter{TeamIDs: []string{teamID}})
	if err != nil {
		return nil, fmt.Errorf("list team summaries: %w", err)
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.MatchID)
	}
	stored, err := s.vectors.ListByMatchIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list team embeddings: %w", err)
	}
	if len(stored) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(stored))
	for _, id := range ids {
		if v, ok := stored[id]; ok {
			vectors = append(vectors, v.Values)
		}
	}
	centroid, err := embedding.Centroid(vectors)
	if err != nil {
		return nil, fmt.Errorf("team centroid: %w", err)
	}
	return centroid, nil
}
