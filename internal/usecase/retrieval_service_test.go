package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRetrieval(t *testing.T, embedder Embedder) *testPipeline {
	t.Helper()
	p := newTestPipeline(t, embedder)
	seedEredivisie(t, p)
	p.run(t)
	return p
}

func TestRetrievalService_AjaxVsPSVIsConjunctive(t *testing.T) {
	p := seededRetrieval(t, &wordEmbedder{})

	for _, text := range []string{"Ajax vs PSV", "PSV against Ajax possession", "what was the score between psv and ajax"} {
		t.Run(text, func(t *testing.T) {
			result, err := p.retrieval.Query(context.Background(), QueryRequest{Query: text})
			require.NoError(t, err)

			assert.Equal(t, RouteConjunctive, result.Route)
			assert.Equal(t, QueryStatusMatchFound, result.Status)
			require.NotNil(t, result.Match)
			assert.Equal(t, "Eredivisie", result.Match.Competition)
			require.Len(t, result.Teams, 2)
			for _, mention := range result.Teams {
				if !result.Match.HasTeam(mention.TeamID) {
					t.Fatalf("match %s does not involve %s", result.Match.MatchID, mention.TeamName)
				}
			}
			assert.Empty(t, result.Matches)
		})
	}
}

func TestRetrievalService_ConjunctiveWithoutSharedMatch(t *testing.T) {
	p := seededRetrieval(t, nil)

	result, err := p.retrieval.Query(context.Background(), QueryRequest{Query: "PSV vs Feyenoord"})
	require.NoError(t, err)

	assert.Equal(t, RouteConjunctive, result.Route)
	assert.Equal(t, QueryStatusNoMatchFound, result.Status)
	assert.Nil(t, result.Match)
	assert.True(t, errors.Is(result.Err(), query.ErrRetrievalNoMatchFound))
}

func TestRetrievalService_StatRouteReturnsLatestMatch(t *testing.T) {
	p := seededRetrieval(t, nil)

	result, err := p.retrieval.Query(context.Background(), QueryRequest{Query: "Ajax passes"})
	require.NoError(t, err)

	assert.Equal(t, RouteStat, result.Route)
	assert.Equal(t, query.IntentStat, result.Intent)
	require.NotNil(t, result.Match)
	assert.Equal(t, 24, result.Match.Kickoff.Day(), "latest Ajax match is the Twente game")
	assert.Equal(t, "Ajax", result.Match.HomeTeam)
}

func TestRetrievalService_SemanticNeedsEmbedder(t *testing.T) {
	p := seededRetrieval(t, nil)

	_, err := p.retrieval.Query(context.Background(), QueryRequest{Query: "describe dominant pressing performances"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestRetrievalService_SemanticRanksByDistance(t *testing.T) {
	p := seededRetrieval(t, &wordEmbedder{})

	result, err := p.retrieval.Query(context.Background(), QueryRequest{Query: "describe dominant pressing performances", Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, RouteSemantic, result.Route)
	assert.Equal(t, QueryStatusRanked, result.Status)
	require.Len(t, result.Matches, 2)
	assert.LessOrEqual(t, result.Matches[0].Distance, result.Matches[1].Distance)
	assert.Zero(t, result.MissingEmbeddings)
}

func TestRetrievalService_SimilarToExcludesSeedTeam(t *testing.T) {
	embedder := &wordEmbedder{}
	p := seededRetrieval(t, embedder)
	calls := embedder.Calls()

	result, err := p.retrieval.Query(context.Background(), QueryRequest{Query: "matches similar to Ajax"})
	require.NoError(t, err)

	assert.Equal(t, RouteSemantic, result.Route)
	require.Len(t, result.Teams, 1)
	ajax := result.Teams[0].TeamID
	require.Len(t, result.Matches, 1)
	assert.False(t, result.Matches[0].Summary.HasTeam(ajax))
	assert.Equal(t, "Feyenoord", result.Matches[0].Summary.HomeTeam)
	assert.Equal(t, calls, embedder.Calls(), "the team centroid seeds the search")
}

func TestRetrievalService_CountsMissingEmbeddings(t *testing.T) {
	embedder := &wordEmbedder{fail: func(text string) bool { return strings.Contains(text, "Feyenoord") }}
	p := seededRetrieval(t, embedder)
	embedder.fail = nil

	result, err := p.retrieval.Query(context.Background(), QueryRequest{Query: "describe tactical approach"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.MissingEmbeddings)
	assert.Len(t, result.Matches, 2)
}

func TestRetrievalService_FiltersAndValidation(t *testing.T) {
	p := seededRetrieval(t, &wordEmbedder{})
	ctx := context.Background()

	from := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("inverted window", func(t *testing.T) {
		_, err := p.retrieval.Query(ctx, QueryRequest{Query: "Ajax vs PSV", From: &from, To: &to})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := p.retrieval.Query(ctx, QueryRequest{Query: "   "})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("window excludes the fixture", func(t *testing.T) {
		result, err := p.retrieval.Query(ctx, QueryRequest{Query: "Ajax vs PSV", From: &from})
		require.NoError(t, err)
		assert.Equal(t, QueryStatusNoMatchFound, result.Status)
	})

	t.Run("unknown competition", func(t *testing.T) {
		result, err := p.retrieval.Query(ctx, QueryRequest{Query: "Ajax vs PSV", Competition: "Premier League"})
		require.NoError(t, err)
		assert.Equal(t, QueryStatusNoMatchFound, result.Status)
	})
}
