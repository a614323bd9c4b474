package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/matchlens/external/fotmob"
	"github.com/riskibarqy/matchlens/external/whoscored"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchlens/internal/platform/id"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
)

const testEmbeddingDimension = 8

type wsMatch struct {
	id          int64
	competition string
	kickoff     string
	score       string
	homeID      int64
	home        string
	awayID      int64
	away        string
}

// whoScoredPayload renders a small but complete match: passes and a tackle
// for both sides plus one home goal.
func whoScoredPayload(m wsMatch) []byte {
	events := []string{
		wsEvent(1, 0, m.homeID, 50, 50, `"endX": 70, "endY": 40,`, "Pass", "Successful"),
		wsEvent(2, 2, m.homeID, 30, 50, `"endX": 60, "endY": 50,`, "Pass", "Successful"),
		wsEvent(3, 5, m.awayID, 40, 55, `"endX": 45, "endY": 55,`, "Pass", "Unsuccessful"),
		wsEvent(4, 6, m.homeID, 65, 45, "", "Tackle", "Successful"),
		wsEvent(5, 9, m.awayID, 35, 60, `"endX": 55, "endY": 60,`, "Pass", "Successful"),
		wsEvent(6, 12, m.homeID, 90, 48, "", "Goal", "Successful"),
		wsEvent(7, 20, m.awayID, 55, 30, "", "Interception", "Successful"),
	}
	return []byte(fmt.Sprintf(`{
  "matchId": %d,
  "competition": %q,
  "startTime": %q,
  "score": %q,
  "home": {"teamId": %d, "name": %q},
  "away": {"teamId": %d, "name": %q},
  "events": [%s]
}`, m.id, m.competition, m.kickoff, m.score, m.homeID, m.home, m.awayID, m.away, strings.Join(events, ",\n")))
}

func wsEvent(id, minute int, teamID int64, x, y float64, end, kind, outcome string) string {
	return fmt.Sprintf(`{"id": %d, "minute": %d, "teamId": %d, "x": %g, "y": %g, %s
 "type": {"displayName": %q}, "outcomeType": {"displayName": %q},
 "period": {"displayName": "FirstHalf"}, "isTouch": true}`, id, minute, teamID, x, y, end, kind, outcome)
}

type fmMatch struct {
	id      int64
	league  string
	kickoff string
	score   string
	homeID  int64
	home    string
	awayID  int64
	away    string
}

func fotMobPayload(m fmMatch) []byte {
	return []byte(fmt.Sprintf(`{
  "general": {
    "matchId": %d,
    "leagueName": %q,
    "matchTimeUTCDate": %q,
    "homeTeam": {"id": %d, "name": %q},
    "awayTeam": {"id": %d, "name": %q}
  },
  "header": {"status": {"scoreStr": %q}},
  "content": {"shotmap": {"shots": [
    {"id": 1, "eventType": "Goal", "teamId": %d, "x": 94.2, "y": 30.1, "min": 12, "period": "FirstHalf", "expectedGoals": 0.41, "isOnTarget": true},
    {"id": 2, "eventType": "AttemptSaved", "teamId": %d, "x": 88.0, "y": 36.0, "min": 70, "period": "SecondHalf", "expectedGoals": 0.12, "isOnTarget": true}
  ]}}
}`, m.id, m.league, m.kickoff, m.homeID, m.home, m.awayID, m.away, m.score, m.homeID, m.homeID))
}

// PSV 3-1 Ajax reported by both providers.
var (
	psvAjaxWhoScored = whoScoredPayload(wsMatch{
		id: 1821010, competition: "Eredivisie", kickoff: "2024-08-10T18:45:00", score: "3 : 1",
		homeID: 129, home: "PSV Eindhoven", awayID: 874, away: "Ajax",
	})
	psvAjaxFotMob = fotMobPayload(fmMatch{
		id: 4506330, league: "Eredivisie", kickoff: "2024-08-10T18:45:00.000Z", score: "3 - 1",
		homeID: 8640, home: "PSV", awayID: 8593, away: "Ajax",
	})
	// Feyenoord 1-0 Twente exists on WhoScored only.
	feyenoordTwenteWhoScored = whoScoredPayload(wsMatch{
		id: 1821020, competition: "Eredivisie", kickoff: "2024-08-17T14:30:00", score: "1 : 0",
		homeID: 1000, home: "Feyenoord", awayID: 1001, away: "FC Twente",
	})
	// A later Ajax home game with no FotMob counterpart.
	ajaxTwenteWhoScored = whoScoredPayload(wsMatch{
		id: 1821030, competition: "Eredivisie", kickoff: "2024-08-24T16:30:00", score: "2 : 0",
		homeID: 874, home: "Ajax", awayID: 1001, away: "FC Twente",
	})
)

// wordEmbedder hashes words into a small dense vector. Texts sharing words
// land close together, which is all ranking tests need.
type wordEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  func(text string) bool
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.fail != nil && e.fail(text) {
		return nil, fmt.Errorf("embedder unavailable")
	}
	out := make([]float32, testEmbeddingDimension)
	out[0] = 0.1
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		out[h.Sum32()%testEmbeddingDimension]++
	}
	return out, nil
}

func (e *wordEmbedder) Model() string { return "word-hash" }

func (e *wordEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// testPipeline wires every service over in-memory repositories.
type testPipeline struct {
	store     *memory.RawEventRepository
	teams     *memory.TeamRepository
	mappings  *memory.MappingRepository
	rows      *memory.TeamMetricsRepository
	summaries *memory.SummaryRepository
	vectors   *memory.EmbeddingRepository

	ingestion  *IngestionService
	metricsSvc *MetricsService
	embeddings *EmbeddingService
	pipeline   *PipelineService
	retrieval  *RetrievalService
	matches    *MatchService
}

func newTestPipeline(t *testing.T, embedder Embedder) *testPipeline {
	t.Helper()

	logger := logging.NewNop()
	metricsManager := metrics.NewManager()
	p := &testPipeline{
		store:     memory.NewRawEventRepository(),
		teams:     memory.NewTeamRepository(),
		mappings:  memory.NewMappingRepository(),
		rows:      memory.NewTeamMetricsRepository(),
		summaries: memory.NewSummaryRepository(),
		vectors:   memory.NewEmbeddingRepository(),
	}

	names := team.NewMatcher(nil, 0)
	resolver := mapping.NewResolver(names, mapping.ResolverConfig{
		Now: func() time.Time { return time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC) },
	})
	vocabulary := NewTeamVocabulary(p.teams, time.Minute)

	p.ingestion = NewIngestionService(p.store, []rawevent.Parser{whoscored.NewParser(), fotmob.NewParser()}, 2, metricsManager, logger)
	p.metricsSvc = NewMetricsService(p.mappings, p.store, p.rows, 2, metricsManager, logger)
	p.embeddings = NewEmbeddingService(p.summaries, p.vectors, embedder, testEmbeddingDimension, metricsManager, logger)
	p.pipeline = NewPipelineService(
		NewResolverService(p.store, p.mappings, p.teams, resolver, metricsManager, logger),
		p.metricsSvc,
		NewSummaryService(p.mappings, p.teams, p.rows, p.summaries, metricsManager, logger),
		p.embeddings,
		vocabulary,
		id.Static("run-test"),
		metricsManager,
		logger,
	)
	p.retrieval = NewRetrievalService(p.summaries, p.vectors, vocabulary, names, p.embeddings, 5, metricsManager, logger)
	p.matches = NewMatchService(p.mappings, p.store, p.rows, p.summaries, p.vectors)
	return p
}

func (p *testPipeline) ingest(t *testing.T, inputs ...IngestInput) IngestReport {
	t.Helper()
	report, err := p.ingestion.IngestBatch(context.Background(), inputs)
	if err != nil {
		t.Fatalf("ingest batch: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	return report
}

func (p *testPipeline) run(t *testing.T) RunReport {
	t.Helper()
	report, err := p.pipeline.Run(context.Background())
	if err != nil {
		t.Fatalf("pipeline run: %v", err)
	}
	return report
}

func ws(body []byte) IngestInput {
	return IngestInput{Provider: rawevent.ProviderWhoScored, Body: body, Source: "test"}
}

func fm(body []byte) IngestInput {
	return IngestInput{Provider: rawevent.ProviderFotMob, Body: body, Source: "test"}
}
