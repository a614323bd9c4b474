package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
)

type SummaryReport struct {
	Summaries      int `json:"summaries"`
	MissingMetrics int `json:"missing_metrics"`
}

type SummaryService struct {
	mappings  mapping.Repository
	teams     team.Repository
	rows      teammetrics.Repository
	summaries summary.Repository
	metrics   *metrics.Manager
	logger    *logging.Logger
}

func NewSummaryService(
	mappings mapping.Repository,
	teams team.Repository,
	rows teammetrics.Repository,
	summaries summary.Repository,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *SummaryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SummaryService{
		mappings:  mappings,
		teams:     teams,
		rows:      rows,
		summaries: summaries,
		metrics:   metricsManager,
		logger:    logger,
	}
}

// Rebuild writes exactly one summary per canonical match. Matches without
// metric rows still get a summary with null metrics.
func (s *SummaryService) Rebuild(ctx context.Context) (SummaryReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SummaryService.Rebuild")
	defer span.End()

	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("list mappings: %w", err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return SummaryReport{}, fmt.Errorf("list teams: %w", err)
	}
	byID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	var report SummaryReport
	out := make([]summary.MatchSummary, 0, len(mappings))
	for _, m := range mappings {
		rows, err := s.rows.ListByMatch(ctx, m.ID)
		if err != nil {
			return SummaryReport{}, fmt.Errorf("list metrics of %s: %w", m.ID, err)
		}
		if len(rows) < 2 {
			report.MissingMetrics++
		}
		out = append(out, summary.Build(m, byID, rows))
	}

	if len(out) > 0 {
		if err := s.summaries.UpsertMany(ctx, out); err != nil {
			return SummaryReport{}, fmt.Errorf("upsert summaries: %w", err)
		}
	}
	report.Summaries = len(out)
	s.metrics.SummariesRebuilt(report.Summaries)
	if report.MissingMetrics > 0 {
		s.logger.WarnContext(ctx, "summaries built without metrics", "count", report.MissingMetrics)
	}
	return report, nil
}
