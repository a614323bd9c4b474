package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
)

type ResolveReport struct {
	Created     int                  `json:"created"`
	Widened     int                  `json:"widened"`
	Unchanged   int                  `json:"unchanged"`
	TeamsSaved  int                  `json:"teams_saved"`
	Gaps        []mapping.GapWarning `json:"gaps"`
	Ambiguities []string             `json:"ambiguities"`

	err error
}

// Err is the joined ambiguity error of the run, nil when every fixture was
// either paired or stored as a partial mapping.
func (r ResolveReport) Err() error {
	return r.err
}

type ResolverService struct {
	fixtures rawevent.Repository
	mappings mapping.Repository
	teams    team.Repository
	resolver *mapping.Resolver
	metrics  *metrics.Manager
	logger   *logging.Logger
}

func NewResolverService(
	fixtures rawevent.Repository,
	mappings mapping.Repository,
	teams team.Repository,
	resolver *mapping.Resolver,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *ResolverService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResolverService{
		fixtures: fixtures,
		mappings: mappings,
		teams:    teams,
		resolver: resolver,
		metrics:  metricsManager,
		logger:   logger,
	}
}

// Resolve pairs every stored fixture. Ambiguous fixtures are left unmapped
// and reported; everything else is persisted.
func (s *ResolverService) Resolve(ctx context.Context) (ResolveReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.Resolve")
	defer span.End()

	whoscored, err := s.fixtures.ListFixtures(ctx, rawevent.ProviderWhoScored)
	if err != nil {
		return ResolveReport{}, fmt.Errorf("list whoscored fixtures: %w", err)
	}
	fotmob, err := s.fixtures.ListFixtures(ctx, rawevent.ProviderFotMob)
	if err != nil {
		return ResolveReport{}, fmt.Errorf("list fotmob fixtures: %w", err)
	}
	existing, err := s.mappings.List(ctx)
	if err != nil {
		return ResolveReport{}, fmt.Errorf("list mappings: %w", err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return ResolveReport{}, fmt.Errorf("list teams: %w", err)
	}

	res := s.resolver.Resolve(mapping.Input{
		WhoScored: whoscored,
		FotMob:    fotmob,
		Existing:  existing,
		Teams:     teams,
	})

	if len(res.Teams) > 0 {
		if err := s.teams.UpsertMany(ctx, res.Teams); err != nil {
			return ResolveReport{}, fmt.Errorf("upsert teams: %w", err)
		}
	}
	if len(res.Mappings) > 0 {
		if err := s.mappings.UpsertMany(ctx, res.Mappings); err != nil {
			return ResolveReport{}, fmt.Errorf("upsert mappings: %w", err)
		}
	}

	report := ResolveReport{
		Created:     res.Created,
		Widened:     res.Widened,
		Unchanged:   res.Unchanged,
		TeamsSaved:  len(res.Teams),
		Gaps:        res.Gaps,
		Ambiguities: make([]string, 0, len(res.Ambiguities)),
		err:         res.Err(),
	}
	for _, amb := range res.Ambiguities {
		report.Ambiguities = append(report.Ambiguities, amb.Error())
		s.logger.WarnContext(ctx, "fixture left unmapped",
			"provider", amb.Provider,
			"provider_match_id", amb.ProviderMatchID,
			"reason", amb.Reason,
			"candidates", amb.Candidates,
		)
	}
	for _, gap := range res.Gaps {
		s.logger.InfoContext(ctx, "fixture has no counterpart",
			"match_id", gap.CanonicalMatchID,
			"provider", gap.Provider,
			"provider_match_id", gap.ProviderMatchID,
			"missing", gap.Missing,
		)
	}

	s.metrics.MappingOutcome("created", report.Created)
	s.metrics.MappingOutcome("widened", report.Widened)
	s.metrics.MappingOutcome("unchanged", report.Unchanged)
	s.metrics.MappingOutcome("gap", len(report.Gaps))
	s.metrics.MappingOutcome("ambiguous", len(report.Ambiguities))
	return report, nil
}
