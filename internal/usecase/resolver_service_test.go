package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/team"
	mappingmock "github.com/riskibarqy/matchlens/internal/mocks/domain/mapping"
	raweventmock "github.com/riskibarqy/matchlens/internal/mocks/domain/rawevent"
	teammock "github.com/riskibarqy/matchlens/internal/mocks/domain/team"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func fixtureOf(p rawevent.Provider, id, home, away string, kickoff time.Time) rawevent.Fixture {
	return rawevent.Fixture{
		Provider:        p,
		ProviderMatchID: id,
		Competition:     "Eredivisie",
		Kickoff:         kickoff,
		Home:            rawevent.TeamRef{ProviderTeamID: string(p) + "-" + home, Name: home},
		Away:            rawevent.TeamRef{ProviderTeamID: string(p) + "-" + away, Name: away},
	}
}

func newMockedResolver(t *testing.T) (*ResolverService, *raweventmock.Repository, *mappingmock.Repository, *teammock.Repository) {
	t.Helper()
	fixtures := raweventmock.NewRepository(t)
	mappings := mappingmock.NewRepository(t)
	teams := teammock.NewRepository(t)
	resolver := mapping.NewResolver(team.NewMatcher(nil, 0), mapping.ResolverConfig{})
	return NewResolverService(fixtures, mappings, teams, resolver, nil, logging.NewNop()), fixtures, mappings, teams
}

func TestResolverService_Resolve_PersistsPairsUsingMockery(t *testing.T) {
	service, fixtures, mappings, teams := newMockedResolver(t)
	kickoff := time.Date(2024, 8, 10, 18, 45, 0, 0, time.UTC)

	fixtures.On("ListFixtures", mock.Anything, rawevent.ProviderWhoScored).
		Return([]rawevent.Fixture{fixtureOf(rawevent.ProviderWhoScored, "1", "PSV Eindhoven", "AFC Ajax", kickoff)}, nil).Once()
	fixtures.On("ListFixtures", mock.Anything, rawevent.ProviderFotMob).
		Return([]rawevent.Fixture{fixtureOf(rawevent.ProviderFotMob, "9", "PSV", "Ajax", kickoff.Add(time.Hour))}, nil).Once()
	mappings.On("List", mock.Anything).Return(nil, nil).Once()
	teams.On("List", mock.Anything).Return(nil, nil).Once()
	teams.On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []team.Team) bool { return len(items) == 2 })).
		Return(nil).Once()
	mappings.On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []mapping.MatchMapping) bool {
		return len(items) == 1 && items[0].Coverage() == mapping.CoverageFull
	})).Return(nil).Once()

	report, err := service.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if report.Created != 1 || report.TeamsSaved != 2 || len(report.Gaps) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Err() != nil {
		t.Fatalf("unexpected ambiguity: %v", report.Err())
	}
}

func TestResolverService_Resolve_ReportsAmbiguityUsingMockery(t *testing.T) {
	service, fixtures, mappings, teams := newMockedResolver(t)
	kickoff := time.Date(2024, 8, 10, 18, 45, 0, 0, time.UTC)

	fixtures.On("ListFixtures", mock.Anything, rawevent.ProviderWhoScored).Return([]rawevent.Fixture{
		fixtureOf(rawevent.ProviderWhoScored, "1", "PSV", "Ajax", kickoff),
		fixtureOf(rawevent.ProviderWhoScored, "2", "PSV", "Ajax", kickoff.Add(3*time.Hour)),
	}, nil).Once()
	fixtures.On("ListFixtures", mock.Anything, rawevent.ProviderFotMob).
		Return([]rawevent.Fixture{fixtureOf(rawevent.ProviderFotMob, "9", "PSV", "Ajax", kickoff)}, nil).Once()
	mappings.On("List", mock.Anything).Return(nil, nil).Once()
	teams.On("List", mock.Anything).Return(nil, nil).Once()

	report, err := service.Resolve(context.Background())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(report.Ambiguities) != 3 {
		t.Fatalf("expected every contested fixture reported, got %v", report.Ambiguities)
	}
	if !errors.Is(report.Err(), mapping.ErrMappingAmbiguity) {
		t.Fatalf("expected ErrMappingAmbiguity, got %v", report.Err())
	}
}

func TestResolverService_Resolve_StoreFailureUsingMockery(t *testing.T) {
	service, fixtures, _, _ := newMockedResolver(t)

	fixtures.On("ListFixtures", mock.Anything, rawevent.ProviderWhoScored).Return(nil, errors.New("db down")).Once()

	if _, err := service.Resolve(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
