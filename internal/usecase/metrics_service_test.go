package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/matchlens/external/whoscored"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
	mappingmock "github.com/riskibarqy/matchlens/internal/mocks/domain/mapping"
	raweventmock "github.com/riskibarqy/matchlens/internal/mocks/domain/rawevent"
	teammetricsmock "github.com/riskibarqy/matchlens/internal/mocks/domain/teammetrics"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
	"github.com/stretchr/testify/mock"
)

func whoScoredOnlyMapping(id, providerMatchID string) mapping.MatchMapping {
	return mapping.MatchMapping{
		ID:          id,
		Competition: "Eredivisie",
		Kickoff:     time.Date(2024, 8, 10, 18, 45, 0, 0, time.UTC),
		HomeTeamID:  id + "-home",
		AwayTeamID:  id + "-away",
		WhoScored: &mapping.ProviderMatchRef{
			ProviderMatchID: providerMatchID,
			HomeTeamID:      "129",
			AwayTeamID:      "874",
		},
	}
}

func parsedWhoScoredEvents(t *testing.T) []rawevent.Event {
	t.Helper()
	_, events, err := whoscored.NewParser().Parse(psvAjaxWhoScored)
	if err != nil {
		t.Fatalf("parse fixture payload: %v", err)
	}
	return events
}

func TestMetricsService_Rebuild_OneFailureDoesNotStopOthersUsingMockery(t *testing.T) {
	mappingRepo := mappingmock.NewRepository(t)
	eventRepo := raweventmock.NewRepository(t)
	rowRepo := teammetricsmock.NewRepository(t)
	service := NewMetricsService(mappingRepo, eventRepo, rowRepo, 2, metrics.NewManager(), logging.NewNop())

	good := whoScoredOnlyMapping("m-good", "1821010")
	bad := whoScoredOnlyMapping("m-bad", "999")

	mappingRepo.On("List", mock.Anything).Return([]mapping.MatchMapping{good, bad}, nil).Once()
	eventRepo.
		On("ListEvents", mock.Anything, rawevent.ProviderWhoScored, "1821010").
		Return(parsedWhoScoredEvents(t), nil).
		Once()
	eventRepo.
		On("ListEvents", mock.Anything, rawevent.ProviderWhoScored, "999").
		Return(nil, errors.New("read timeout")).
		Once()
	rowRepo.
		On("ReplaceByMatch", mock.Anything, "m-good", mock.MatchedBy(func(rows []teammetrics.TeamMatchMetrics) bool {
			return len(rows) == 2 && rows[0].MatchID == "m-good"
		})).
		Return(nil).
		Once()

	report, err := service.Rebuild(context.Background(), MetricsInput{})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if report.Matches != 2 || report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Failures) != 1 || report.Failures[0].MatchID != "m-bad" {
		t.Fatalf("unexpected failures: %+v", report.Failures)
	}
	if report.WorkerCount != 2 {
		t.Fatalf("unexpected worker count: %d", report.WorkerCount)
	}
}

func TestMetricsService_Rebuild_SelectedMatches(t *testing.T) {
	t.Run("unknown match", func(t *testing.T) {
		mappingRepo := mappingmock.NewRepository(t)
		service := NewMetricsService(mappingRepo, raweventmock.NewRepository(t), teammetricsmock.NewRepository(t), 0, nil, nil)

		mappingRepo.On("GetByID", mock.Anything, "missing").Return(mapping.MatchMapping{}, false, nil).Once()

		_, err := service.Rebuild(context.Background(), MetricsInput{MatchIDs: []string{"missing"}})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("blank id", func(t *testing.T) {
		service := NewMetricsService(mappingmock.NewRepository(t), raweventmock.NewRepository(t), teammetricsmock.NewRepository(t), 0, nil, nil)

		_, err := service.Rebuild(context.Background(), MetricsInput{MatchIDs: []string{" "}})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		mappingRepo := mappingmock.NewRepository(t)
		eventRepo := raweventmock.NewRepository(t)
		rowRepo := teammetricsmock.NewRepository(t)
		service := NewMetricsService(mappingRepo, eventRepo, rowRepo, 4, nil, nil)

		m := whoScoredOnlyMapping("m-1", "1821010")
		mappingRepo.On("GetByID", mock.Anything, "m-1").Return(m, true, nil).Once()
		eventRepo.On("ListEvents", mock.Anything, rawevent.ProviderWhoScored, "1821010").Return(parsedWhoScoredEvents(t), nil).Once()
		rowRepo.On("ReplaceByMatch", mock.Anything, "m-1", mock.Anything).Return(nil).Once()

		report, err := service.Rebuild(context.Background(), MetricsInput{MatchIDs: []string{"m-1", "m-1"}})
		if err != nil {
			t.Fatalf("rebuild: %v", err)
		}
		if report.Matches != 1 || report.Succeeded != 1 || report.WorkerCount != 1 {
			t.Fatalf("unexpected report: %+v", report)
		}
	})
}

func TestMetricsService_Rebuild_NoMappings(t *testing.T) {
	mappingRepo := mappingmock.NewRepository(t)
	service := NewMetricsService(mappingRepo, raweventmock.NewRepository(t), teammetricsmock.NewRepository(t), 0, nil, nil)

	mappingRepo.On("List", mock.Anything).Return(nil, nil).Once()

	report, err := service.Rebuild(context.Background(), MetricsInput{})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if report.Matches != 0 || report.WorkerCount != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
