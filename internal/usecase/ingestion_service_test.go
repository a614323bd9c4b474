package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/matchlens/external/fotmob"
	"github.com/riskibarqy/matchlens/external/whoscored"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	raweventmock "github.com/riskibarqy/matchlens/internal/mocks/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockedIngestion(t *testing.T) (*IngestionService, *raweventmock.Repository) {
	t.Helper()
	store := raweventmock.NewRepository(t)
	service := NewIngestionService(store, []rawevent.Parser{whoscored.NewParser(), fotmob.NewParser()}, 2, nil, logging.NewNop())
	return service, store
}

func TestIngestionService_IngestBatch_ReportsEveryOutcome(t *testing.T) {
	p := newTestPipeline(t, nil)
	ctx := context.Background()

	report, err := p.ingestion.IngestBatch(ctx, []IngestInput{
		ws(psvAjaxWhoScored),
		fm(psvAjaxFotMob),
		ws([]byte(`{"matchId": 1}`)),
		{Provider: "opta", Body: psvAjaxWhoScored, Source: "opta.json"},
		ws(nil),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 3, report.Rejected)
	require.Len(t, report.Items, 5)
	assert.Equal(t, IngestStatusAccepted, report.Items[0].Status)
	assert.Equal(t, "1821010", report.Items[0].ProviderMatchID)
	assert.Equal(t, 7, report.Items[0].Events)
	assert.Equal(t, IngestStatusAccepted, report.Items[1].Status)
	for _, item := range report.Items[2:] {
		assert.Equal(t, IngestStatusRejected, item.Status)
		assert.NotEmpty(t, item.Error)
	}
	assert.True(t, errors.Is(report.Err(), rawevent.ErrMalformedPayload))

	fixtures, err := p.store.ListFixtures(ctx, rawevent.ProviderWhoScored)
	require.NoError(t, err)
	assert.Len(t, fixtures, 1)
}

func TestIngestionService_IngestBatch_RequiresPayloads(t *testing.T) {
	service, _ := newMockedIngestion(t)

	_, err := service.IngestBatch(context.Background(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIngestionService_IngestIsIdempotent(t *testing.T) {
	p := newTestPipeline(t, nil)
	ctx := context.Background()

	first, err := p.ingestion.Ingest(ctx, ws(psvAjaxWhoScored))
	require.NoError(t, err)
	assert.Equal(t, IngestStatusAccepted, first.Status)

	again, err := p.ingestion.Ingest(ctx, ws(psvAjaxWhoScored))
	require.NoError(t, err)
	assert.Equal(t, IngestStatusUnchanged, again.Status)

	events, err := p.store.ListEvents(ctx, rawevent.ProviderWhoScored, "1821010")
	require.NoError(t, err)
	assert.Len(t, events, 7)
}

func TestIngestionService_Ingest_ConflictUsingMockery(t *testing.T) {
	service, store := newMockedIngestion(t)
	ctx := context.Background()

	store.
		On("Insert", mock.Anything, mock.MatchedBy(func(r rawevent.Record) bool {
			return r.Payload.ProviderMatchID == "1821010" && r.Payload.Hash == rawevent.HashBody(psvAjaxWhoScored)
		})).
		Return(rawevent.InsertResult(""), rawevent.ErrPayloadConflict).
		Once()

	item, err := service.Ingest(ctx, ws(psvAjaxWhoScored))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if !errors.Is(err, rawevent.ErrPayloadConflict) {
		t.Fatalf("expected wrapped ErrPayloadConflict, got %v", err)
	}
	assert.Equal(t, IngestStatusRejected, item.Status)
}

func TestIngestionService_Ingest_MalformedUsingMockery(t *testing.T) {
	service, _ := newMockedIngestion(t)

	_, err := service.Ingest(context.Background(), fm([]byte(`{"general": {}}`)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var parseErr *rawevent.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *rawevent.ParseError in chain, got %T", err)
	}
}

func TestIngestionService_StoreFailureStopsBatchUsingMockery(t *testing.T) {
	service, store := newMockedIngestion(t)
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	store.
		On("Insert", mock.Anything, mock.AnythingOfType("rawevent.Record")).
		Return(rawevent.InsertResult(""), storeErr).
		Once()

	_, err := service.IngestBatch(ctx, []IngestInput{ws(psvAjaxWhoScored), fm(psvAjaxFotMob)})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
