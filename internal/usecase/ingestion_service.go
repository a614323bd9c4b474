package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
	"github.com/sourcegraph/conc/iter"
)

const (
	IngestStatusAccepted  = "accepted"
	IngestStatusUnchanged = "unchanged"
	IngestStatusRejected  = "rejected"
)

type IngestInput struct {
	Provider rawevent.Provider
	Body     []byte
	// Source names where the body came from, a file path or request id.
	Source string
}

type IngestItem struct {
	Source          string `json:"source,omitempty"`
	Provider        string `json:"provider"`
	ProviderMatchID string `json:"provider_match_id,omitempty"`
	Status          string `json:"status"`
	Events          int    `json:"events"`
	Error           string `json:"error,omitempty"`

	err error
}

type IngestReport struct {
	Accepted  int          `json:"accepted"`
	Unchanged int          `json:"unchanged"`
	Rejected  int          `json:"rejected"`
	Items     []IngestItem `json:"items"`
}

// Err joins every rejection in the report.
func (r IngestReport) Err() error {
	var errs []error
	for _, item := range r.Items {
		if item.err != nil {
			errs = append(errs, item.err)
		}
	}
	return errors.Join(errs...)
}

type IngestionService struct {
	store        rawevent.Repository
	parsers      map[rawevent.Provider]rawevent.Parser
	parseWorkers int
	metrics      *metrics.Manager
	logger       *logging.Logger
	now          func() time.Time
}

func NewIngestionService(
	store rawevent.Repository,
	parsers []rawevent.Parser,
	parseWorkers int,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	byProvider := make(map[rawevent.Provider]rawevent.Parser, len(parsers))
	for _, p := range parsers {
		byProvider[p.Provider()] = p
	}
	return &IngestionService{
		store:        store,
		parsers:      byProvider,
		parseWorkers: parseWorkers,
		metrics:      metricsManager,
		logger:       logger,
		now:          time.Now,
	}
}

type parsedPayload struct {
	record rawevent.Record
	err    error
}

// IngestBatch parses every payload concurrently and stores the valid ones.
// A bad payload is rejected on its own; the batch only fails when the store
// itself is unreachable.
func (s *IngestionService) IngestBatch(ctx context.Context, inputs []IngestInput) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestBatch")
	defer span.End()

	if len(inputs) == 0 {
		return IngestReport{}, fmt.Errorf("%w: at least one payload is required", ErrInvalidInput)
	}

	mapper := iter.Mapper[IngestInput, parsedPayload]{MaxGoroutines: s.parseWorkers}
	parsed := mapper.Map(inputs, func(in *IngestInput) parsedPayload {
		return s.parse(*in)
	})

	report := IngestReport{Items: make([]IngestItem, 0, len(inputs))}
	for i, p := range parsed {
		item := IngestItem{Source: inputs[i].Source, Provider: string(inputs[i].Provider)}
		if p.err != nil {
			item.Status, item.Error, item.err = IngestStatusRejected, p.err.Error(), p.err
			report.Rejected++
			report.Items = append(report.Items, item)
			s.metrics.PayloadIngested(item.Provider, item.Status)
			s.logger.WarnContext(ctx, "payload rejected", "source", item.Source, "provider", item.Provider, "error", p.err)
			continue
		}

		item.ProviderMatchID = p.record.Payload.ProviderMatchID
		item.Events = len(p.record.Events)
		result, err := s.store.Insert(ctx, p.record)
		switch {
		case errors.Is(err, rawevent.ErrPayloadConflict):
			item.Status, item.Error, item.err = IngestStatusRejected, err.Error(), err
			report.Rejected++
			s.logger.WarnContext(ctx, "payload conflicts with stored body",
				"provider", item.Provider, "provider_match_id", item.ProviderMatchID)
		case err != nil:
			return report, fmt.Errorf("store %s payload %s: %w", item.Provider, item.ProviderMatchID, err)
		case result == rawevent.InsertUnchanged:
			item.Status = IngestStatusUnchanged
			report.Unchanged++
		default:
			item.Status = IngestStatusAccepted
			report.Accepted++
		}
		s.metrics.PayloadIngested(item.Provider, item.Status)
		report.Items = append(report.Items, item)
	}

	s.logger.InfoContext(ctx, "ingestion batch completed",
		"accepted", report.Accepted,
		"unchanged", report.Unchanged,
		"rejected", report.Rejected,
	)
	return report, nil
}

// Ingest stores one payload and reports rejection as an error.
func (s *IngestionService) Ingest(ctx context.Context, in IngestInput) (IngestItem, error) {
	report, err := s.IngestBatch(ctx, []IngestInput{in})
	if err != nil {
		return IngestItem{}, err
	}
	item := report.Items[0]
	switch {
	case item.err == nil:
		return item, nil
	case errors.Is(item.err, rawevent.ErrPayloadConflict):
		return item, fmt.Errorf("%w: %w", ErrConflict, item.err)
	default:
		return item, fmt.Errorf("%w: %w", ErrInvalidInput, item.err)
	}
}

func (s *IngestionService) parse(in IngestInput) parsedPayload {
	parser, ok := s.parsers[in.Provider]
	if !ok {
		return parsedPayload{err: fmt.Errorf("%w: unsupported provider %q", rawevent.ErrMalformedPayload, in.Provider)}
	}
	if len(strings.TrimSpace(string(in.Body))) == 0 {
		return parsedPayload{err: rawevent.Malformed(in.Provider, "body", "empty")}
	}

	fixture, events, err := parser.Parse(in.Body)
	if err != nil {
		return parsedPayload{err: err}
	}
	return parsedPayload{record: rawevent.Record{
		Payload: rawevent.Payload{
			Provider:        in.Provider,
			ProviderMatchID: fixture.ProviderMatchID,
			Body:            in.Body,
			Hash:            rawevent.HashBody(in.Body),
			IngestedAt:      s.now().UTC(),
		},
		Fixture: fixture,
		Events:  events,
	}}
}
