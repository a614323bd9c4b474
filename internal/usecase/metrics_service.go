package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/domain/teammetrics"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
)

const defaultMetricsWorkers = 4

type MetricsInput struct {
	// MatchIDs narrows the rebuild. Empty rebuilds every mapping.
	MatchIDs   []string
	MaxWorkers int
}

type MatchFailure struct {
	MatchID string `json:"match_id"`
	Error   string `json:"error"`
}

type MetricsReport struct {
	Matches     int            `json:"matches"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	WorkerCount int            `json:"worker_count"`
	Failures    []MatchFailure `json:"failures,omitempty"`
}

type MetricsService struct {
	mappings mapping.Repository
	events   rawevent.Repository
	rows     teammetrics.Repository
	workers  int
	metrics  *metrics.Manager
	logger   *logging.Logger
}

func NewMetricsService(
	mappings mapping.Repository,
	events rawevent.Repository,
	rows teammetrics.Repository,
	workers int,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *MetricsService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultMetricsWorkers
	}
	return &MetricsService{
		mappings: mappings,
		events:   events,
		rows:     rows,
		workers:  workers,
		metrics:  metricsManager,
		logger:   logger,
	}
}

// Rebuild recomputes the two team rows of every selected match on a worker
// pool. A failing match is reported and does not stop the others.
func (s *MetricsService) Rebuild(ctx context.Context, input MetricsInput) (MetricsReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetricsService.Rebuild")
	defer span.End()

	targets, err := s.selectMappings(ctx, input.MatchIDs)
	if err != nil {
		return MetricsReport{}, err
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.workers
	}
	if workerCount > len(targets) {
		workerCount = len(targets)
	}
	report := MetricsReport{Matches: len(targets), WorkerCount: workerCount}
	if len(targets) == 0 {
		return report, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return MetricsReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		succeeded atomic.Int32
		workers   sync.WaitGroup
		mu        sync.Mutex
		failures  []MatchFailure
	)
	for _, m := range targets {
		m := m
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if err := s.rebuildMatch(ctx, m); err != nil {
				s.metrics.MatchComputed(false)
				s.logger.WarnContext(ctx, "match metrics failed", "match_id", m.ID, "error", err)
				mu.Lock()
				failures = append(failures, MatchFailure{MatchID: m.ID, Error: err.Error()})
				mu.Unlock()
				return
			}
			s.metrics.MatchComputed(true)
			succeeded.Add(1)
		}); err != nil {
			workers.Done()
			return MetricsReport{}, fmt.Errorf("submit match to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.Slice(failures, func(i, j int) bool { return failures[i].MatchID < failures[j].MatchID })
	report.Succeeded = int(succeeded.Load())
	report.Failed = len(failures)
	report.Failures = failures
	return report, nil
}

func (s *MetricsService) selectMappings(ctx context.Context, matchIDs []string) ([]mapping.MatchMapping, error) {
	if len(matchIDs) == 0 {
		all, err := s.mappings.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list mappings: %w", err)
		}
		return all, nil
	}

	out := make([]mapping.MatchMapping, 0, len(matchIDs))
	seen := make(map[string]struct{}, len(matchIDs))
	for _, raw := range matchIDs {
		id := strings.TrimSpace(raw)
		if id == "" {
			return nil, fmt.Errorf("%w: match id must not be empty", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		m, ok, err := s.mappings.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get mapping %s: %w", id, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: match %s", ErrNotFound, id)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *MetricsService) rebuildMatch(ctx context.Context, m mapping.MatchMapping) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetricsService.rebuildMatch", matchAttr(m.ID))
	defer func() {
		failSpan(span, err)
		span.End()
	}()

	in := teammetrics.MatchInput{Mapping: m}
	if ref := m.WhoScored; ref != nil {
		events, err := s.events.ListEvents(ctx, rawevent.ProviderWhoScored, ref.ProviderMatchID)
		if err != nil {
			return fmt.Errorf("list whoscored events: %w", err)
		}
		in.WhoScored = events
	}
	if ref := m.FotMob; ref != nil {
		events, err := s.events.ListEvents(ctx, rawevent.ProviderFotMob, ref.ProviderMatchID)
		if err != nil {
			return fmt.Errorf("list fotmob events: %w", err)
		}
		in.FotMob = events
	}

	rows, err := teammetrics.Compute(in)
	if err != nil {
		return err
	}
	if err := s.rows.ReplaceByMatch(ctx, m.ID, rows); err != nil {
		return fmt.Errorf("replace metric rows: %w", err)
	}
	return nil
}
