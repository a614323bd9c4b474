package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/matchlens/internal/platform/id"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
)

const (
	stageResolve    = "resolve"
	stageMetrics    = "metrics"
	stageSummaries  = "summaries"
	stageEmbeddings = "embeddings"
)

const (
	RunCompleted = "completed"
	// RunAmbiguous means every stage ran but some fixtures stayed unmapped.
	RunAmbiguous = "ambiguous"
	RunFailed    = "failed"
)

type RunReport struct {
	RunID      string           `json:"run_id"`
	Status     string           `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMs int64            `json:"duration_ms"`
	Resolve    ResolveReport    `json:"resolve"`
	Metrics    MetricsReport    `json:"metrics"`
	Summaries  SummaryReport    `json:"summaries"`
	Embeddings EmbeddingReport  `json:"embeddings"`
	Stages     map[string]int64 `json:"stage_duration_ms"`
}

// PipelineService runs resolve, metrics, summaries and embeddings in order.
// One run at a time; a second caller waits for the first to finish.
type PipelineService struct {
	resolver   *ResolverService
	metricsSvc *MetricsService
	summaries  *SummaryService
	embeddings *EmbeddingService
	vocabulary *TeamVocabulary
	ids        id.Generator
	metrics    *metrics.Manager
	logger     *logging.Logger

	mu sync.Mutex
}

func NewPipelineService(
	resolver *ResolverService,
	metricsSvc *MetricsService,
	summaries *SummaryService,
	embeddings *EmbeddingService,
	vocabulary *TeamVocabulary,
	ids id.Generator,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &PipelineService{
		resolver:   resolver,
		metricsSvc: metricsSvc,
		summaries:  summaries,
		embeddings: embeddings,
		vocabulary: vocabulary,
		ids:        ids,
		metrics:    metricsManager,
		logger:     logger,
	}
}

// Run executes every stage. Per-item failures land in the report and an
// infrastructure failure stops the run. Mapping ambiguities do not stop the
// later stages, but Run returns them joined under ErrMappingAmbiguity once
// the unambiguous matches are fully built.
func (s *PipelineService) Run(ctx context.Context) (RunReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	runID, err := s.ids.NewID()
	if err != nil {
		return RunReport{}, err
	}
	logger := s.logger.With("run_id", runID)
	report := RunReport{RunID: runID, Status: RunFailed, StartedAt: time.Now().UTC(), Stages: make(map[string]int64, 4)}

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{stageResolve, func(ctx context.Context) error {
			res, err := s.resolver.Resolve(ctx)
			report.Resolve = res
			if s.vocabulary != nil {
				s.vocabulary.Invalidate()
			}
			return err
		}},
		{stageMetrics, func(ctx context.Context) error {
			res, err := s.metricsSvc.Rebuild(ctx, MetricsInput{})
			report.Metrics = res
			return err
		}},
		{stageSummaries, func(ctx context.Context) error {
			res, err := s.summaries.Rebuild(ctx)
			report.Summaries = res
			return err
		}},
		{stageEmbeddings, func(ctx context.Context) error {
			res, err := s.embeddings.Refresh(ctx)
			report.Embeddings = res
			return err
		}},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		started := time.Now()
		var err error
		// Labels split the profile by stage when pyroscope is running.
		pyroscope.TagWrapper(ctx, pyroscope.Labels("pipeline_stage", stage.name), func(ctx context.Context) {
			err = stage.run(ctx)
		})
		elapsed := time.Since(started)
		report.Stages[stage.name] = elapsed.Milliseconds()
		s.metrics.ObserveStage(stage.name, elapsed)
		if err != nil {
			failSpan(span, err)
			logger.ErrorContext(ctx, "pipeline stage failed", "stage", stage.name, "error", err)
			return report, fmt.Errorf("%s stage: %w", stage.name, err)
		}
		logger.InfoContext(ctx, "pipeline stage completed", "stage", stage.name, "duration_ms", elapsed.Milliseconds())
	}

	report.DurationMs = time.Since(report.StartedAt).Milliseconds()
	if err := report.Resolve.Err(); err != nil {
		report.Status = RunAmbiguous
		failSpan(span, err)
		logger.WarnContext(ctx, "pipeline run left fixtures unmapped",
			"ambiguities", len(report.Resolve.Ambiguities),
			"mappings_created", report.Resolve.Created,
		)
		return report, fmt.Errorf("%s stage: %w", stageResolve, err)
	}

	report.Status = RunCompleted
	logger.InfoContext(ctx, "pipeline run completed",
		"mappings_created", report.Resolve.Created,
		"mappings_widened", report.Resolve.Widened,
		"metrics_failed", report.Metrics.Failed,
		"summaries", report.Summaries.Summaries,
		"embeddings_refreshed", report.Embeddings.Refreshed,
		"embeddings_failed", report.Embeddings.Failed,
	)
	return report, nil
}
