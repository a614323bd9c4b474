package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchlens/internal/domain/embedding"
	"github.com/riskibarqy/matchlens/internal/domain/summary"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/metrics"
)

// Embedder turns text into a vector. The model behind it is external.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

type EmbeddingReport struct {
	Refreshed int  `json:"refreshed"`
	Fresh     int  `json:"fresh"`
	Failed    int  `json:"failed"`
	Disabled  bool `json:"disabled,omitempty"`
}

type EmbeddingService struct {
	summaries summary.Repository
	vectors   embedding.Repository
	embedder  Embedder
	dimension int
	metrics   *metrics.Manager
	logger    *logging.Logger
	now       func() time.Time
}

// NewEmbeddingService accepts a nil embedder; Refresh then reports the stage
// as disabled.
func NewEmbeddingService(
	summaries summary.Repository,
	vectors embedding.Repository,
	embedder Embedder,
	dimension int,
	metricsManager *metrics.Manager,
	logger *logging.Logger,
) *EmbeddingService {
	if logger == nil {
		logger = logging.Default()
	}
	if dimension <= 0 {
		dimension = embedding.DefaultDimension
	}
	return &EmbeddingService{
		summaries: summaries,
		vectors:   vectors,
		embedder:  embedder,
		dimension: dimension,
		metrics:   metricsManager,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *EmbeddingService) Enabled() bool {
	return s != nil && s.embedder != nil
}

// Refresh embeds every summary whose vector is missing or built from an
// older digest. Embedder failures are counted, not returned.
func (s *EmbeddingService) Refresh(ctx context.Context) (EmbeddingReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EmbeddingService.Refresh")
	defer span.End()

	if !s.Enabled() {
		return EmbeddingReport{Disabled: true}, nil
	}

	summaries, err := s.summaries.List(ctx, summary.Filter{})
	if err != nil {
		return EmbeddingReport{}, fmt.Errorf("list summaries: %w", err)
	}
	ids := make([]string, 0, len(summaries))
	for _, item := range summaries {
		ids = append(ids, item.MatchID)
	}
	stored, err := s.vectors.ListStates(ctx, ids)
	if err != nil {
		return EmbeddingReport{}, fmt.Errorf("list embeddings: %w", err)
	}

	var report EmbeddingReport
	for _, item := range summaries {
		if v, ok := stored[item.MatchID]; ok && !v.IsStale(item.DigestHash, item.TemplateVersion) && v.Model == s.embedder.Model() {
			report.Fresh++
			continue
		}

		values, err := s.EmbedText(ctx, item.Digest)
		if err != nil {
			report.Failed++
			s.metrics.EmbeddingRefreshed("failed")
			s.logger.WarnContext(ctx, "embed summary failed", "match_id", item.MatchID, "error", err)
			continue
		}
		err = s.vectors.Upsert(ctx, embedding.Vector{
			MatchID:         item.MatchID,
			Values:          values,
			DigestHash:      item.DigestHash,
			TemplateVersion: item.TemplateVersion,
			Model:           s.embedder.Model(),
			UpdatedAt:       s.now().UTC(),
		})
		if err != nil {
			return report, fmt.Errorf("upsert embedding %s: %w", item.MatchID, err)
		}
		report.Refreshed++
		s.metrics.EmbeddingRefreshed("refreshed")
	}
	return report, nil
}

// EmbedText returns the unit-length embedding of text.
func (s *EmbeddingService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("%w: embedder is disabled", ErrDependencyUnavailable)
	}
	raw, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	values, err := embedding.Normalize(raw, s.dimension)
	if err != nil {
		return nil, fmt.Errorf("normalize embedding: %w", err)
	}
	return values, nil
}
