package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/validation"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

// Services is every usecase the API exposes. A nil service answers 503.
type Services struct {
	Ingestion *usecase.IngestionService
	Pipeline  *usecase.PipelineService
	Retrieval *usecase.RetrievalService
	Matches   *usecase.MatchService
}

type Handler struct {
	ingestionService *usecase.IngestionService
	pipelineService  *usecase.PipelineService
	retrievalService *usecase.RetrievalService
	matchService     *usecase.MatchService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestionService: services.Ingestion,
		pipelineService:  services.Pipeline,
		retrievalService: services.Retrieval,
		matchService:     services.Matches,
		logger:           logger,
		validator:        validation.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		if field, rule, ok := validation.FirstFieldError(err); ok {
			return fmt.Errorf("%w: %s failed %s", usecase.ErrInvalidInput, field, rule)
		}
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func unavailable(name string) error {
	return fmt.Errorf("%w: %s is not configured", usecase.ErrDependencyUnavailable, name)
}
