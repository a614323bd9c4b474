package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

const maxPayloadBytes = 32 << 20

func (h *Handler) IngestPayload(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "IngestPayload")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, unavailable("ingestion"))
		return
	}

	provider, err := rawevent.ParseProvider(r.PathValue("provider"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, fmt.Errorf("%w: payload exceeds %d bytes", usecase.ErrInvalidInput, tooLarge.Limit))
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	source := strings.TrimSpace(r.Header.Get("X-Payload-Source"))
	if source == "" {
		source = "http"
	}
	item, err := h.ingestionService.Ingest(ctx, usecase.IngestInput{Provider: provider, Body: body, Source: source})
	if err != nil {
		h.logger.WarnContext(ctx, "ingest payload failed", "provider", provider, "source", source, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusCreated
	if item.Status != usecase.IngestStatusAccepted {
		status = http.StatusOK
	}
	writeSuccess(ctx, w, status, item)
}

func (h *Handler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RunPipeline")
	defer span.End()

	if h.pipelineService == nil {
		writeError(ctx, w, unavailable("pipeline"))
		return
	}

	report, err := h.pipelineService.Run(ctx)
	if errors.Is(err, mapping.ErrMappingAmbiguity) {
		h.logger.WarnContext(ctx, "pipeline run left fixtures unmapped",
			"run_id", report.RunID,
			"ambiguities", len(report.Resolve.Ambiguities),
		)
		writeErrorData(ctx, w, err, runReportToDTO(report))
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline run failed", "run_id", report.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runReportToDTO(report))
}
