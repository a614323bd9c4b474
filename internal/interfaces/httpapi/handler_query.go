package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Query")
	defer span.End()

	if h.retrievalService == nil {
		writeError(ctx, w, unavailable("retrieval"))
		return
	}

	var req queryRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.retrievalService.Query(ctx, usecase.QueryRequest{
		Query:       req.Query,
		Competition: req.Competition,
		From:        req.From,
		To:          req.To,
		Limit:       req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "query failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queryResultToDTO(result))
}
