package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetMatch")
	defer span.End()

	if h.matchService == nil {
		writeError(ctx, w, unavailable("match reads"))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	detail, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(detail))
}

func (h *Handler) ListMatchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMatchEvents")
	defer span.End()

	if h.matchService == nil {
		writeError(ctx, w, unavailable("match reads"))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	events, err := h.matchService.ListEvents(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match events failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, events)
}

func (h *Handler) Coverage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Coverage")
	defer span.End()

	if h.matchService == nil {
		writeError(ctx, w, unavailable("match reads"))
		return
	}

	report, err := h.matchService.Coverage(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "coverage report failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
