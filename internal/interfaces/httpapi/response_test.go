package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/query"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_ExpandsDomainDetails(t *testing.T) {
	t.Run("parse error location", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := fmt.Errorf("%w: %w", usecase.ErrInvalidInput, rawevent.Malformed(rawevent.ProviderWhoScored, "events[3].x", "out of range"))
		writeError(context.Background(), rec, err)

		body := decodeEnvelope(t, rec)
		if body.Error == nil || len(body.Error.Errors) != 1 {
			t.Fatalf("expected one error item, got %+v", body.Error)
		}
		item := body.Error.Errors[0]
		if item.Reason != "malformedPayload" || item.Location != "whoscored.events[3].x" || item.LocationType != "payload" {
			t.Fatalf("unexpected item %+v", item)
		}
	})

	t.Run("ambiguous team candidates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(context.Background(), rec, &query.AmbiguousTeamsError{Fragment: "fc", Candidates: []string{"FC Twente", "FC Utrecht"}})

		body := decodeEnvelope(t, rec)
		if rec.Code != http.StatusConflict || len(body.Error.Errors) != 2 {
			t.Fatalf("expected two candidate items with 409, got %d %+v", rec.Code, body.Error)
		}
		if body.Error.Errors[1].Message != "FC Utrecht" || body.Error.Errors[1].Location != "fc" {
			t.Fatalf("unexpected candidate item %+v", body.Error.Errors[1])
		}
	})

	t.Run("joined mapping ambiguities keep partial data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		joined := errors.Join(
			&mapping.AmbiguityError{Provider: rawevent.ProviderWhoScored, ProviderMatchID: "1821010", Reason: mapping.ReasonMultipleCandidates, Candidates: []string{"4506330"}},
			&mapping.AmbiguityError{Provider: rawevent.ProviderFotMob, ProviderMatchID: "4506330", Reason: mapping.ReasonMultipleCandidates, Candidates: []string{"1821010", "999"}},
		)
		writeErrorData(context.Background(), rec, fmt.Errorf("resolve stage: %w", joined), map[string]string{"status": "ambiguous"})

		body := decodeEnvelope(t, rec)
		if rec.Code != http.StatusConflict || body.Error == nil || len(body.Error.Errors) != 2 {
			t.Fatalf("expected two fixture items with 409, got %d %+v", rec.Code, body.Error)
		}
		item := body.Error.Errors[1]
		if item.Reason != "mappingAmbiguity" || item.Location != "fotmob.4506330" || item.LocationType != "fixture" {
			t.Fatalf("unexpected fixture item %+v", item)
		}
		if item.Message != mapping.ReasonMultipleCandidates+": 1821010, 999" {
			t.Fatalf("unexpected fixture message %q", item.Message)
		}
		data, _ := body.Data.(map[string]any)
		if data["status"] != "ambiguous" {
			t.Fatalf("expected report kept in data, got %v", body.Data)
		}
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestMapError_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: fmt.Errorf("%w: query is required", usecase.ErrInvalidInput), want: http.StatusBadRequest},
		{name: "malformed payload wrapped", err: fmt.Errorf("%w: %w", usecase.ErrInvalidInput, rawevent.Malformed(rawevent.ProviderFotMob, "general", "required")), want: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("%w: match m1", usecase.ErrNotFound), want: http.StatusNotFound},
		{name: "unauthorized", err: usecase.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "embedder down", err: fmt.Errorf("%w: embedder is disabled", usecase.ErrDependencyUnavailable), want: http.StatusServiceUnavailable},
		{name: "ambiguous team", err: &query.AmbiguousTeamsError{Fragment: "manchester", Candidates: []string{"Manchester United", "Manchester City"}}, want: http.StatusConflict},
		{name: "mapping ambiguity", err: &mapping.AmbiguityError{Reason: mapping.ReasonMultipleCandidates}, want: http.StatusConflict},
		{name: "payload conflict", err: fmt.Errorf("%w: %w", usecase.ErrConflict, rawevent.ErrPayloadConflict), want: http.StatusConflict},
		{name: "unknown", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err).HTTPStatus; got != tt.want {
				t.Fatalf("mapError(%v)=%d want=%d", tt.err, got, tt.want)
			}
		})
	}
}
