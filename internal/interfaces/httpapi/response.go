package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/domain/query"
	"github.com/riskibarqy/matchlens/internal/domain/rawevent"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "matchlens"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain       string `json:"domain"`
	Reason       string `json:"reason"`
	Message      string `json:"message"`
	Location     string `json:"location,omitempty"`
	LocationType string `json:"locationType,omitempty"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorRules is checked in order; the first sentinel found in the chain wins.
// Malformed payloads come first so they keep their own reason even when the
// usecase wraps them in ErrInvalidInput.
var errorRules = []struct {
	targets []error
	mapped  mappedError
}{
	{[]error{rawevent.ErrMalformedPayload}, mappedError{http.StatusBadRequest, "malformedPayload", "INVALID_ARGUMENT"}},
	{[]error{usecase.ErrInvalidInput}, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{[]error{usecase.ErrNotFound}, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{[]error{usecase.ErrUnauthorized}, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{[]error{usecase.ErrDependencyUnavailable}, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
	{[]error{query.ErrRetrievalAmbiguousTeams}, mappedError{http.StatusConflict, "ambiguousTeams", "ABORTED"}},
	{[]error{mapping.ErrMappingAmbiguity, mapping.ErrIdentityConflict}, mappedError{http.StatusConflict, "mappingAmbiguity", "ABORTED"}},
	{[]error{rawevent.ErrPayloadConflict, usecase.ErrConflict}, mappedError{http.StatusConflict, "conflict", "ALREADY_EXISTS"}},
}

var internalError = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		for _, target := range rule.targets {
			if errors.Is(err, target) {
				return rule.mapped
			}
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	writeErrorData(ctx, w, err, nil)
}

// writeErrorData is writeError with a partial result kept in data, for
// failures that still produced work the caller needs to see.
func writeErrorData(_ context.Context, w http.ResponseWriter, err error, data any) {
	mapped := mapError(err)
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors:  errorItems(mapped, err),
		},
	})
}

// errorItems expands typed domain errors so clients can point at the bad
// payload field or offer the candidate teams back to the user.
func errorItems(mapped mappedError, err error) []googleErrorItem {
	var parseErr *rawevent.ParseError
	if errors.As(err, &parseErr) {
		return []googleErrorItem{{
			Domain:       errorDomain,
			Reason:       mapped.Reason,
			Message:      parseErr.Reason,
			Location:     string(parseErr.Provider) + "." + parseErr.Field,
			LocationType: "payload",
		}}
	}

	var teamsErr *query.AmbiguousTeamsError
	if errors.As(err, &teamsErr) && len(teamsErr.Candidates) > 0 {
		items := make([]googleErrorItem, 0, len(teamsErr.Candidates))
		for _, name := range teamsErr.Candidates {
			items = append(items, googleErrorItem{
				Domain:       errorDomain,
				Reason:       mapped.Reason,
				Message:      name,
				Location:     teamsErr.Fragment,
				LocationType: "query",
			})
		}
		return items
	}

	if ambiguities := collectAmbiguities(err, nil); len(ambiguities) > 0 {
		items := make([]googleErrorItem, 0, len(ambiguities))
		for _, amb := range ambiguities {
			items = append(items, googleErrorItem{
				Domain:       errorDomain,
				Reason:       mapped.Reason,
				Message:      amb.Reason + ": " + strings.Join(amb.Candidates, ", "),
				Location:     string(amb.Provider) + "." + amb.ProviderMatchID,
				LocationType: "fixture",
			})
		}
		return items
	}

	return []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: err.Error()}}
}

// collectAmbiguities flattens wrapped and joined errors. errors.As would stop
// at the first ambiguity.
func collectAmbiguities(err error, out []*mapping.AmbiguityError) []*mapping.AmbiguityError {
	switch e := err.(type) {
	case nil:
		return out
	case *mapping.AmbiguityError:
		return append(out, e)
	case interface{ Unwrap() []error }:
		for _, child := range e.Unwrap() {
			out = collectAmbiguities(child, out)
		}
		return out
	case interface{ Unwrap() error }:
		return collectAmbiguities(e.Unwrap(), out)
	default:
		return out
	}
}

func writeInternalError(w http.ResponseWriter) {
	const msg = "internal server error"
	writeJSON(w, internalError.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    internalError.HTTPStatus,
			Message: msg,
			Status:  internalError.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: internalError.Reason, Message: msg}},
		},
	})
}
