package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/query", handler.Query)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/coverage", handler.Coverage)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/ingest/{provider}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestPayload)))
	mux.Handle("POST /v1/pipeline/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPipeline)))
}
