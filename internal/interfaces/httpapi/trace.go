package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("matchlens/internal/interfaces/httpapi")

// startHandlerSpan opens a handler span under the otelhttp request span.
// Untraced routes such as /healthz have no parent and get a noop span.
func startHandlerSpan(r *http.Request, handler string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+handler, trace.WithAttributes(handlerAttributes(r)...))
}

func handlerAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	if id := strings.TrimSpace(r.PathValue("matchID")); id != "" {
		attrs = append(attrs, attribute.String("match.id", id))
	}
	if p := strings.TrimSpace(r.PathValue("provider")); p != "" {
		attrs = append(attrs, attribute.String("provider", strings.ToLower(p)))
	}
	return attrs
}
