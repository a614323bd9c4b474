package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestSetup_AllDisabled(t *testing.T) {
	cfg := config.Config{
		ServiceName:    "matchlens-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	stack, err := Setup(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("setup observability: %v", err)
	}
	for _, name := range []string{"uptrace", "pyroscope", "pprof"} {
		if stack.Enabled(name) {
			t.Fatalf("expected %s disabled", name)
		}
	}
	if err := stack.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown observability: %v", err)
	}
}

func TestStackShutdown_Nil(t *testing.T) {
	var stack *Stack
	if err := stack.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil stack shutdown: %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from pprof index, got %d", rec.Code)
	}
}

func TestIsQuietAccessLog(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "health probe", msg: "http_request", args: []any{"http_path", "/healthz"}, want: true},
		{name: "metrics scrape", msg: "http_request", args: []any{"http_path", "/metrics"}, want: true},
		{name: "query request", msg: "http_request", args: []any{"http_path", "/v1/query"}},
		{name: "other event", msg: "pipeline stage completed", args: []any{"http_path", "/healthz"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isQuietAccessLog(tc.msg, tc.args); got != tc.want {
				t.Fatalf("isQuietAccessLog() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{
		"match_id", "m-1",
		"refreshed", 3,
		"duration", 1500 * time.Millisecond,
		"error", errors.New("embedder unavailable"),
		"dangling",
	})
	if len(attrs) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "match_id" || attrs[0].Value.AsString() != "m-1" {
		t.Fatalf("unexpected match_id attribute")
	}
	if attrs[1].Value.AsInt64() != 3 {
		t.Fatalf("unexpected refreshed attribute")
	}
	if attrs[2].Value.AsString() != "1.5s" {
		t.Fatalf("unexpected duration attribute %q", attrs[2].Value.AsString())
	}
	if attrs[3].Value.AsString() != "embedder unavailable" {
		t.Fatalf("unexpected error attribute")
	}
	if attrs[4].Key != "dangling" || attrs[4].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute")
	}
}

func TestToOTelSeverity(t *testing.T) {
	if toOTelSeverity(logging.LevelWarn) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if toOTelSeverity(logging.LevelError) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}
