package embedder

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchlens/internal/platform/resilience"
)

func TestClientEmbed(t *testing.T) {
	t.Run("posts input and model", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method %s", r.Method)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("unexpected authorization %q", got)
			}
			raw, _ := io.ReadAll(r.Body)
			var req embedRequest
			if err := sonic.Unmarshal(raw, &req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Input != "Ajax 2-1 PSV" || req.Model != "nomic-embed-text" {
				t.Errorf("unexpected request %+v", req)
			}
			_, _ = w.Write([]byte(`{"embedding":[0.5,0.5,0]}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL, 0, resilience.CircuitBreakerConfig{})
		got, err := c.Embed(context.Background(), "Ajax 2-1 PSV")
		if err != nil {
			t.Fatalf("embed: %v", err)
		}
		if len(got) != 3 || got[0] != 0.5 {
			t.Fatalf("unexpected vector %v", got)
		}
		if c.Model() != "nomic-embed-text" {
			t.Fatalf("unexpected model %q", c.Model())
		}
	})

	t.Run("accepts data array responses", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"embedding":[1,0]}]}`))
		}))
		defer srv.Close()

		got, err := newTestClient(t, srv.URL, 0, resilience.CircuitBreakerConfig{}).Embed(context.Background(), "x")
		if err != nil || len(got) != 2 {
			t.Fatalf("unexpected result %v err=%v", got, err)
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"input too long"}`))
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL, 3, resilience.CircuitBreakerConfig{}).Embed(context.Background(), "x")
		if !crerr.Is(err, ErrBadResponse) {
			t.Fatalf("expected ErrBadResponse, got %v", err)
		}
		if calls.Load() != 1 {
			t.Fatalf("expected one call, got %d", calls.Load())
		}
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"embedding":[1]}`))
		}))
		defer srv.Close()

		got, err := newTestClient(t, srv.URL, 1, resilience.CircuitBreakerConfig{}).Embed(context.Background(), "x")
		if err != nil || len(got) != 1 {
			t.Fatalf("unexpected result %v err=%v", got, err)
		}
		if calls.Load() != 2 {
			t.Fatalf("expected two calls, got %d", calls.Load())
		}
	})

	t.Run("breaker opens after consecutive failures", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL, 0, resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		})
		for i := 0; i < 2; i++ {
			if _, err := c.Embed(context.Background(), "x"); !crerr.Is(err, ErrUnavailable) {
				t.Fatalf("call %d: expected ErrUnavailable, got %v", i, err)
			}
		}
		_, err := c.Embed(context.Background(), "x")
		if !crerr.Is(err, ErrUnavailable) || !crerr.Is(err, resilience.ErrCircuitOpen) {
			t.Fatalf("expected open circuit, got %v", err)
		}
		if calls.Load() != 2 {
			t.Fatalf("open breaker must not call the server, calls=%d", calls.Load())
		}
	})
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func newTestClient(t *testing.T, url string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	c, err := NewClient(ClientConfig{
		URL:            url,
		Model:          "nomic-embed-text",
		Token:          "secret",
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		CircuitBreaker: breaker,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}
