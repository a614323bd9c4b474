package embedder

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/platform/resilience"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
)

var (
	// ErrUnavailable marks failures worth retrying or tripping the breaker on.
	ErrUnavailable = crerr.New("embedder unavailable")
	// ErrBadResponse marks replies that will not improve on retry.
	ErrBadResponse = crerr.New("embedder bad response")
)

type ClientConfig struct {
	HTTPClient      *fasthttp.Client
	URL             string
	Model           string
	Token           string
	Timeout         time.Duration
	MaxRetries      int
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
	// OnBreakerChange receives the new breaker state. Optional.
	OnBreakerChange func(state string)
}

// Client calls an HTTP embedding service that takes {"input","model"} and
// answers {"embedding":[...]}.
type Client struct {
	httpClient *fasthttp.Client
	url        string
	model      string
	token      string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.Breaker
}

type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Data      []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func NewClient(cfg ClientConfig) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("embedder url is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "matchlens-embedder",
			MaxResponseBodySize: maxResponseSize,
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		httpClient: httpClient,
		url:        url,
		model:      strings.TrimSpace(cfg.Model),
		token:      strings.TrimSpace(cfg.Token),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
	}
	c.breaker = resilience.NewBreaker("embedder", cfg.CircuitBreaker, func(from, to string) {
		logger.Warn("embedder circuit breaker state changed", "from", from, "to", to)
		if cfg.OnBreakerChange != nil {
			cfg.OnBreakerChange(to)
		}
	})
	return c, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := sonic.Marshal(embedRequest{Input: text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	var (
		out     []float32
		callErr error
	)
	err = c.breaker.Do(func() error {
		out, callErr = c.executeRequest(ctx, body)
		if callErr != nil && crerr.Is(callErr, ErrUnavailable) {
			return callErr
		}
		// A rejected request still proves the service is reachable.
		return nil
	})
	switch {
	case crerr.Is(err, resilience.ErrCircuitOpen):
		c.logger.WarnContext(ctx, "embedder circuit breaker rejected request", "state", c.breaker.State())
		return nil, crerr.Mark(crerr.Wrap(err, "embed"), ErrUnavailable)
	case err != nil:
		return nil, err
	case callErr != nil:
		return nil, callErr
	}
	return out, nil
}

func (c *Client) executeRequest(ctx context.Context, body []byte) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, crerr.Mark(err, ErrUnavailable)
		}

		values, err := c.do(ctx, body)
		if err == nil {
			return values, nil
		}
		lastErr = err
		if !crerr.Is(err, ErrUnavailable) || attempt == c.maxRetries {
			break
		}

		c.logger.WarnContext(ctx, "embedder request failed, retrying", "attempt", attempt+1, "error", err)
		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, crerr.Mark(ctx.Err(), ErrUnavailable)
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, body []byte) ([]float32, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "send embed request"), ErrUnavailable)
	}

	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
		return nil, crerr.Mark(crerr.Newf("embedder status=%d body=%s", status, abbreviate(resp.Body())), ErrUnavailable)
	case status < 200 || status >= 300:
		return nil, crerr.Mark(crerr.Newf("embedder status=%d body=%s", status, abbreviate(resp.Body())), ErrBadResponse)
	}

	var decoded embedResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "decode embed response"), ErrBadResponse)
	}
	values := decoded.Embedding
	if len(values) == 0 && len(decoded.Data) > 0 {
		values = decoded.Data[0].Embedding
	}
	if len(values) == 0 {
		return nil, crerr.Mark(crerr.New("embed response has no vector"), ErrBadResponse)
	}
	return values, nil
}

func abbreviate(body []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(body))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
