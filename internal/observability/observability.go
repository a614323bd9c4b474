package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// backend is one optional telemetry sink. start returns nil stop when the
// backend is disabled by config.
type backend struct {
	name  string
	start func(config.Config, *logging.Logger) (stopFunc, error)
}

type stopFunc func(context.Context) error

type running struct {
	name string
	stop stopFunc
}

// Stack holds every backend started for the process, in start order.
type Stack struct {
	logger  *logging.Logger
	running []running
}

var backends = []backend{
	{name: "uptrace", start: startUptrace},
	{name: "pyroscope", start: startPyroscope},
	{name: "pprof", start: startPprof},
}

// Setup starts uptrace, pyroscope and the pprof side server as configured.
// An error stops whatever already started.
func Setup(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}
	for _, b := range backends {
		stop, err := b.start(cfg, logger)
		if err != nil {
			_ = s.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", b.name, err)
		}
		if stop != nil {
			s.running = append(s.running, running{name: b.name, stop: stop})
		}
	}
	return s, nil
}

// Enabled reports whether the named backend is running.
func (s *Stack) Enabled(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.running {
		if r.name == name {
			return true
		}
	}
	return false
}

// Shutdown stops backends in reverse start order and flushes pending spans.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.running) - 1; i >= 0; i-- {
		r := s.running[i]
		if err := r.stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", r.name, err))
			continue
		}
		s.logger.Debug("telemetry backend stopped", "backend", r.name)
	}
	s.running = nil
	return errors.Join(errs...)
}

// StartCommandSpan opens the root span for a CLI command so usecase child
// spans have a parent outside of HTTP requests.
func StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return otel.Tracer("matchlens/cmd").Start(ctx, "cmd."+command)
}
