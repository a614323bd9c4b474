package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/matchlens/internal/app"
	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/domain/mapping"
	"github.com/riskibarqy/matchlens/internal/observability"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Output:      os.Stderr,
		SampleBurst: 20,
	}).With("service", cfg.ServiceName, "component", "pipeline")
	logging.SetDefault(logger)
	defer logger.Sync()

	stack, err := observability.Setup(cfg, logger)
	if err != nil {
		logger.Error("observability setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger, os.Args[1:], os.Stdout)
	stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if shutdownErr := stack.Shutdown(flushCtx); shutdownErr != nil {
		logger.Warn("observability shutdown", "error", shutdownErr)
	}
	cancel()

	if err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			printUsage()
			os.Exit(2)
		}
		logger.Error("pipeline command failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, cfg config.Config, logger *logging.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	container, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	ctx, span := observability.StartCommandSpan(ctx, "pipeline."+cmd)
	defer span.End()

	switch cmd {
	case "ingest":
		return runIngest(ctx, container, logger, args[1:], out)
	case "run":
		return runPipeline(ctx, container, out)
	case "query":
		return runQuery(ctx, container, args[1:], out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// runIngest loads every payload under dir. With -run the pipeline follows,
// and with -query the question is answered against the fresh state, which is
// the only way to see results when STORAGE_DRIVER=memory.
func runIngest(ctx context.Context, c *app.Container, logger *logging.Logger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	runAfter := fs.Bool("run", false, "run the pipeline after ingesting")
	question := fs.String("query", "", "answer a query after the pipeline run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: ingest requires a directory", errUsage)
	}

	inputs, skipped, err := loadPayloads(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, name := range skipped {
		logger.Warn("payload file skipped", "file", name, "reason", "unknown provider prefix")
	}

	report, err := c.Ingestion.IngestBatch(ctx, inputs)
	if err != nil {
		return err
	}
	if err := printJSON(out, report); err != nil {
		return err
	}
	if rejected := report.Err(); rejected != nil {
		logger.Warn("payloads rejected", "count", report.Rejected, "error", rejected)
	}

	if *runAfter || *question != "" {
		if err := runPipeline(ctx, c, out); err != nil {
			return err
		}
	}
	if *question != "" {
		return runQuery(ctx, c, []string{*question}, out)
	}
	return nil
}

func runPipeline(ctx context.Context, c *app.Container, out io.Writer) error {
	report, err := c.Pipeline.Run(ctx)
	if err != nil && !errors.Is(err, mapping.ErrMappingAmbiguity) {
		return err
	}
	// An ambiguous run still built every other match; print it, then fail.
	if perr := printJSON(out, report); perr != nil {
		return perr
	}
	return err
}

func runQuery(ctx context.Context, c *app.Container, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	competition := fs.String("competition", "", "restrict to one competition")
	limit := fs.Int("limit", 0, "max ranked matches")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("%w: query requires text", errUsage)
	}

	result, err := c.Retrieval.Query(ctx, usecase.QueryRequest{
		Query:       text,
		Competition: *competition,
		Limit:       *limit,
	})
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func printJSON(out io.Writer, v any) error {
	raw, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: pipeline <ingest|run|query> [args]")
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintln(os.Stderr, "  pipeline ingest ./data")
	fmt.Fprintln(os.Stderr, "  pipeline ingest -run -query \"PSV vs Ajax\" ./data")
	fmt.Fprintln(os.Stderr, "  pipeline run")
	fmt.Fprintln(os.Stderr, "  pipeline query -competition Eredivisie \"high pressing away wins\"")
}
