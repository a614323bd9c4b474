package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/matchlens/internal/app"
	"github.com/riskibarqy/matchlens/internal/config"
	"github.com/riskibarqy/matchlens/internal/observability"
	"github.com/riskibarqy/matchlens/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer logger.Sync()

	stack, err := observability.Setup(cfg, logger)
	if err != nil {
		logger.Error("setup observability", "error", err)
		os.Exit(1)
	}

	container, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		_ = stack.Shutdown(context.Background())
		os.Exit(1)
	}

	srv, err := container.NewHTTPServer()
	if err != nil {
		logger.Error("build http server", "error", err)
		_ = container.Close()
		_ = stack.Shutdown(context.Background())
		os.Exit(1)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := container.Close(); err != nil {
		logger.Error("close app", "error", err)
		exitCode = 1
	}
	if err := stack.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown observability", "error", err)
		exitCode = 1
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}
