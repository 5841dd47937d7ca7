package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"newsnotes/api"
	"newsnotes/app"
	"newsnotes/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	deps := api.Deps{
		Store:         a.Store,
		Ingester:      a.Coordinator,
		Reader:        a.Reader,
		DefaultSource: cfg.Source,
		ResolveSource: config.ResolveSourceURL,
		Metrics:       a.Metrics.Handler(),
		Logger:        logger,
	}
	if a.Archiver != nil {
		deps.Reports = a.Archiver
	}
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: api.NewRouter(deps)}

	go func() {
		logger.Info("starting API server", "addr", srv.Addr, "source", cfg.Source, "mode", a.Coordinator.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	if _, err := a.StartConsumer(ctx); err != nil {
		logger.Warn("ingest request consumer disabled", "error", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
