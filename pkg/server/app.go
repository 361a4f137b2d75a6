package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	svc        *usecase.SectorService
	store      domrepo.SectorStore
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, logger *xlogger.Logger, svc *usecase.SectorService, store domrepo.SectorStore, handler xhttp.Handler) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		svc:     svc,
		store:   store,
		handler: handler,
	}
}

// Service exposes the sector service for CLI maintenance paths.
func (a *App) Service() *usecase.SectorService { return a.svc }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		path := a.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		opts = append(opts, xhttp.WithMetrics(path))
	}
	a.httpServer = xhttp.NewServer(a.handler, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		xlogger.Int("port", a.cfg.Server.Port),
		xlogger.String("cache_backend", a.cfg.Cache.Backend),
		xlogger.String("aggregator_mode", a.cfg.Aggregator.Mode))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if closer, ok := a.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("cache store close error", xlogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
