package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	icache "SolCharts/internal/service/cache"
	"SolCharts/internal/usecase"
	pkgch "SolCharts/pkg/clickhouse"
	"SolCharts/pkg/config"
	xhttp "SolCharts/pkg/http"
	applogger "SolCharts/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	sessions   *usecase.Manager
	proc       *usecase.UpdateProcessor
	chClient   *pkgch.Client
	kv         icache.BytesCache
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	sessions *usecase.Manager,
	proc *usecase.UpdateProcessor,
	chClient *pkgch.Client,
	kv icache.BytesCache,
) *App {
	return &App{
		cfg:      cfg,
		logger:   l,
		handler:  handler,
		sessions: sessions,
		proc:     proc,
		chClient: chClient,
		kv:       kv,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled && a.cfg.Metrics.Path != "" {
		opts = append(opts, xhttp.WithMetricsPath(a.cfg.Metrics.Path))
	}
	a.httpServer = xhttp.NewServer(a.logger, a.handler, opts...)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("chart service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("backend", a.cfg.Backend.Type))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Sessions first: stops every reconciler and its upstream connections.
	if a.sessions != nil {
		a.sessions.CloseAll()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Flush and close the update backend.
	if a.proc != nil {
		a.proc.Close()
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if c, ok := a.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("kv close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
