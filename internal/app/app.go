package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sandeepkv93/go-blog-platform/internal/config"
	"github.com/sandeepkv93/go-blog-platform/internal/health"
	"github.com/sandeepkv93/go-blog-platform/internal/observability"

	"golang.org/x/sync/errgroup"
)

// App ties the HTTP server to the observability runtime and owns the
// shutdown sequence: drain HTTP first, then flush telemetry.
type App struct {
	Config          *config.Config
	Logger          *slog.Logger
	Server          *http.Server
	Observability   *observability.Runtime
	Readiness       *health.ProbeRunner
	ShutdownTimeout time.Duration
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime, readiness *health.ProbeRunner) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		Server:          server,
		Observability:   runtime,
		Readiness:       readiness,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. Telemetry is
// flushed after the listener closes so the final requests are still recorded.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", "addr", a.Server.Addr, "profile", a.Config.Profile)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down http server", "timeout", a.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	serveErr := g.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()
	obsErr := a.Observability.Shutdown(flushCtx)
	if obsErr != nil {
		a.Logger.Error("observability shutdown failed", "error", obsErr.Error())
	}
	return errors.Join(serveErr, obsErr)
}
