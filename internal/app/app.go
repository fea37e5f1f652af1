// Package app provides top-level application lifecycle management: it wires
// stores, caches, venue clients, and services together and runs the HTTP
// server until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakuzo/marketwatch/internal/config"
	"github.com/lakuzo/marketwatch/internal/server"
	"github.com/lakuzo/marketwatch/internal/server/handler"
)

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the HTTP server, and blocks until the
// context is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	components := map[string]handler.Pinger{
		"postgres": deps.Postgres,
	}
	if deps.Redis != nil {
		components["redis"] = deps.Redis
	}

	handlers := server.Handlers{
		Health:     handler.NewHealthHandler(components, a.logger),
		Repair:     handler.NewRepairHandler(deps.Repairs, a.logger),
		Markets:    handler.NewMarketHandler(deps.Markets, a.logger),
		Pairs:      handler.NewPairHandler(deps.Pairs, a.logger),
		Votes:      handler.NewVoteHandler(deps.Votes, a.logger),
		Watchlists: handler.NewWatchlistHandler(deps.Watchlists, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Close tears down all resources in reverse registration order. Safe to
// call multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
