package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/halofi/halobot/internal/monitor"
	"github.com/halofi/halobot/internal/server"
	"github.com/halofi/halobot/internal/server/handler"
	"github.com/halofi/halobot/internal/server/ws"
)

// shutdownGrace is how long the HTTP server gets to drain on shutdown.
const shutdownGrace = 10 * time.Second

// ServeMode runs the HTTP + WebSocket API.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// MonitorMode runs the background watch loop without the API.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startMonitor(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the API and the watch loop together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	a.startMonitor(ctx, g, deps)
	return g.Wait()
}

// startHTTPServer adds the API server and WebSocket hub goroutines to the
// errgroup. The server shuts down gracefully when the context is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if !a.cfg.Server.Enabled {
		a.logger.InfoContext(ctx, "http server disabled")
		return
	}

	hub := ws.NewHub(deps.SignalBus, a.logger)
	g.Go(func() error {
		return hub.Run(ctx)
	})

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Position: handler.NewPositionHandler(
			deps.Snapshots, deps.Assets, deps.Account, a.logger,
		),
		Actions: handler.NewActionHandler(
			deps.Controller, deps.Snapshots, deps.Registration,
			deps.Assets, deps.Account, a.logger,
		),
		Liquidations: handler.NewLiquidationHandler(deps.Scanner, a.logger),
		Registration: handler.NewRegistrationHandler(deps.Registration, deps.Account, a.logger),
		Reputation:   handler.NewReputationHandler(a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown failed",
				slog.String("error", err.Error()),
			)
		}
		return ctx.Err()
	})
}

// startMonitor adds the watch loop goroutine to the errgroup.
func (a *App) startMonitor(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	mon := monitor.New(monitor.Config{
		Interval:             a.cfg.Monitor.Interval.Duration,
		HealthAlertThreshold: decimal.NewFromFloat(a.cfg.Monitor.HealthAlertThreshold),
		Account:              deps.Account,
	}, deps.Snapshots, deps.Scanner, deps.Notifier, deps.SignalBus, a.logger)

	g.Go(func() error {
		return mon.Run(ctx)
	})
}
