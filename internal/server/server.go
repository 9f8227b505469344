// Package server exposes the halobot HTTP and WebSocket API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/halofi/halobot/internal/domain"
	"github.com/halofi/halobot/internal/server/handler"
	"github.com/halofi/halobot/internal/server/middleware"
	"github.com/halofi/halobot/internal/server/ws"
)

// rate limit applied per client IP across the whole API.
const (
	rateLimitRequests = 60
	rateLimitWindow   = time.Minute
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers the server registers.
type Handlers struct {
	Health       *handler.HealthHandler
	Position     *handler.PositionHandler
	Actions      *handler.ActionHandler
	Liquidations *handler.LiquidationHandler
	Registration *handler.RegistrationHandler
	Reputation   *handler.ReputationHandler
}

// Server is the headless HTTP + WebSocket API for halobot.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered and the middleware
// chain (rate limiting, logging, CORS, auth) applied.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Position and balances.
	mux.HandleFunc("GET /api/position", handlers.Position.GetPosition)
	mux.HandleFunc("GET /api/balances", handlers.Position.ListBalances)

	// Transaction intents.
	mux.HandleFunc("POST /api/actions", handlers.Actions.SubmitAction)
	mux.HandleFunc("POST /api/actions/validate", handlers.Actions.ValidateAction)
	mux.HandleFunc("GET /api/transactions", handlers.Actions.ListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", handlers.Actions.GetTransaction)

	// Liquidation opportunities.
	mux.HandleFunc("GET /api/liquidations", handlers.Liquidations.ListLiquidations)

	// Agent identity registry.
	mux.HandleFunc("GET /api/registration", handlers.Registration.GetRegistration)

	// Demo reputation.
	mux.HandleFunc("GET /api/reputation/{address}", handlers.Reputation.GetReputation)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	if limiter != nil {
		h = middleware.RateLimit(limiter, rateLimitRequests, rateLimitWindow)(h)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
