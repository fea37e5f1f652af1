// Package server assembles the HTTP API: routing, middleware, and server
// lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lakuzo/marketwatch/internal/server/handler"
	"github.com/lakuzo/marketwatch/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled
}

// Handlers aggregates all HTTP handlers the server registers.
type Handlers struct {
	Health     *handler.HealthHandler
	Repair     *handler.RepairHandler
	Markets    *handler.MarketHandler
	Pairs      *handler.PairHandler
	Votes      *handler.VoteHandler
	Watchlists *handler.WatchlistHandler
}

// Server is the headless HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered and the middleware
// chain (auth, logging, CORS) wired around them.
func NewServer(cfg Config, handlers Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required by the frontoffice probes).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Lazy repair endpoints.
	mux.HandleFunc("GET /api/repair-status", handlers.Repair.CheckStatus)
	mux.HandleFunc("POST /api/markets/verify", handlers.Repair.VerifyMarkets)

	// Market reads and the single-market screener.
	mux.HandleFunc("GET /api/markets", handlers.Markets.ListMarkets)
	mux.HandleFunc("GET /api/markets/{id}", handlers.Markets.GetMarket)
	mux.HandleFunc("GET /api/arbitrage", handlers.Markets.Arbitrage)

	// Cross-venue pair screener.
	mux.HandleFunc("GET /api/pairs", handlers.Pairs.ListPairs)

	// Sentiment voting.
	mux.HandleFunc("POST /api/votes", handlers.Votes.CastVote)
	mux.HandleFunc("GET /api/markets/{id}/sentiment", handlers.Votes.GetSentiment)
	mux.HandleFunc("GET /api/leaderboard", handlers.Votes.Leaderboard)

	// Watchlists.
	mux.HandleFunc("POST /api/watchlists", handlers.Watchlists.Create)
	mux.HandleFunc("GET /api/watchlists", handlers.Watchlists.List)
	mux.HandleFunc("GET /api/watchlists/{id}", handlers.Watchlists.Get)
	mux.HandleFunc("DELETE /api/watchlists/{id}", handlers.Watchlists.Delete)
	mux.HandleFunc("POST /api/watchlists/{id}/items", handlers.Watchlists.AddItem)
	mux.HandleFunc("DELETE /api/watchlists/{id}/items/{market_id}", handlers.Watchlists.RemoveItem)
	mux.HandleFunc("POST /api/markets/{id}/star", handlers.Watchlists.Star)

	var h http.Handler = mux
	h = middleware.APIKey(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{httpServer: srv, logger: logger}
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

// corsMiddleware sets CORS headers for the allowed origins. No configured
// origins means allow all.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}
				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.APIKeyHeader)
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
