// Package server provides the HTTP server setup and wiring.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	claimsTransport "github.com/Gamemaster8888/dreamplay-claim-portal/internal/claims/transport"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/config"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/middleware/logging"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/middleware/ratelimit"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/middleware/realip"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/middleware/security"
	"github.com/Gamemaster8888/dreamplay-claim-portal/internal/observability/metrics"
)

// Server is the HTTP server.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	router *chi.Mux

	claimsSvc claimsTransport.Service
}

// New creates a new server around the claims signing service.
func New(cfg *config.Config, claimsSvc claimsTransport.Service, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		router:    chi.NewRouter(),
		claimsSvc: claimsSvc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler returns the metrics HTTP handler for a separate metrics server.
func (s *Server) MetricsHandler() http.Handler {
	return metrics.Handler()
}

func (s *Server) setupMiddleware() {
	// Security middleware runs first to block malicious requests early.
	s.router.Use(realip.Middleware(realip.Config{
		TrustProxy:     s.cfg.Proxy.TrustProxy,
		TrustedProxies: s.cfg.Proxy.TrustedProxies,
	}))
	s.router.Use(security.FilterMiddleware(s.cfg.Security.FilterEnabled))
	s.router.Use(security.MaxBodySizeMiddleware(s.cfg.Security.MaxBodySizeKB))
	s.router.Use(ratelimit.Middleware(ratelimit.Config{
		Enabled:        s.cfg.RateLimit.Enabled,
		RequestsPerMin: s.cfg.RateLimit.RequestsPerMin,
		BurstSize:      s.cfg.RateLimit.BurstSize,
		CleanupMinutes: s.cfg.RateLimit.CleanupMinutes,
	}))

	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)

	// CORS: the endpoint is called from browser wallets, so preflight
	// OPTIONS requests must succeed without a body.
	allowOrigin := s.cfg.CORS.AllowOrigin
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)

	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	claimsHandler := claimsTransport.NewHandler(s.claimsSvc)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/claims", func(r chi.Router) {
			claimsHandler.RegisterRoutes(r)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
