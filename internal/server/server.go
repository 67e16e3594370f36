// Package server is the HTTP boundary of Footfall: routing, request
// validation, envelope shaping, and the status-code contract over the
// store and entry repositories.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HerbHall/footfall/internal/services"
	"github.com/HerbHall/footfall/internal/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the Footfall HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	mux        *http.ServeMux
	logger     *zap.Logger
	stores     services.StoreRepository
	entries    services.EntryRepository
}

// New creates a Server bound to addr, serving the given repositories.
func New(addr string, stores services.StoreRepository, entries services.EntryRepository, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		stores:  stores,
		entries: entries,
	}
	s.registerRoutes()
	s.handler = s.withObservability(mux)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// registerRoutes mounts the API. Literal segments ("bulk", "statistics",
// "date") are registered alongside wildcard patterns; the 1.22 ServeMux
// prefers the more specific pattern.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/v1/stores", s.handleListStores)
	s.mux.HandleFunc("POST /api/v1/stores", s.handleCreateStore)
	s.mux.HandleFunc("GET /api/v1/stores/{id}", s.handleGetStore)
	s.mux.HandleFunc("PUT /api/v1/stores/{id}", s.handleUpdateStore)
	s.mux.HandleFunc("DELETE /api/v1/stores/{id}", s.handleDeleteStore)
	s.mux.HandleFunc("DELETE /api/v1/stores/bulk", s.handleDeleteStoresBulk)
	s.mux.HandleFunc("GET /api/v1/stores/statistics/{id}", s.handleStoreStatistics)

	s.mux.HandleFunc("GET /api/v1/entries", s.handleListEntries)
	s.mux.HandleFunc("POST /api/v1/entries", s.handleCreateEntry)
	s.mux.HandleFunc("PUT /api/v1/entries/{id}", s.handleUpdateEntry)
	s.mux.HandleFunc("DELETE /api/v1/entries/{id}", s.handleDeleteEntry)
	s.mux.HandleFunc("DELETE /api/v1/entries/bulk", s.handleDeleteEntriesBulk)
	s.mux.HandleFunc("GET /api/v1/entries/store/{id}", s.handleEntriesByStore)
	s.mux.HandleFunc("GET /api/v1/entries/date/{date}", s.handleEntriesByDate)
	s.mux.HandleFunc("GET /api/v1/entries/store/{id}/date/{date}", s.handleEntriesByStoreAndDate)
	s.mux.HandleFunc("GET /api/v1/entries/date", s.handleEntriesByDateRange)
	s.mux.HandleFunc("GET /api/v1/entries/statistics", s.handleEntryStatistics)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Footfall-Version", version.Short())
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"service": "footfall",
		"version": version.Map(),
	})
}
