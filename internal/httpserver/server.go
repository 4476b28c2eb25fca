package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-component-cache/internal/cache/service"
)

const (
	serviceName       = "localization-manager-backend"
	serviceVersion    = "0.1.0"
	retryAfterSeconds = 1
)

// Server represents the HTTP component server
type Server struct {
	componentService *service.ComponentService
	defaultLanguage  string
	logger           *zap.Logger
	server           *http.Server
}

// NewServer creates a new component HTTP server. Requests without a lang parameter
// use defaultLanguage.
func NewServer(componentService *service.ComponentService, defaultLanguage string, logger *zap.Logger) *Server {
	return &Server{
		componentService: componentService,
		defaultLanguage:  defaultLanguage,
		logger:           logger,
	}
}

// Start starts the HTTP server on addr and blocks until it stops
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.createRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting component HTTP server", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("Stopping component HTTP server")
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Component endpoints
	router.HandleFunc("/api/component/{type}", s.handleGetComponent).Methods("GET")

	// Cache administration
	router.HandleFunc("/cache/stats", s.handleStats).Methods("GET")
	router.HandleFunc("/cache/component/{type}", s.handleInvalidateComponent).Methods("DELETE")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.componentService.Stats()
	s.writeResponse(w, &HealthResponse{
		Status:           "healthy",
		Service:          serviceName,
		Version:          serviceVersion,
		Time:             time.Now().UTC(),
		CacheSize:        stats.Cache.Size,
		ConcurrencyLimit: stats.GenerationsLimit,
	})
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	s.writeJSON(w, http.StatusOK, v)
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, &ErrorResponse{
		Success: false,
		Error:   message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}
