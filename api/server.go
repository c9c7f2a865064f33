// Package api - Thin HTTP layer over the dashboard dataset
// The API is ONLY responsible for: selection parsing, view orchestration, output serialization.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gapminder/core/chart"
	"gapminder/core/dataset"
)

// Server is the API server
type Server struct {
	router   *mux.Router
	version  string
	handle   *dataset.Handle
	renderer *chart.Renderer
	logger   *zap.Logger
}

// NewServer creates a new API server over the process dataset handle
func NewServer(version string, handle *dataset.Handle, renderer *chart.Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:   mux.NewRouter(),
		version:  version,
		handle:   handle,
		renderer: renderer,
		logger:   logger,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(corsMiddleware, s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/dataset", s.handleDataset).Methods(http.MethodGet)
	api.HandleFunc("/controls", s.handleControls).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/records", s.handleRecords).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/chart.{format:png|svg}", s.handleChart).Methods(http.MethodGet, http.MethodOptions)
}

// MountUI serves static files from dir for every path outside /api
func (s *Server) MountUI(dir string) {
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
