package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alevsk/ci-scope/internal/analyzer"
	"github.com/alevsk/ci-scope/internal/logger"
	"github.com/gorilla/mux"
)

// Server represents the API server
type Server struct {
	router   *mux.Router
	analyzer *analyzer.Analyzer
}

// NewServer creates a new API server instance backed by the given analyzer
func NewServer(a *analyzer.Analyzer) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		analyzer: a,
	}
	s.routes()
	return s
}

// routes sets up the API routes
func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.healthCheck).Methods("GET")
	api.HandleFunc("/relationships", s.relationships).Methods("GET")
	api.HandleFunc("/graph", s.graph).Methods("GET")
	api.HandleFunc("/pipeline", s.pipeline).Methods("GET").Queries("path", "{path}")
	api.HandleFunc("/pipeline", s.missingPath).Methods("GET")
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start(addr string, timeout time.Duration) error {
	logger.Info().Str("addr", addr).Dur("timeout", timeout).Msg("starting server")
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	return srv.ListenAndServe()
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// relationships scans the root and returns every resolved relationship
func (s *Server) relationships(w http.ResponseWriter, r *http.Request) {
	scan, err := s.analyzer.Scan(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, scan.Report())
}

// graph scans the root and returns the dependency graph in DOT format
func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	scan, err := s.analyzer.Scan(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	if err := scan.Graph.WriteDOT(w); err != nil {
		logger.Error().Err(err).Msg("failed to write graph")
	}
}

// pipeline analyzes a single pipeline file relative to the root
func (s *Server) pipeline(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]
	if path == "" {
		s.missingPath(w, r)
		return
	}

	analysis, err := s.analyzer.PipelineInRoot(r.Context(), path)
	switch {
	case errors.Is(err, analyzer.ErrOutsideRoot):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, analyzer.ErrFileNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis.Report())
}

func (s *Server) missingPath(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusBadRequest, errors.New("missing path query parameter"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger.Debug().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logger.Error().Err(err).Msg("failed to write response")
	}
}
