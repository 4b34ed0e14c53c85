// Package server exposes the search pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/paperchase/paperchase/internal/embedding"
	"github.com/paperchase/paperchase/internal/generate"
	"github.com/paperchase/paperchase/internal/lexical"
	"github.com/paperchase/paperchase/internal/metrics"
	"github.com/paperchase/paperchase/internal/pipeline"
	"github.com/paperchase/paperchase/internal/rerank"
	"github.com/paperchase/paperchase/internal/semantic"
)

// IndexSaver persists pending index writes. The semantic store satisfies
// it; a nil saver disables persistence (offline-only deployments).
type IndexSaver interface {
	Save() error
}

// Server handles the HTTP API.
type Server struct {
	pipe   *pipeline.Pipeline
	saver  IndexSaver
	logger *zap.Logger
}

// New creates an HTTP API server around a pipeline.
func New(pipe *pipeline.Pipeline, saver IndexSaver, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{pipe: pipe, saver: saver, logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/search", s.handleSearch)
	r.Post("/query", s.handleQuery)
	r.Get("/discover", s.handleDiscover)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}

// queryRequest is the POST /query body.
type queryRequest struct {
	Query string `json:"query"`
	Top   int    `json:"top"`
}

// queryResponse wraps results with an explicit success flag.
type queryResponse struct {
	OK      bool              `json:"ok"`
	Results []pipeline.Result `json:"results"`
}

type matchResponse struct {
	PaperID    string  `json:"paper_id"`
	Title      string  `json:"title"`
	Published  string  `json:"published"`
	Similarity float32 `json:"similarity"`
	URL        string  `json:"url,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	k := parseK(r.URL.Query().Get("k"))

	results, err := s.pipe.Search(r.Context(), query, k)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}

	results, err := s.pipe.Search(r.Context(), req.Query, req.Top)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{OK: true, Results: results})
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	k := parseK(r.URL.Query().Get("k"))

	matches, err := s.pipe.Discover(r.Context(), query, k)
	if err != nil {
		s.handlePipelineError(w, err)
		return
	}

	// Persist this run's upserts. A save failure does not invalidate the
	// matches; the entries stay in memory and the next save retries.
	if s.saver != nil {
		if err := s.saver.Save(); err != nil {
			s.logger.Error("persisting semantic index failed", zap.Error(err))
		}
	}

	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchResponse{
			PaperID:    m.Entry.PaperID,
			Title:      m.Entry.Title,
			Published:  m.Entry.Published,
			Similarity: m.Similarity,
			URL:        m.Entry.URL,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePipelineError maps pipeline failures to HTTP status codes. Client
// responses carry sentinel messages only, never wrapped detail.
func (s *Server) handlePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoCandidates):
		writeError(w, http.StatusNotFound, pipeline.ErrNoCandidates.Error())
	case errors.Is(err, lexical.ErrIndexUnavailable):
		s.logger.Error("lexical index unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, lexical.ErrIndexUnavailable.Error())
	case errors.Is(err, semantic.ErrIndexNotFound):
		s.logger.Error("semantic index missing", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, semantic.ErrIndexNotFound.Error())
	case errors.Is(err, rerank.ErrScoring):
		s.logger.Error("rerank backend failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, rerank.ErrScoring.Error())
	case errors.Is(err, embedding.ErrEmbedding):
		s.logger.Error("embedding backend failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, embedding.ErrEmbedding.Error())
	case errors.Is(err, generate.ErrGeneration):
		s.logger.Error("generation backend failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, generate.ErrGeneration.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseK(raw string) int {
	if raw == "" {
		return 0
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 0 {
		return 0
	}
	return k
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
