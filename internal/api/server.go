// Package api serves the scholarship engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/common/observability"
	"scholarship-engine/internal/models"
	"scholarship-engine/internal/service"
)

const maxBodyBytes = 1 << 20

// Service is what the handlers need from service.ScholarshipService.
type Service interface {
	Match(ctx context.Context, req service.MatchRequest) (*service.MatchResponse, error)
	GenerateEssay(ctx context.Context, req service.EssayRequest) (*models.EssayResult, error)
	CorpusSize() int
}

// ReadyFunc reports whether backing infrastructure is reachable.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	svc    Service
	ready  ReadyFunc
	obs    *observability.Observability
	logger logger.Logger
}

func NewServer(svc Service, ready ReadyFunc, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		svc:    svc,
		ready:  ready,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "http-api"}),
	}
}

// Routes returns the full handler tree with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/match-scholarships", s.handleMatch)
	mux.HandleFunc("POST /api/generate-essay", s.handleGenerateEssay)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.withRequestID(s.withRecover(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status":     "ready",
		"corpusSize": s.svc.CorpusSize(),
		"time":       time.Now().Format(time.RFC3339),
	}

	if s.svc.CorpusSize() == 0 {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
		body["reason"] = "corpus is empty"
	} else if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "not ready"
			body["reason"] = err.Error()
		}
	}
	writeJSON(w, status, body)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.MatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, "match", start, err)
		return
	}

	resp, err := s.svc.Match(r.Context(), req)
	if err != nil {
		s.writeError(w, r, "match", start, err)
		return
	}
	if resp.Matches == nil {
		resp.Matches = []models.MatchResult{}
	}

	s.record(r, "match", start, "success")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateEssay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.EssayRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, "essay", start, err)
		return
	}

	result, err := s.svc.GenerateEssay(r.Context(), req)
	if err != nil {
		s.writeError(w, r, "essay", start, err)
		return
	}

	s.record(r, "essay", start, "success")
	writeJSON(w, http.StatusOK, result)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewInvalidRequestError("malformed JSON body: " + err.Error())
	}
	return nil
}

type errorBody struct {
	Code      apperrors.ErrorCode `json:"code"`
	Message   string              `json:"message"`
	Details   string              `json:"details,omitempty"`
	Retryable bool                `json:"retryable"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, operation string, start time.Time, err error) {
	stdErr := apperrors.AsStandardError(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"requestId": RequestIDFrom(r.Context()),
		"path":      r.URL.Path,
		"errorCode": string(stdErr.Code),
		"status":    status,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request rejected", fields)
	}

	s.record(r, operation, start, "error")
	writeJSON(w, status, map[string]errorBody{"error": {
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
	}})
}

func (s *Server) record(r *http.Request, operation string, start time.Time, status string) {
	s.obs.RecordRequest(r.Context(), "http", operation, status)
	s.obs.RecordRequestDuration(r.Context(), "http", operation, time.Since(start), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
