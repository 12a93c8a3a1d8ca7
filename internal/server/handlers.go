package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ecosage/ecosage/apimodels"
	"github.com/ecosage/ecosage/internal/crag"
	"github.com/ecosage/ecosage/internal/metrics"
)

// resultSeparator splits streamed trace lines from the final JSON payload.
// Clients read lines until this marker and parse the remainder as JSON.
const resultSeparator = "===RESULT==="

// apiKeyAuth rejects requests whose x-api-key header does not match the
// configured secret. Rejection happens before any body parsing or adapter
// call.
func (s *Server) apiKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("x-api-key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(s.cfg.APIKey)) != 1 {
			slog.Warn("rejected request with invalid api key", "path", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, apimodels.DetailResponse{Detail: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAskRequest(w, r)
	if !ok {
		return
	}

	if strings.TrimSpace(req.UserQuery) == "" {
		writeJSON(w, http.StatusOK, apimodels.ErrorResponse{Error: "user_query is required"})
		return
	}

	cragReq := toCRAGRequest(req)
	trace := crag.NewTrace(req.Steps...)

	start := time.Now()
	result, err := s.answerer.Answer(r.Context(), cragReq, trace)
	observeRequest(cragReq.Mode, err, time.Since(start))
	if err != nil {
		slog.Error("ask request failed", "query", req.UserQuery, "error", err)
		writeJSON(w, http.StatusInternalServerError, apimodels.DetailResponse{
			Detail: fmt.Sprintf("Internal error: %v", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, apimodels.AskResponse{
		Result: result.Payload(),
		Steps:  trace.Steps(),
	})
}

// handleAskStream runs the same computation but transports it as plain text:
// trace lines as they happen, a separator, then the JSON result.
func (s *Server) handleAskStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAskRequest(w, r)
	if !ok {
		return
	}

	if strings.TrimSpace(req.UserQuery) == "" {
		writeJSON(w, http.StatusOK, apimodels.ErrorResponse{Error: "user_query is required"})
		return
	}

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	cragReq := toCRAGRequest(req)
	trace := crag.NewTrace(req.Steps...)
	trace.SetSink(func(step string) {
		fmt.Fprintln(w, step)
		if canFlush {
			flusher.Flush()
		}
	})

	start := time.Now()
	result, err := s.answerer.Answer(r.Context(), cragReq, trace)
	observeRequest(cragReq.Mode, err, time.Since(start))

	fmt.Fprintln(w, resultSeparator)
	enc := json.NewEncoder(w)
	if err != nil {
		slog.Error("ask stream request failed", "query", req.UserQuery, "error", err)
		_ = enc.Encode(apimodels.DetailResponse{Detail: fmt.Sprintf("Internal error: %v", err)})
	} else {
		_ = enc.Encode(apimodels.AskResponse{Result: result.Payload(), Steps: trace.Steps()})
	}
	if canFlush {
		flusher.Flush()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeAskRequest(w http.ResponseWriter, r *http.Request) (apimodels.AskRequest, bool) {
	var req apimodels.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apimodels.DetailResponse{
			Detail: fmt.Sprintf("Invalid request: %v", err),
		})
		return req, false
	}
	defer r.Body.Close()
	return req, true
}

// toCRAGRequest maps the wire request onto the pipeline request. Unknown or
// absent type values fall back to free-text mode.
func toCRAGRequest(req apimodels.AskRequest) crag.Request {
	mode := crag.ModeMarkdown
	if req.Type == int(crag.ModeCard) {
		mode = crag.ModeCard
	}
	return crag.Request{
		Query:     req.UserQuery,
		Mode:      mode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}

func observeRequest(mode crag.Mode, err error, elapsed time.Duration) {
	modeLabel := "markdown"
	if mode == crag.ModeCard {
		modeLabel = "card"
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RequestsTotal.WithLabelValues(modeLabel, status).Inc()
	metrics.RequestDuration.WithLabelValues(modeLabel).Observe(elapsed.Seconds())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
