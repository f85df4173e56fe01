package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check and reports request counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	traffic := s.tracer.GetMetrics()
	metrics := map[string]any{
		"total_requests":       traffic.TotalRequests,
		"last_response_us":     traffic.LastResponseTime,
		"suspicious_requests":  s.detector.GetMetrics().SuspiciousRequests,
		"rate_limited_clients": int64(0),
		"rate_limit_hits":      int64(0),
	}
	if s.limiter != nil {
		limits := s.limiter.GetMetrics()
		metrics["rate_limited_clients"] = limits.ClientCount
		metrics["rate_limit_hits"] = limits.TotalHits
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"metrics":   metrics,
	})
}

// handleReady checks that the data store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"checks": map[string]string{"storage": "failed"},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"checks":     map[string]string{"storage": "ok"},
		"categories": len(categories),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
