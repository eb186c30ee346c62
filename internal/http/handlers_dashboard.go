package http

import (
	"net/http"
	"time"
)

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboards.Summary(r.Context(), UserIDFromContext(r.Context()), time.Now())
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.dashboards.Analytics(r.Context(), UserIDFromContext(r.Context()), time.Now())
	if err != nil {
		respondStoreError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, toAnalyticsResponse(analytics))
}

// handleExport is a stub: spreadsheet export never shipped in this
// rewrite of the dashboard.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotImplemented, "export is not available")
}

// handleHealthz reports liveness plus middleware counters, so a probe
// can see traffic and limiter pressure without a separate metrics port.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{
		"http": map[string]any{
			"requests_total": s.tracer.TotalRequests(),
			"status":         "ok",
		},
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.ActiveClients(),
			"status":         "ok",
		},
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
