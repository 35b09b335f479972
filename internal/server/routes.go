package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"StakeBanner/internal/notifier"
)

func (s *Server) registerRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/stats/{week:[0-9]+}", s.handleWeek).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStatsText).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "ok",
		"uptime_ms": time.Since(s.started).Milliseconds(),
	}
	if report, ok := s.source.Latest(); ok {
		resp["fetched_at"] = report.FetchedAt
	}
	writeJSON(w, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, ok := s.source.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "stats not available yet")
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week")
		return
	}
	report, ok := s.source.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "stats not available yet")
		return
	}
	stat, ok := report.Week(week)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown week")
		return
	}
	writeJSON(w, stat)
}

func (s *Server) handleStatsText(w http.ResponseWriter, r *http.Request) {
	report, ok := s.source.Latest()
	if !ok {
		http.Error(w, "stats not available yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	notifier.RenderTable(w, report, s.display)
}
