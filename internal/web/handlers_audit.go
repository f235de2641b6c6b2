package web

import (
	"net/http"
	"strconv"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// handleAuditLog returns the most recent audit entries as JSON.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultAuditLimit)
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := s.service.AuditLog(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}
