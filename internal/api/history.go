package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
)

// handleLampHistory returns recent status changes for a lamp, newest first.
//
// Query parameters:
//   - limit: 1..200, default 50
//   - since: RFC3339 timestamp; only later changes are returned, limit applies after it
func (s *Server) handleLampHistory(w http.ResponseWriter, r *http.Request) {
	name, ok := s.lampParam(w, r)
	if !ok {
		return
	}

	limit, err := parseHistoryLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	since, err := parseSinceParam(r.URL.Query().Get("since"))
	if err != nil {
		writeBadRequest(w, "invalid since timestamp")
		return
	}

	entries, err := s.history.Recent(r.Context(), name, since, limit)
	if err != nil {
		s.logger.Error("loading lamp history failed", "lamp", name, "error", err, "request_id", requestID(r))
		writeInternalError(w, "failed to load lamp history")
		return
	}
	if entries == nil {
		entries = []lamp.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lamp":    name,
		"history": entries,
		"count":   len(entries),
	})
}

// parseHistoryLimit parses the limit query parameter with bounds enforcement.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return lamp.DefaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if limit > lamp.MaxHistoryLimit {
		return 0, fmt.Errorf("limit exceeds maximum")
	}

	return limit, nil
}

// parseSinceParam parses the since parameter as RFC3339/RFC3339Nano.
func parseSinceParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
