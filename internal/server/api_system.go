package server

import (
	"encoding/json"
	"net/http"

	"castboard/internal/models"
)

type restartRequest struct {
	Reason     string   `json:"reason"`
	FilesAdded []string `json:"files_added"`
}

type restartResponse struct {
	Scheduled bool `json:"scheduled"`
}

// handleSystemRestart triggers the rate-limited process restart, typically
// after a bulk upload. A rejected trigger (already in flight, or too soon
// after the last one) is reported as scheduled:false, not as an error.
func (s *Server) handleSystemRestart(w http.ResponseWriter, r *http.Request) {
	if s.restarter == nil {
		writeError(w, http.StatusServiceUnavailable, "restart not configured")
		return
	}

	var req restartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if req.Reason == "" {
		req.Reason = "manual"
	}

	scheduled := s.restarter.ScheduleRestart(req.Reason, req.FilesAdded)
	writeJSON(w, http.StatusOK, restartResponse{Scheduled: scheduled})
}

func (s *Server) handleRestartHistory(w http.ResponseWriter, r *http.Request) {
	if s.restarter == nil {
		writeJSON(w, http.StatusOK, []models.RestartEvent{})
		return
	}
	writeJSON(w, http.StatusOK, s.restarter.History())
}
