package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handlePlayerContent is the polling fallback for screens that cannot hold
// a push connection. The client compares the returned fingerprint against
// its previous one and reloads on change.
func (s *Server) handlePlayerContent(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "content provider not configured")
		return
	}

	screenID := chi.URLParam(r, "screenId")
	fp, err := s.provider.Fingerprint(r.Context(), screenID)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown screen")
		return
	}
	writeJSON(w, http.StatusOK, fp)
}
