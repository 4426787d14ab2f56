package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"castboard/internal/models"
)

func (s *Server) handleListScreens(w http.ResponseWriter, r *http.Request) {
	screens, err := s.store.ReadScreens()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if screens == nil {
		screens = []models.Screen{}
	}
	writeJSON(w, http.StatusOK, screens)
}

func (s *Server) handleCreateScreen(w http.ResponseWriter, r *http.Request) {
	var screen models.Screen
	if err := json.NewDecoder(r.Body).Decode(&screen); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if screen.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if screen.ID == "" {
		screen.ID = uuid.NewString()
	}

	if err := s.store.UpsertScreen(screen); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	s.syncReconcilers()
	writeJSON(w, http.StatusCreated, screen)
}

func (s *Server) handleGetScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := s.store.GetScreen(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if screen == nil {
		writeError(w, http.StatusNotFound, "screen not found")
		return
	}
	writeJSON(w, http.StatusOK, screen)
}

func (s *Server) handleUpdateScreen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.store.GetScreen(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "screen not found")
		return
	}

	var screen models.Screen
	if err := json.NewDecoder(r.Body).Decode(&screen); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	screen.ID = id

	if err := s.store.UpsertScreen(screen); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	// Playlist assignment may have changed; let the screen find out now
	// rather than on its next poll.
	if s.provider != nil {
		s.provider.Invalidate(id)
	}
	if s.reconcilers != nil {
		s.reconcilers.ForceCheck(id)
	}
	s.dispatcher.SendRefresh(id, "screen-update", false)

	writeJSON(w, http.StatusOK, screen)
}

func (s *Server) handleDeleteScreen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteScreen(id); err != nil {
		writeError(w, http.StatusNotFound, "screen not found")
		return
	}
	s.screens.Unregister(id)
	s.syncReconcilers()
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) syncReconcilers() {
	if s.reconcilers == nil {
		return
	}
	screens, err := s.store.ReadScreens()
	if err != nil {
		return
	}
	s.reconcilers.Sync(screens)
}
