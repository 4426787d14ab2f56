package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"castboard/internal/models"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.store.ReadPlaylists()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var playlist models.Playlist
	if err := json.NewDecoder(r.Body).Decode(&playlist); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if playlist.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if playlist.ID == "" {
		playlist.ID = uuid.NewString()
	}

	if err := s.store.UpsertPlaylist(playlist); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.store.GetPlaylist(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if playlist == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := s.store.GetPlaylist(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var playlist models.Playlist
	if err := json.NewDecoder(r.Body).Decode(&playlist); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	playlist.ID = id

	if err := s.store.UpsertPlaylist(playlist); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	s.notifyPlaylistChanged(id)
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeletePlaylist(id); err != nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	s.notifyPlaylistChanged(id)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// notifyPlaylistChanged pushes a content update to every screen using the
// playlist and a refresh signal to the admin dashboards. Screens without a
// push channel pick the change up through the polling fallback.
func (s *Server) notifyPlaylistChanged(playlistID string) {
	screens, err := s.store.ReadScreens()
	if err != nil {
		return
	}
	for _, sc := range screens {
		if sc.PlaylistID != playlistID {
			continue
		}
		if s.provider != nil {
			s.provider.Invalidate(sc.ID)
		}
		if s.reconcilers != nil {
			s.reconcilers.ForceCheck(sc.ID)
		}
	}
	s.broadcaster.NotifyAdminRefresh("playlist-change")
}
