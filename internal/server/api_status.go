package server

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"castboard/internal/models"
	"castboard/internal/registry"
)

type StatusResponse struct {
	ConnectedScreens  int                       `json:"connected_screens"`
	AdminSessions     int                       `json:"admin_sessions"`
	TotalScreens      int                       `json:"total_screens"`
	TotalPlaylists    int                       `json:"total_playlists"`
	Connections       []registry.ConnectionInfo `json:"connections"`
	RecentConnections []models.ConnectionEvent  `json:"recent_connections,omitempty"`
	RecentDispatches  []models.DispatchEvent    `json:"recent_dispatches,omitempty"`
	RestartHistory    []models.RestartEvent     `json:"restart_history,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		ConnectedScreens: s.screens.Count(),
		AdminSessions:    s.admins.Count(),
		Connections:      s.screens.Connections(),
	}
	if s.restarter != nil {
		resp.RestartHistory = s.restarter.History()
	}

	g, _ := errgroup.WithContext(r.Context())

	g.Go(func() error {
		screens, err := s.store.ReadScreens()
		if err != nil {
			return err
		}
		resp.TotalScreens = len(screens)
		return nil
	})

	g.Go(func() error {
		playlists, err := s.store.ReadPlaylists()
		if err != nil {
			return err
		}
		resp.TotalPlaylists = len(playlists)
		return nil
	})

	if s.events != nil {
		g.Go(func() error {
			events, err := s.events.RecentConnections(25)
			if err != nil {
				return err
			}
			resp.RecentConnections = events
			return nil
		})
		g.Go(func() error {
			events, err := s.events.RecentDispatches(25)
			if err != nil {
				return err
			}
			resp.RecentDispatches = events
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
