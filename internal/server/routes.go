package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"castboard/internal/auth"
)

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	// Player surface: screens identify themselves by ID, no admin auth.
	s.router.Get("/events/{screenId}", s.handlePlayerSSE)
	s.router.Get("/ws/{screenId}", s.handlePlayerWS)
	s.router.With(pollRateLimit).Get("/api/player/{screenId}/content", s.handlePlayerContent)

	if s.authService != nil {
		s.router.Post("/auth/login", s.authService.HandleLogin)
		s.router.Post("/auth/logout", s.authService.HandleLogout)
	}

	// Admin surface.
	s.router.Group(func(r chi.Router) {
		r.Use(corsMiddleware(s.corsOrigin))
		if s.authService != nil {
			r.Use(auth.RequireAuth(s.authService))
		}
		r.Get("/admin/events", s.handleAdminSSE)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(limitBody)
		r.Use(jsonContentType)
		r.Use(corsMiddleware(s.corsOrigin))
		if s.authService != nil {
			r.Use(auth.RequireAuth(s.authService))
		}

		r.Get("/screens", s.handleListScreens)
		r.Post("/screens", s.handleCreateScreen)
		r.Get("/screens/{id}", s.handleGetScreen)
		r.Put("/screens/{id}", s.handleUpdateScreen)
		r.Delete("/screens/{id}", s.handleDeleteScreen)

		r.Post("/screens/{id}/refresh", s.handleScreenRefresh)
		r.Post("/screens/{id}/mute", s.handleScreenMute)
		r.Post("/screens/{id}/navigate", s.handleScreenNavigate)
		r.Post("/screens/{id}/repeat", s.handleScreenRepeat)
		r.Post("/screens/{id}/mosaic", s.handleScreenMosaic)
		r.Post("/screens/{id}/rtsp", s.handleScreenRTSP)

		r.Get("/playlists", s.handleListPlaylists)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Get("/playlists/{id}", s.handleGetPlaylist)
		r.Put("/playlists/{id}", s.handleUpdatePlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)

		r.Post("/broadcast/refresh", s.handleBroadcastRefresh)

		r.Get("/status", s.handleStatus)
		r.Post("/system/restart", s.handleSystemRestart)
		r.Get("/system/restarts", s.handleRestartHistory)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
