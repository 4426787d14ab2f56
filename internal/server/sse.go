package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"castboard/internal/command"
	"castboard/internal/models"
)

const sseKeepalive = 30 * time.Second

func (s *Server) deviceInfo(r *http.Request) models.DeviceInfo {
	now := time.Now().UTC()
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	info := models.DeviceInfo{
		UserAgent:   r.UserAgent(),
		SourceIP:    host,
		ConnectedAt: now,
		LastSeenAt:  now,
	}
	if s.geoResolver != nil {
		if geo := s.geoResolver.LookupAddr(r.RemoteAddr); geo != nil {
			info.City = geo.City
			info.Country = geo.Country
		}
	}
	return info
}

func (s *Server) recordConnection(screenID, event string, transport string, device models.DeviceInfo) {
	if s.events == nil {
		return
	}
	s.events.RecordConnection(models.ConnectionEvent{
		ScreenID:  screenID,
		Event:     event,
		Transport: transport,
		UserAgent: device.UserAgent,
		SourceIP:  device.SourceIP,
		City:      device.City,
		Country:   device.Country,
		At:        time.Now().UTC(),
	})
}

// handlePlayerSSE is the SSE push channel for one screen. Opening the
// stream registers the screen (superseding any previous channel) and the
// first frame is always the connected command.
func (s *Server) handlePlayerSSE(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenId")
	if screenID == "" {
		writeError(w, http.StatusBadRequest, "missing screen id")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := newSSEChannel()
	device := s.deviceInfo(r)
	s.screens.Register(screenID, ch, device)
	s.recordConnection(screenID, "connect", "sse", device)
	defer func() {
		s.screens.Release(screenID, ch)
		ch.Close()
		s.recordConnection(screenID, "disconnect", "sse", device)
	}()

	s.screens.Send(screenID, command.NewConnected(screenID))

	keepalive := time.NewTicker(sseKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch.closed:
			return
		case frame := <-ch.frames:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			flusher.Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleAdminSSE streams broadcast notifications to one dashboard session.
func (s *Server) handleAdminSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := uuid.NewString()
	ch := newSSEChannel()
	s.admins.Register(sessionID, ch, s.deviceInfo(r))
	defer func() {
		s.admins.Release(sessionID, ch)
		ch.Close()
	}()

	s.admins.Send(sessionID, command.NewConnected(sessionID))

	keepalive := time.NewTicker(sseKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch.closed:
			return
		case frame := <-ch.frames:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", frame); err != nil {
				return
			}
			flusher.Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
