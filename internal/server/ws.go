package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"castboard/internal/command"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Players are LAN devices and Android apps without an Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsPingInterval = 20 * time.Second
	wsReadTimeout  = wsPingInterval * 3
)

// handlePlayerWS is the WebSocket push channel for one screen. Same
// register/supersede semantics as the SSE channel; the envelope framing is
// one JSON text message per command.
func (s *Server) handlePlayerWS(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "screenId")
	if screenID == "" {
		writeError(w, http.StatusBadRequest, "missing screen id")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: ws upgrade for screen %s: %v", screenID, err)
		return
	}

	ch := newWSChannel(conn)
	device := s.deviceInfo(r)
	s.screens.Register(screenID, ch, device)
	s.recordConnection(screenID, "connect", "websocket", device)
	defer func() {
		s.screens.Release(screenID, ch)
		ch.Close()
		s.recordConnection(screenID, "disconnect", "websocket", device)
	}()

	s.screens.Send(screenID, command.NewConnected(screenID))

	conn.SetReadLimit(maxBodySize)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(
					websocket.PingMessage, nil,
					time.Now().Add(wsWriteTimeout),
				); err != nil {
					return
				}
			}
		}
	}()

	// Players never send application messages; the read loop only exists
	// to notice the connection closing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
