package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"castboard/internal/command"
)

// Command endpoints report delivery in the body. A screen being offline is
// an expected outcome: the response is 200 with delivered:false, never 5xx.

type refreshRequest struct {
	Source string `json:"source"`
	Forced bool   `json:"forced"`
}

func (s *Server) handleScreenRefresh(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")

	var req refreshRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if req.Source == "" {
		req.Source = "admin"
	}

	writeJSON(w, http.StatusOK, s.dispatcher.SendRefresh(screenID, req.Source, req.Forced))
}

type muteRequest struct {
	// Muted is the requested resulting state. Absent means toggle the
	// persisted state, which defaults to muted.
	Muted *bool `json:"muted"`
}

func (s *Server) handleScreenMute(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")

	var req muteRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	screen, err := s.store.GetScreen(screenID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if screen == nil {
		writeError(w, http.StatusNotFound, "screen not found")
		return
	}

	// The command always carries the resulting state, never a toggle
	// instruction. Unset persisted state means muted, not false.
	resulting := !screen.IsMuted()
	if req.Muted != nil {
		resulting = *req.Muted
	}

	screen.Muted = &resulting
	if err := s.store.UpsertScreen(*screen); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	writeJSON(w, http.StatusOK, s.dispatcher.SendMute(screenID, resulting))
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) handleScreenNavigate(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	res, err := s.dispatcher.SendNavigate(screenID, command.Direction(req.Direction))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type repeatRequest struct {
	Repeat *bool `json:"repeat"`
}

func (s *Server) handleScreenRepeat(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")

	var req repeatRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	screen, err := s.store.GetScreen(screenID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	if screen == nil {
		writeError(w, http.StatusNotFound, "screen not found")
		return
	}

	resulting := !screen.RepeatOn
	if req.Repeat != nil {
		resulting = *req.Repeat
	}

	screen.RepeatOn = resulting
	if err := s.store.UpsertScreen(*screen); err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	writeJSON(w, http.StatusOK, s.dispatcher.SendRepeat(screenID, resulting))
}

type mosaicRequest struct {
	Action string `json:"action"`
	Source string `json:"source"`
}

func (s *Server) handleScreenMosaic(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")

	var req mosaicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	action := command.MosaicAction(req.Action)
	res, err := s.dispatcher.SendMosaic(screenID, action, req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if screen, serr := s.store.GetScreen(screenID); serr == nil && screen != nil {
		switch action {
		case command.MosaicShow:
			screen.MosaicShown = true
		case command.MosaicHide:
			screen.MosaicShown = false
		case command.MosaicToggle:
			screen.MosaicShown = !screen.MosaicShown
		}
		if err := s.store.UpsertScreen(*screen); err != nil {
			writeError(w, http.StatusInternalServerError, "internal")
			return
		}
	}

	writeJSON(w, http.StatusOK, res)
}

type rtspControlRequest struct {
	Action    string `json:"action"`
	StreamURL string `json:"stream_url"`
}

// handleScreenRTSP passes a stream control action through to the player.
// The transcoding pipeline behind it is external; this endpoint only
// delivers the instruction.
func (s *Server) handleScreenRTSP(w http.ResponseWriter, r *http.Request) {
	screenID := chi.URLParam(r, "id")

	var req rtspControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}

	writeJSON(w, http.StatusOK, s.dispatcher.SendRTSPControl(screenID, req.Action, req.StreamURL))
}

type broadcastRequest struct {
	SourceScreenID string `json:"source_screen_id"`
	Source         string `json:"source"`
}

func (s *Server) handleBroadcastRefresh(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	if req.Source == "" {
		req.Source = "admin"
	}

	writeJSON(w, http.StatusOK, s.broadcaster.BroadcastRefresh(req.SourceScreenID, req.Source))
}
