package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castboard/internal/dispatch"
	"castboard/internal/models"
	"castboard/internal/registry"
)

func TestScreenRefreshReportsDelivery(t *testing.T) {
	e := newTestEnv(t)
	ch := newTestChannel(registry.TransportSSE)
	e.screens.Register("s1", ch, models.DeviceInfo{})

	rec := e.do(t, http.MethodPost, "/api/screens/s1/refresh", map[string]any{"forced": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[dispatch.Result](t, rec).Delivered)

	e.screens.Unregister("s1")

	rec = e.do(t, http.MethodPost, "/api/screens/s1/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code, "an offline screen is not an HTTP error")
	assert.False(t, decodeBody[dispatch.Result](t, rec).Delivered)
}

func TestScreenMuteToggleDefaultsToMuted(t *testing.T) {
	e := newTestEnv(t)
	seedScreen(t, e, models.Screen{ID: "s1", Name: "Lobby"})
	ch := newTestChannel(registry.TransportWebSocket)
	e.screens.Register("s1", ch, models.DeviceInfo{})

	// No persisted state means muted, so the first toggle unmutes.
	rec := e.do(t, http.MethodPost, "/api/screens/s1/mute", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Muted bool `json:"muted"`
	}
	require.NoError(t, json.Unmarshal(ch.lastPayload(), &env))
	assert.False(t, env.Muted)

	screen, err := e.store.GetScreen("s1")
	require.NoError(t, err)
	require.NotNil(t, screen.Muted)
	assert.False(t, *screen.Muted, "resulting state is persisted, not just dispatched")

	// Second toggle flips back.
	rec = e.do(t, http.MethodPost, "/api/screens/s1/mute", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(ch.lastPayload(), &env))
	assert.True(t, env.Muted)
}

func TestScreenMuteExplicitStateIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	seedScreen(t, e, models.Screen{ID: "s1", Name: "Lobby"})
	ch := newTestChannel(registry.TransportSSE)
	e.screens.Register("s1", ch, models.DeviceInfo{})

	for i := 0; i < 2; i++ {
		rec := e.do(t, http.MethodPost, "/api/screens/s1/mute", map[string]any{"muted": true})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var env struct {
		Muted bool `json:"muted"`
	}
	require.NoError(t, json.Unmarshal(ch.lastPayload(), &env))
	assert.True(t, env.Muted, "repeating an explicit state re-sends the same command")
}

func TestScreenMuteUnknownScreen(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/screens/ghost/mute", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreenNavigateRejectsInvalidDirection(t *testing.T) {
	e := newTestEnv(t)
	e.screens.Register("s1", newTestChannel(registry.TransportSSE), models.DeviceInfo{})

	rec := e.do(t, http.MethodPost, "/api/screens/s1/navigate", map[string]any{"direction": "next"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[dispatch.Result](t, rec).Delivered)

	rec = e.do(t, http.MethodPost, "/api/screens/s1/navigate", map[string]any{"direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "bad input is the caller's fault, unlike an offline screen")
}

func TestScreenRepeatTogglePersists(t *testing.T) {
	e := newTestEnv(t)
	seedScreen(t, e, models.Screen{ID: "s1", Name: "Lobby"})

	rec := e.do(t, http.MethodPost, "/api/screens/s1/repeat", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	screen, err := e.store.GetScreen("s1")
	require.NoError(t, err)
	assert.True(t, screen.RepeatOn)
}

func TestScreenMosaicTogglePersists(t *testing.T) {
	e := newTestEnv(t)
	seedScreen(t, e, models.Screen{ID: "s1", Name: "Lobby"})

	rec := e.do(t, http.MethodPost, "/api/screens/s1/mosaic", map[string]any{"action": "show"})
	require.Equal(t, http.StatusOK, rec.Code)

	screen, err := e.store.GetScreen("s1")
	require.NoError(t, err)
	assert.True(t, screen.MosaicShown)

	rec = e.do(t, http.MethodPost, "/api/screens/s1/mosaic", map[string]any{"action": "invert"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenRTSPControl(t *testing.T) {
	e := newTestEnv(t)
	ch := newTestChannel(registry.TransportWebSocket)
	e.screens.Register("s1", ch, models.DeviceInfo{})

	rec := e.do(t, http.MethodPost, "/api/screens/s1/rtsp", map[string]any{
		"action":     "play",
		"stream_url": "rtsp://cam1.local/stream",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[dispatch.Result](t, rec).Delivered)

	var env struct {
		Type      string `json:"type"`
		Action    string `json:"action"`
		StreamURL string `json:"stream_url"`
	}
	require.NoError(t, json.Unmarshal(ch.lastPayload(), &env))
	assert.Equal(t, "rtsp_control", env.Type)
	assert.Equal(t, "play", env.Action)
	assert.Equal(t, "rtsp://cam1.local/stream", env.StreamURL)

	rec = e.do(t, http.MethodPost, "/api/screens/s1/rtsp", map[string]any{"stream_url": "rtsp://cam1.local/stream"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "an empty action has no meaning to the player")
}

func TestBroadcastRefresh(t *testing.T) {
	e := newTestEnv(t)
	e.screens.Register("s1", newTestChannel(registry.TransportWebSocket), models.DeviceInfo{})
	e.screens.Register("s2", newTestChannel(registry.TransportSSE), models.DeviceInfo{})
	e.admins.Register("sess-1", newTestChannel(registry.TransportSSE), models.DeviceInfo{})

	rec := e.do(t, http.MethodPost, "/api/broadcast/refresh", map[string]any{"source": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		WSNotified    int `json:"ws_notified"`
		SSENotified   int `json:"sse_notified"`
		AdminNotified int `json:"admin_notified"`
		TotalClients  int `json:"total_clients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.WSNotified)
	assert.Equal(t, 1, res.SSENotified)
	assert.Equal(t, 1, res.AdminNotified)
	assert.Equal(t, 3, res.TotalClients)
}
