package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castboard/internal/models"
	"castboard/internal/registry"
	"castboard/internal/restart"
)

func TestSystemRestartGates(t *testing.T) {
	restarter := restart.New(
		func() error { return nil },
		restart.WithDebounce(10*time.Millisecond),
		restart.WithMinInterval(time.Hour),
	)
	e := newTestEnv(t, WithRestarter(restarter))

	rec := e.do(t, http.MethodPost, "/api/system/restart", map[string]any{
		"reason":      "content-change",
		"files_added": []string{"a.mp4", "b.mp4"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody[restartResponse](t, rec)
	assert.True(t, first.Scheduled)

	// Second trigger while the first is pending: rejected, still 200.
	rec = e.do(t, http.MethodPost, "/api/system/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[restartResponse](t, rec).Scheduled)

	rec = e.do(t, http.MethodGet, "/api/system/restarts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[[]models.RestartEvent](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "content-change", history[0].Reason)
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, history[0].FilesAdded)
}

func TestSystemRestartUnconfigured(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/system/restart", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/system/restarts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]models.RestartEvent](t, rec))
}

func TestStatusAggregates(t *testing.T) {
	e := newTestEnv(t)
	seedScreen(t, e, models.Screen{ID: "s1", Name: "Lobby"})
	seedScreen(t, e, models.Screen{ID: "s2", Name: "Cafeteria"})
	require.NoError(t, e.store.UpsertPlaylist(models.Playlist{ID: "p1", Name: "lobby"}))

	e.screens.Register("s1", newTestChannel(registry.TransportSSE), models.DeviceInfo{UserAgent: "player/1.0"})
	e.admins.Register("sess-1", newTestChannel(registry.TransportSSE), models.DeviceInfo{})

	rec := e.do(t, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := decodeBody[StatusResponse](t, rec)
	assert.Equal(t, 1, status.ConnectedScreens)
	assert.Equal(t, 1, status.AdminSessions)
	assert.Equal(t, 2, status.TotalScreens)
	assert.Equal(t, 1, status.TotalPlaylists)
	require.Len(t, status.Connections, 1)
	assert.Equal(t, "s1", status.Connections[0].ScreenID)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
