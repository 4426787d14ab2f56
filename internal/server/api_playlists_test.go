package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castboard/internal/models"
	"castboard/internal/registry"
)

func TestPlaylistCRUD(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/playlists", map[string]any{
		"name": "lobby",
		"items": []map[string]any{
			{"id": "i1", "path": "/media/a.mp4", "type": "video", "duration": 30},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[models.Playlist](t, rec)
	require.NotEmpty(t, created.ID)

	rec = e.do(t, http.MethodGet, "/api/playlists/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[models.Playlist](t, rec)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "/media/a.mp4", got.Items[0].Path)

	rec = e.do(t, http.MethodDelete, "/api/playlists/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/playlists/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePlaylistRequiresName(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/api/playlists", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePlaylistNotifiesAdmins(t *testing.T) {
	e := newTestEnv(t)
	seedScreen(t, e, models.Screen{ID: "s1", Name: "Lobby", PlaylistID: "p1"})
	require.NoError(t, e.store.UpsertPlaylist(models.Playlist{ID: "p1", Name: "lobby"}))

	admin := newTestChannel(registry.TransportSSE)
	e.admins.Register("sess-1", admin, models.DeviceInfo{})

	rec := e.do(t, http.MethodPut, "/api/playlists/p1", map[string]any{
		"name": "lobby",
		"items": []map[string]any{
			{"id": "i1", "path": "/media/a.mp4", "type": "video"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := admin.lastPayload()
	require.NotNil(t, payload, "admins hear about playlist mutations")
	var env struct {
		Type   string `json:"type"`
		Source string `json:"source"`
	}
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, "refresh", env.Type)
	assert.Equal(t, "playlist-change", env.Source)
}
