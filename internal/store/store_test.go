package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castboard/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestScreensRoundTrip(t *testing.T) {
	s := newTestStore(t)

	screens, err := s.ReadScreens()
	require.NoError(t, err)
	assert.Empty(t, screens, "missing file reads as empty, not an error")

	require.NoError(t, s.UpsertScreen(models.Screen{ID: "s1", Name: "Lobby", PlaylistID: "p1"}))
	require.NoError(t, s.UpsertScreen(models.Screen{ID: "s2", Name: "Cafeteria"}))

	screens, err = s.ReadScreens()
	require.NoError(t, err)
	require.Len(t, screens, 2)

	got, err := s.GetScreen("s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Lobby", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestUpsertScreenPreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertScreen(models.Screen{ID: "s1", Name: "Lobby"}))

	before, err := s.GetScreen("s1")
	require.NoError(t, err)

	require.NoError(t, s.UpsertScreen(models.Screen{ID: "s1", Name: "Renamed"}))
	after, err := s.GetScreen("s1")
	require.NoError(t, err)

	assert.Equal(t, "Renamed", after.Name)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
}

func TestDeleteScreen(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertScreen(models.Screen{ID: "s1"}))

	require.NoError(t, s.DeleteScreen("s1"))
	got, err := s.GetScreen("s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, s.DeleteScreen("s1"), "deleting an absent record is a caller error")
}

func TestPlaylistsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	items := []models.PlaylistItem{
		{ID: "i1", Path: "/media/a.mp4", Type: "video", Duration: 30},
	}
	require.NoError(t, s.UpsertPlaylist(models.Playlist{ID: "p1", Name: "lobby", Items: items}))

	got, err := s.GetPlaylist("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "lobby", got.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "/media/a.mp4", got.Items[0].Path)

	missing, err := s.GetPlaylist("ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.ReadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultPollIntervalMs, settings.PollIntervalMs)
	assert.True(t, settings.PollingEnabled)

	settings.PollIntervalMs = 0
	settings.PollingEnabled = false
	require.NoError(t, s.WriteSettings(settings))

	reread, err := s.ReadSettings()
	require.NoError(t, err)
	assert.Equal(t, DefaultPollIntervalMs, reread.PollIntervalMs, "a zero interval falls back to the default")
	assert.False(t, reread.PollingEnabled)
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertScreen(models.Screen{ID: "s1"}))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(e.Name()))
	}
}
