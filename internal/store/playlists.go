package store

import (
	"fmt"
	"time"

	"castboard/internal/models"
)

func (s *Store) ReadPlaylists() ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var playlists []models.Playlist
	if err := s.readAll(filePlaylists, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (s *Store) WritePlaylists(playlists []models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(filePlaylists, playlists)
}

func (s *Store) GetPlaylist(id string) (*models.Playlist, error) {
	playlists, err := s.ReadPlaylists()
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		if playlists[i].ID == id {
			return &playlists[i], nil
		}
	}
	return nil, nil
}

func (s *Store) UpsertPlaylist(playlist models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var playlists []models.Playlist
	if err := s.readAll(filePlaylists, &playlists); err != nil {
		return err
	}

	playlist.UpdatedAt = time.Now().UTC()
	replaced := false
	for i := range playlists {
		if playlists[i].ID == playlist.ID {
			playlists[i] = playlist
			replaced = true
			break
		}
	}
	if !replaced {
		playlists = append(playlists, playlist)
	}
	return s.writeAll(filePlaylists, playlists)
}

func (s *Store) DeletePlaylist(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var playlists []models.Playlist
	if err := s.readAll(filePlaylists, &playlists); err != nil {
		return err
	}
	kept := playlists[:0]
	for _, p := range playlists {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(playlists) {
		return fmt.Errorf("playlist %s not found", id)
	}
	return s.writeAll(filePlaylists, kept)
}
