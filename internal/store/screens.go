package store

import (
	"fmt"
	"time"

	"castboard/internal/models"
)

func (s *Store) ReadScreens() ([]models.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var screens []models.Screen
	if err := s.readAll(fileScreens, &screens); err != nil {
		return nil, err
	}
	return screens, nil
}

func (s *Store) WriteScreens(screens []models.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(fileScreens, screens)
}

func (s *Store) GetScreen(id string) (*models.Screen, error) {
	screens, err := s.ReadScreens()
	if err != nil {
		return nil, err
	}
	for i := range screens {
		if screens[i].ID == id {
			return &screens[i], nil
		}
	}
	return nil, nil
}

// UpsertScreen inserts or replaces one screen record.
func (s *Store) UpsertScreen(screen models.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var screens []models.Screen
	if err := s.readAll(fileScreens, &screens); err != nil {
		return err
	}

	screen.UpdatedAt = time.Now().UTC()
	replaced := false
	for i := range screens {
		if screens[i].ID == screen.ID {
			screen.CreatedAt = screens[i].CreatedAt
			screens[i] = screen
			replaced = true
			break
		}
	}
	if !replaced {
		screen.CreatedAt = screen.UpdatedAt
		screens = append(screens, screen)
	}
	return s.writeAll(fileScreens, screens)
}

func (s *Store) DeleteScreen(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var screens []models.Screen
	if err := s.readAll(fileScreens, &screens); err != nil {
		return err
	}
	kept := screens[:0]
	for _, sc := range screens {
		if sc.ID != id {
			kept = append(kept, sc)
		}
	}
	if len(kept) == len(screens) {
		return fmt.Errorf("screen %s not found", id)
	}
	return s.writeAll(fileScreens, kept)
}
