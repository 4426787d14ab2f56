package store

import "castboard/internal/models"

// DefaultPollIntervalMs keeps the polling fallback slow enough that a
// large screen fleet does not dominate server load.
const DefaultPollIntervalMs = 120000

func defaultSettings() models.Settings {
	return models.Settings{
		PollIntervalMs: DefaultPollIntervalMs,
		PollingEnabled: true,
	}
}

func (s *Store) ReadSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := defaultSettings()
	if err := s.readAll(fileSettings, &settings); err != nil {
		return models.Settings{}, err
	}
	if settings.PollIntervalMs <= 0 {
		settings.PollIntervalMs = DefaultPollIntervalMs
	}
	return settings, nil
}

func (s *Store) WriteSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(fileSettings, settings)
}
