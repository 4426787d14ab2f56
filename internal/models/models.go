package models

import "time"

// Screen is a persisted display record. Live connection state for a screen
// is tracked separately by the registry; this record only holds configuration.
type Screen struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PlaylistID string `json:"playlist_id,omitempty"`
	// Muted defaults to true: a screen is muted unless explicitly set to
	// false. Player clients depend on this polarity.
	Muted       *bool     `json:"muted,omitempty"`
	MosaicShown bool      `json:"mosaic_shown"`
	RepeatOn    bool      `json:"repeat_on"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsMuted resolves the muted tri-state. Unset means muted.
func (s *Screen) IsMuted() bool {
	return s.Muted == nil || *s.Muted
}

type PlaylistItem struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Duration int    `json:"duration,omitempty"`
}

type Playlist struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Items     []PlaylistItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Settings is the single persisted settings record.
type Settings struct {
	AdminUser         string `json:"admin_user"`
	AdminPasswordHash string `json:"admin_password_hash"`
	JWTSecret         string `json:"jwt_secret"`
	PollIntervalMs    int    `json:"poll_interval_ms"`
	PollingEnabled    bool   `json:"polling_enabled"`
}

// DeviceInfo describes where a push connection came from. Informational
// only; nothing routes on these fields.
type DeviceInfo struct {
	UserAgent   string    `json:"user_agent,omitempty"`
	SourceIP    string    `json:"source_ip,omitempty"`
	City        string    `json:"city,omitempty"`
	Country     string    `json:"country,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}

// ContentFingerprint is the derived change signal for a screen's content.
// Equality is decided by Hash, ItemCount and HasContent only; the timestamp
// and name fields are informational and excluded from comparison.
type ContentFingerprint struct {
	Hash         string    `json:"hash"`
	ItemCount    int       `json:"item_count"`
	HasContent   bool      `json:"has_content"`
	PlaylistName string    `json:"playlist_name,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Equal reports whether two fingerprints describe the same content.
func (f ContentFingerprint) Equal(other ContentFingerprint) bool {
	return f.Hash == other.Hash &&
		f.ItemCount == other.ItemCount &&
		f.HasContent == other.HasContent
}

// RestartEvent records one accepted restart trigger. Kept in a bounded
// in-memory history for observability and rate-limit decisions only.
type RestartEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Reason     string    `json:"reason"`
	FilesAdded []string  `json:"files_added,omitempty"`
}

// ConnectionEvent is an operational log entry for a push channel opening
// or closing.
type ConnectionEvent struct {
	ScreenID  string    `json:"screen_id"`
	Event     string    `json:"event"` // connect or disconnect
	Transport string    `json:"transport"`
	UserAgent string    `json:"user_agent,omitempty"`
	SourceIP  string    `json:"source_ip,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	At        time.Time `json:"at"`
}

// DispatchEvent records one command dispatch attempt.
type DispatchEvent struct {
	ScreenID  string    `json:"screen_id"`
	Command   string    `json:"command"`
	Delivered bool      `json:"delivered"`
	At        time.Time `json:"at"`
}

type GeoResult struct {
	IP      string  `json:"ip"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}
