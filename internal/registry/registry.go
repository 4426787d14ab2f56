// Package registry tracks live push channels. The ScreenRegistry is the
// single source of truth for "is this screen currently reachable"; the
// AdminRegistry tracks connected dashboard sessions. The two are separate
// types on purpose: their message shapes and failure tolerance differ, and
// keeping them apart means one registry's cleanup never touches the other.
package registry

import (
	"log"
	"strings"
	"sync"
	"time"

	"castboard/internal/command"
	"castboard/internal/models"
)

type Transport string

const (
	TransportSSE       Transport = "sse"
	TransportWebSocket Transport = "websocket"
)

// Channel is one live push connection. Implementations serialize their own
// writes so per-screen delivery order follows call order.
type Channel interface {
	Send(payload []byte) error
	Transport() Transport
	Close()
}

type screenEntry struct {
	channel Channel
	device  models.DeviceInfo
}

// ConnectionInfo is a point-in-time view of one registered channel,
// exposed for the admin status surface.
type ConnectionInfo struct {
	ScreenID  string            `json:"screen_id"`
	Transport Transport         `json:"transport"`
	Device    models.DeviceInfo `json:"device"`
}

// ScreenRegistry maps a screen ID to its single live channel. At most one
// channel exists per screen: a new registration supersedes the old one.
type ScreenRegistry struct {
	mu      sync.RWMutex
	entries map[string]*screenEntry
}

func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{entries: make(map[string]*screenEntry)}
}

// Register stores the channel for screenID, unconditionally replacing any
// existing entry. Overwriting is by design: a reconnect supersedes the
// stale connection without waiting for it to close. The superseded channel
// is closed so its handler can exit.
func (r *ScreenRegistry) Register(screenID string, ch Channel, device models.DeviceInfo) {
	r.mu.Lock()
	old := r.entries[screenID]
	r.entries[screenID] = &screenEntry{channel: ch, device: device}
	r.mu.Unlock()

	if old != nil && old.channel != ch {
		log.Printf("registry: screen %s reconnected over %s, superseding %s channel",
			screenID, ch.Transport(), old.channel.Transport())
		old.channel.Close()
	}
}

// Unregister removes the entry for screenID. No-op if absent.
func (r *ScreenRegistry) Unregister(screenID string) {
	r.mu.Lock()
	delete(r.entries, screenID)
	r.mu.Unlock()
}

// Release removes the entry only if ch is still the registered channel.
// Transport handlers call this on disconnect so a stale handler's cleanup
// cannot evict a superseding registration.
func (r *ScreenRegistry) Release(screenID string, ch Channel) {
	r.mu.Lock()
	if e, ok := r.entries[screenID]; ok && e.channel == ch {
		delete(r.entries, screenID)
	}
	r.mu.Unlock()
}

func (r *ScreenRegistry) IsConnected(screenID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[screenID]
	return ok
}

// ListConnected returns a snapshot of registered screen IDs. The snapshot
// does not stay valid across concurrent mutation.
func (r *ScreenRegistry) ListConnected() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

func (r *ScreenRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Connections returns a snapshot of all registered channels with their
// device info, for the admin status page.
func (r *ScreenRegistry) Connections() []ConnectionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConnectionInfo, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, ConnectionInfo{ScreenID: id, Transport: e.channel.Transport(), Device: e.device})
	}
	return out
}

// TransportOf reports the transport of the screen's channel, if registered.
func (r *ScreenRegistry) TransportOf(screenID string) (Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[screenID]
	if !ok {
		return "", false
	}
	return e.channel.Transport(), true
}

// Send serializes cmd and writes it to the screen's channel. Returns false
// if the screen is not registered or the write fails. A failed write prunes
// the registration: the channel is assumed dead, and the screen's next
// connection attempt starts clean.
func (r *ScreenRegistry) Send(screenID string, cmd command.Command) bool {
	payload, err := command.Encode(cmd)
	if err != nil {
		log.Printf("registry: encoding %s command: %v", cmd.CommandType(), err)
		return false
	}

	r.mu.RLock()
	e, ok := r.entries[screenID]
	r.mu.RUnlock()
	if !ok {
		connected := r.ListConnected()
		log.Printf("registry: screen %s not connected (registered: [%s])",
			screenID, strings.Join(connected, ", "))
		return false
	}

	if err := e.channel.Send(payload); err != nil {
		log.Printf("registry: write to screen %s failed, pruning channel: %v", screenID, err)
		r.Release(screenID, e.channel)
		e.channel.Close()
		return false
	}

	r.mu.Lock()
	if cur, ok := r.entries[screenID]; ok && cur == e {
		cur.device.LastSeenAt = time.Now().UTC()
	}
	r.mu.Unlock()
	return true
}
