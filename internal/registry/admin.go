package registry

import (
	"log"
	"sync"

	"castboard/internal/command"
	"castboard/internal/models"
)

type adminEntry struct {
	channel Channel
	device  models.DeviceInfo
}

// AdminRegistry tracks connected admin-dashboard channels, keyed by session
// ID. Admin sessions receive broadcast notifications but are never targeted
// individually by the dispatcher.
type AdminRegistry struct {
	mu      sync.RWMutex
	entries map[string]*adminEntry
}

func NewAdminRegistry() *AdminRegistry {
	return &AdminRegistry{entries: make(map[string]*adminEntry)}
}

func (r *AdminRegistry) Register(sessionID string, ch Channel, device models.DeviceInfo) {
	r.mu.Lock()
	old := r.entries[sessionID]
	r.entries[sessionID] = &adminEntry{channel: ch, device: device}
	r.mu.Unlock()

	if old != nil && old.channel != ch {
		old.channel.Close()
	}
}

func (r *AdminRegistry) Release(sessionID string, ch Channel) {
	r.mu.Lock()
	if e, ok := r.entries[sessionID]; ok && e.channel == ch {
		delete(r.entries, sessionID)
	}
	r.mu.Unlock()
}

func (r *AdminRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sessions returns a snapshot of connected admin session IDs.
func (r *AdminRegistry) Sessions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// Send writes cmd to one admin session. A failed admin send is cosmetic, so
// the entry is pruned quietly and the caller only sees the boolean.
func (r *AdminRegistry) Send(sessionID string, cmd command.Command) bool {
	payload, err := command.Encode(cmd)
	if err != nil {
		log.Printf("registry: encoding %s command: %v", cmd.CommandType(), err)
		return false
	}

	r.mu.RLock()
	e, ok := r.entries[sessionID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if err := e.channel.Send(payload); err != nil {
		r.Release(sessionID, e.channel)
		e.channel.Close()
		return false
	}
	return true
}
