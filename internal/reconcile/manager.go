package reconcile

import (
	"context"
	"log"
	"sync"
	"time"

	"castboard/internal/models"
)

// Manager runs one reconciler per screen and keeps the set in step with
// the persisted screen list.
type Manager struct {
	fetch    FetchFunc
	interval time.Duration
	enabled  bool

	onChange func(screenID string, old, cur models.ContentFingerprint)
	onError  func(screenID string, err error)

	mu          sync.Mutex
	ctx         context.Context
	reconcilers map[string]*Reconciler
}

type ManagerOption func(*Manager)

// ManagerOnChange registers the change callback applied to every screen's
// reconciler.
func ManagerOnChange(fn func(screenID string, old, cur models.ContentFingerprint)) ManagerOption {
	return func(m *Manager) { m.onChange = fn }
}

// ManagerOnError registers the fetch-failure callback applied to every
// screen's reconciler.
func ManagerOnError(fn func(screenID string, err error)) ManagerOption {
	return func(m *Manager) { m.onError = fn }
}

func NewManager(fetch FetchFunc, interval time.Duration, enabled bool, opts ...ManagerOption) *Manager {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Manager{
		fetch:       fetch,
		interval:    interval,
		enabled:     enabled,
		reconcilers: make(map[string]*Reconciler),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()
}

// Sync starts reconcilers for new screens and stops reconcilers whose
// screens were removed. Called at startup and after screen CRUD.
func (m *Manager) Sync(screens []models.Screen) {
	if !m.enabled {
		return
	}

	m.mu.Lock()
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	want := make(map[string]struct{}, len(screens))
	for _, s := range screens {
		want[s.ID] = struct{}{}
		if _, ok := m.reconcilers[s.ID]; ok {
			continue
		}
		screenID := s.ID
		var opts []Option
		if m.onChange != nil {
			opts = append(opts, OnChange(func(old, cur models.ContentFingerprint) {
				m.onChange(screenID, old, cur)
			}))
		}
		if m.onError != nil {
			opts = append(opts, OnError(func(err error) {
				m.onError(screenID, err)
			}))
		}
		r := New(Config{ScreenID: screenID, Interval: m.interval, Enabled: true}, m.fetch, opts...)
		m.reconcilers[screenID] = r
		r.Start(ctx)
	}

	var stale []*Reconciler
	for id, r := range m.reconcilers {
		if _, ok := want[id]; !ok {
			stale = append(stale, r)
			delete(m.reconcilers, id)
		}
	}
	m.mu.Unlock()

	for _, r := range stale {
		r.Stop()
	}
	if len(stale) > 0 {
		log.Printf("reconcile: stopped %d reconcilers for removed screens", len(stale))
	}
}

// ForceCheck triggers an immediate check for one screen, typically after
// an admin action.
func (m *Manager) ForceCheck(screenID string) {
	m.mu.Lock()
	r, ok := m.reconcilers[screenID]
	m.mu.Unlock()
	if ok {
		r.ForceCheck()
	}
}

func (m *Manager) StopAll() {
	m.mu.Lock()
	all := make([]*Reconciler, 0, len(m.reconcilers))
	for id, r := range m.reconcilers {
		all = append(all, r)
		delete(m.reconcilers, id)
	}
	m.mu.Unlock()

	for _, r := range all {
		r.Stop()
	}
}
