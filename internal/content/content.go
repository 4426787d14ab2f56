// Package content derives change fingerprints from the persisted playlist
// assignment of a screen. The provider is called on every reconciler tick
// and every player poll, so concurrent computations collapse through
// singleflight and results are cached briefly.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"castboard/internal/models"
	"castboard/internal/store"
)

const defaultCacheTTL = 5 * time.Second

type cached struct {
	fp models.ContentFingerprint
	at time.Time
}

type Provider struct {
	store *store.Store
	ttl   time.Duration

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]cached
}

type Option func(*Provider)

func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

func New(s *store.Store, opts ...Option) *Provider {
	p := &Provider{
		store: s,
		ttl:   defaultCacheTTL,
		cache: make(map[string]cached),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fingerprint returns the current content fingerprint for a screen.
func (p *Provider) Fingerprint(ctx context.Context, screenID string) (models.ContentFingerprint, error) {
	if err := ctx.Err(); err != nil {
		return models.ContentFingerprint{}, err
	}

	p.mu.Lock()
	if c, ok := p.cache[screenID]; ok && time.Since(c.at) < p.ttl {
		p.mu.Unlock()
		return c.fp, nil
	}
	p.mu.Unlock()

	v, err, _ := p.group.Do(screenID, func() (any, error) {
		fp, err := p.compute(screenID)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[screenID] = cached{fp: fp, at: time.Now()}
		p.mu.Unlock()
		return fp, nil
	})
	if err != nil {
		return models.ContentFingerprint{}, err
	}
	return v.(models.ContentFingerprint), nil
}

// Invalidate drops the cached fingerprint for a screen, typically after a
// playlist mutation, so the next poll sees fresh state.
func (p *Provider) Invalidate(screenID string) {
	p.mu.Lock()
	delete(p.cache, screenID)
	p.mu.Unlock()
}

func (p *Provider) compute(screenID string) (models.ContentFingerprint, error) {
	screen, err := p.store.GetScreen(screenID)
	if err != nil {
		return models.ContentFingerprint{}, fmt.Errorf("reading screen %s: %w", screenID, err)
	}
	if screen == nil {
		return models.ContentFingerprint{}, fmt.Errorf("screen %s not found", screenID)
	}

	if screen.PlaylistID == "" {
		return emptyFingerprint(), nil
	}

	playlist, err := p.store.GetPlaylist(screen.PlaylistID)
	if err != nil {
		return models.ContentFingerprint{}, fmt.Errorf("reading playlist %s: %w", screen.PlaylistID, err)
	}
	if playlist == nil {
		return emptyFingerprint(), nil
	}

	return models.ContentFingerprint{
		Hash:         hashItems(playlist.Items),
		ItemCount:    len(playlist.Items),
		HasContent:   len(playlist.Items) > 0,
		PlaylistName: playlist.Name,
		LastModified: playlist.UpdatedAt,
	}, nil
}

func emptyFingerprint() models.ContentFingerprint {
	return models.ContentFingerprint{
		Hash:         hashItems(nil),
		LastModified: time.Now().UTC(),
	}
}

// hashItems digests the item set independent of stored order, so a
// reordering of the JSON file alone does not read as a content change.
func hashItems(items []models.PlaylistItem) string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.ID+"|"+it.Path+"|"+it.Type+"|"+strconv.Itoa(it.Duration))
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte(strings.Join(keys, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}
