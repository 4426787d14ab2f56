// Package reconcile implements the polling fallback for content change
// detection. A reconciler periodically fetches a screen's content
// fingerprint and fires a callback exactly once per actual change, so
// screens that cannot hold a push connection still converge.
package reconcile

import (
	"context"
	"log"
	"sync"
	"time"

	"castboard/internal/models"
)

// DefaultInterval bounds server load: polling at scale across many screens
// is the dominant cost driver, so the cadence is deliberately slow.
const DefaultInterval = 120 * time.Second

// FetchFunc returns the current content fingerprint for a screen. It must
// be cheap or cached; it is called on every tick.
type FetchFunc func(ctx context.Context, screenID string) (models.ContentFingerprint, error)

type Config struct {
	ScreenID string
	Interval time.Duration
	// Enabled false means no timer runs at all. This is a kill switch,
	// not a long interval.
	Enabled bool
}

type Option func(*Reconciler)

// OnChange registers the change callback. old is the previous baseline,
// cur the fingerprint that replaced it.
func OnChange(fn func(old, cur models.ContentFingerprint)) Option {
	return func(r *Reconciler) { r.onChange = fn }
}

// OnError registers the fetch-failure callback.
func OnError(fn func(err error)) Option {
	return func(r *Reconciler) { r.onError = fn }
}

// Reconciler polls one screen's fingerprint on a timer. All callbacks run
// on the loop goroutine, so Stop returning guarantees no further callback
// invocations.
type Reconciler struct {
	cfg   Config
	fetch FetchFunc

	onChange func(old, cur models.ContentFingerprint)
	onError  func(err error)

	mu          sync.Mutex
	baseline    models.ContentFingerprint
	hasBaseline bool

	startOnce  sync.Once
	cancel     context.CancelFunc
	done       chan struct{}
	forceCheck chan struct{}
	tickNotify chan struct{}
}

func New(cfg Config, fetch FetchFunc, opts ...Option) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	r := &Reconciler{
		cfg:        cfg,
		fetch:      fetch,
		forceCheck: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start performs one immediate fetch to establish the baseline, then arms
// the repeating timer. When the reconciler is disabled this is a no-op.
func (r *Reconciler) Start(ctx context.Context) {
	if !r.cfg.Enabled {
		return
	}
	r.startOnce.Do(func() {
		ctx, r.cancel = context.WithCancel(ctx)
		r.done = make(chan struct{})
		go r.run(ctx)
	})
}

// Stop cancels the timer and waits for the loop to exit. Safe to call
// multiple times and before Start.
func (r *Reconciler) Stop() {
	if r.cancel != nil && r.done != nil {
		r.cancel()
		<-r.done
	}
}

// ForceCheck triggers an out-of-schedule fetch-and-compare without
// resetting the timer cadence. No-op if the loop is not running or a
// forced check is already pending.
func (r *Reconciler) ForceCheck() {
	select {
	case r.forceCheck <- struct{}{}:
	default:
	}
}

// Baseline returns the last-known-good fingerprint, if one exists.
func (r *Reconciler) Baseline() (models.ContentFingerprint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.baseline, r.hasBaseline
}

func (r *Reconciler) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		case <-r.forceCheck:
			r.tick(ctx)
		}
	}
}

func (r *Reconciler) tick(ctx context.Context) {
	defer func() {
		if r.tickNotify != nil {
			select {
			case r.tickNotify <- struct{}{}:
			default:
			}
		}
	}()

	// A tick can race Stop: the fetch may already be in flight when the
	// context is cancelled. Re-check before acting on the result.
	if ctx.Err() != nil {
		return
	}

	fp, err := r.fetch(ctx, r.cfg.ScreenID)
	if err != nil {
		// The baseline stays untouched: a failed fetch is not "no
		// content", and the loop continues on schedule.
		if r.onError != nil && ctx.Err() == nil {
			r.onError(err)
		}
		return
	}

	if ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	if !r.hasBaseline {
		// First successful fetch only establishes the baseline. There
		// is no prior state to have changed from, so no callback.
		r.baseline = fp
		r.hasBaseline = true
		r.mu.Unlock()
		return
	}
	old := r.baseline
	changed := !fp.Equal(old)
	if changed {
		r.baseline = fp
	}
	r.mu.Unlock()

	if changed {
		log.Printf("reconcile: content changed for screen %s (%d items)", r.cfg.ScreenID, fp.ItemCount)
		if r.onChange != nil {
			r.onChange(old, fp)
		}
	}
}
