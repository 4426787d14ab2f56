// Package restart provides the idempotent, rate-limited process restart
// trigger used after bulk content changes. At most one restart is ever
// scheduled at a time; concurrent callers lose rather than queue.
package restart

import (
	"log"
	"sync"
	"time"

	"castboard/internal/models"
)

const (
	DefaultMinInterval = 30 * time.Second
	DefaultDebounce    = 3 * time.Second

	// maxHistory bounds the restart event log; oldest entries evict.
	maxHistory = 20
)

type state int

const (
	stateIdle state = iota
	stateScheduled
	stateInProgress
)

// Recorder receives accepted restart events for the operational log.
type Recorder interface {
	RecordRestart(ev models.RestartEvent)
}

type Coordinator struct {
	minInterval time.Duration
	debounce    time.Duration
	perform     func() error
	recorder    Recorder

	mu            sync.Mutex
	state         state
	lastCompleted time.Time
	history       []models.RestartEvent
}

type Option func(*Coordinator)

func WithMinInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.minInterval = d }
}

func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// New builds a coordinator around perform, the function that actually
// restarts the process. perform runs at most once per accepted schedule,
// after the debounce delay.
func New(perform func() error, opts ...Option) *Coordinator {
	c := &Coordinator{
		minInterval: DefaultMinInterval,
		debounce:    DefaultDebounce,
		perform:     perform,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ScheduleRestart requests a restart and reports whether it was actually
// scheduled. Both gates run before any side effect: a restart already in
// flight, or a previous restart completed less than minInterval ago, each
// reject the call. Rejection is an expected outcome, not an error.
func (c *Coordinator) ScheduleRestart(reason string, filesAdded []string) bool {
	c.mu.Lock()
	if c.state != stateIdle {
		c.mu.Unlock()
		log.Printf("restart: rejected %q, restart already in flight", reason)
		return false
	}
	if !c.lastCompleted.IsZero() && time.Since(c.lastCompleted) < c.minInterval {
		c.mu.Unlock()
		log.Printf("restart: rejected %q, last restart too recent", reason)
		return false
	}

	c.state = stateScheduled
	ev := models.RestartEvent{
		Timestamp:  time.Now().UTC(),
		Reason:     reason,
		FilesAdded: filesAdded,
	}
	c.history = append(c.history, ev)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.RecordRestart(ev)
	}

	log.Printf("restart: scheduled (%s), %d files added, executing in %v", reason, len(filesAdded), c.debounce)
	go c.execute()
	return true
}

// execute waits out the debounce so concurrent in-flight operations can
// settle, then performs the restart exactly once.
func (c *Coordinator) execute() {
	time.Sleep(c.debounce)

	c.mu.Lock()
	c.state = stateInProgress
	c.mu.Unlock()

	err := c.perform()

	c.mu.Lock()
	c.lastCompleted = time.Now().UTC()
	c.state = stateIdle
	c.mu.Unlock()

	if err != nil {
		log.Printf("restart: perform failed: %v", err)
	}
}

// InFlight reports whether a restart is scheduled or running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != stateIdle
}

// History returns a snapshot of recent restart events, newest last.
func (c *Coordinator) History() []models.RestartEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.RestartEvent, len(c.history))
	copy(out, c.history)
	return out
}
