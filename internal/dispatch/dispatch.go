// Package dispatch builds command envelopes and routes them to a single
// screen through the registry. It is pure routing: persisting the screen
// state that a command implies is the caller's job, and "not delivered" is
// an expected outcome, never an error.
package dispatch

import (
	"castboard/internal/command"
	"castboard/internal/models"
	"castboard/internal/registry"
)

// Result reports the outcome of one dispatch attempt.
type Result struct {
	Delivered bool `json:"delivered"`
}

// Recorder receives a best-effort audit record per dispatch attempt.
type Recorder interface {
	RecordDispatch(ev models.DispatchEvent)
}

type Dispatcher struct {
	screens  *registry.ScreenRegistry
	recorder Recorder
}

type Option func(*Dispatcher)

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

func New(screens *registry.ScreenRegistry, opts ...Option) *Dispatcher {
	d := &Dispatcher{screens: screens}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Dispatcher) send(screenID string, cmd command.Command) Result {
	delivered := d.screens.Send(screenID, cmd)
	if d.recorder != nil {
		d.recorder.RecordDispatch(models.DispatchEvent{
			ScreenID:  screenID,
			Command:   string(cmd.CommandType()),
			Delivered: delivered,
		})
	}
	return Result{Delivered: delivered}
}

func (d *Dispatcher) SendRefresh(screenID, source string, forced bool) Result {
	return d.send(screenID, command.NewRefresh(source, forced))
}

// SendMute carries the resulting mute state, not a toggle. Computing
// "current XOR requested" is the caller's job; the default state is muted
// unless explicitly set to false upstream.
func (d *Dispatcher) SendMute(screenID string, muted bool) Result {
	return d.send(screenID, command.NewMute(muted))
}

// SendNavigate rejects directions outside {next, previous} before any
// dispatch attempt. That rejection is a caller error, distinct from the
// screen simply being offline.
func (d *Dispatcher) SendNavigate(screenID string, direction command.Direction) (Result, error) {
	cmd, err := command.NewNavigate(direction)
	if err != nil {
		return Result{}, err
	}
	return d.send(screenID, cmd), nil
}

func (d *Dispatcher) SendRepeat(screenID string, repeat bool) Result {
	return d.send(screenID, command.NewRepeat(repeat))
}

func (d *Dispatcher) SendMosaic(screenID string, action command.MosaicAction, source string) (Result, error) {
	cmd, err := command.NewMosaic(action, source)
	if err != nil {
		return Result{}, err
	}
	return d.send(screenID, cmd), nil
}

func (d *Dispatcher) SendRTSPControl(screenID, action, streamURL string) Result {
	return d.send(screenID, command.NewRTSPControl(action, streamURL))
}
