package landmark

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/morph/gesture"
)

// State is the tracker setup state.
type State uint8

const (
	Uninitialized State = iota
	Initializing
	Ready
	Failed
)

var stateNames = [...]string{
	Uninitialized: "uninitialized",
	Initializing:  "initializing",
	Ready:         "ready",
	Failed:        "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Tracker drives a Source from the main loop. Setup runs in one goroutine
// and its result is picked up by Poll, so every state change happens on
// the caller's goroutine. A failed setup is final.
type Tracker struct {
	src    Source
	state  State
	err    error
	done   chan error
	cancel context.CancelFunc

	lastTime  float64
	haveFrame bool
}

// NewTracker creates a tracker for src in the Uninitialized state.
func NewTracker(src Source) *Tracker {
	return &Tracker{src: src}
}

// Start begins asynchronous setup. Calls after the first are ignored.
func (t *Tracker) Start(ctx context.Context) {
	if t.state != Uninitialized {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan error, 1)
	t.state = Initializing

	slog.Info("tracker_starting")
	go func() {
		t.done <- t.src.Start(ctx)
	}()
}

// Poll collects a finished setup without blocking and returns the state.
func (t *Tracker) Poll() State {
	if t.state != Initializing {
		return t.state
	}
	select {
	case err := <-t.done:
		t.finish(err)
	default:
	}
	return t.state
}

// finish records the setup result.
func (t *Tracker) finish(err error) {
	if err != nil {
		t.state = Failed
		t.err = fmt.Errorf("landmark setup: %w", err)
		return
	}
	t.state = Ready
}

// State returns the last polled state.
func (t *Tracker) State() State { return t.state }

// Err returns the setup error once the tracker has failed.
func (t *Tracker) Err() error { return t.err }

// Detect runs detection on the current frame. It returns ok=false without
// error when the frame has not changed since the last call, and
// ErrNotReady until setup succeeds.
func (t *Tracker) Detect() (hands []gesture.Hand, ok bool, err error) {
	if t.Poll() != Ready {
		return nil, false, ErrNotReady
	}

	frame := t.src.CurrentFrame()
	if t.haveFrame && frame.Time == t.lastTime {
		return nil, false, nil
	}
	t.lastTime = frame.Time
	t.haveFrame = true

	hands, err = t.src.Detect(frame)
	if err != nil {
		return nil, false, fmt.Errorf("detecting frame %d: %w", frame.Index, err)
	}
	return hands, true, nil
}

// Close cancels pending setup, waits for it to return and closes the
// source. The source is never closed while its Start is still running.
func (t *Tracker) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	switch t.state {
	case Uninitialized:
		return nil
	case Initializing:
		t.finish(<-t.done)
		slog.Info("tracker_closed", "state", t.state.String())
	}
	if err := t.src.Close(); err != nil {
		return fmt.Errorf("closing landmark source: %w", err)
	}
	return nil
}
