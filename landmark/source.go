// Package landmark connects hand-landmark detectors to the main loop.
//
// A Source produces frames and detects hands in them. The Tracker wraps a
// Source with an explicit setup state machine so that slow or failing
// detector setup never blocks the display loop.
package landmark

import (
	"context"
	"errors"

	"github.com/pthm-cable/morph/gesture"
)

// ErrNotReady is returned when detection is requested before setup finished.
var ErrNotReady = errors.New("landmark source not ready")

// Frame identifies one video frame. Time strictly increases between
// distinct frames; a repeated Time means no new frame is available.
type Frame struct {
	Time  float64 // Seconds
	Index int     // Source-specific frame index, -1 when there is no frame
}

// Source is a hand-landmark detector bound to a frame stream.
type Source interface {
	// Start performs blocking setup. It is called once, off the main loop.
	Start(ctx context.Context) error
	// CurrentFrame returns the most recent frame.
	CurrentFrame() Frame
	// Detect returns the hands found in frame, or none.
	Detect(frame Frame) ([]gesture.Hand, error)
	// Close releases the source.
	Close() error
}
