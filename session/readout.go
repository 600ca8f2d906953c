package session

import "fmt"

// Readout is the debug state shown next to the control panel.
type Readout struct {
	Openness   float64
	Closedness float64
	Status     string
	Pointing   bool
	MoveX      float64
	MoveY      float64
	Hands      int
	Received   bool // A detected frame has been applied
	NoHand     bool // The last frame had no hands
	Shape      string
	Tracker    string // Empty when running without a detector
	TrackerErr string
	FPS        float64
}

// Readout snapshots the current debug state.
func (s *Session) Readout() Readout {
	sig := s.ctrl.Signal()
	r := Readout{
		Openness:   sig.Openness,
		Closedness: sig.Closedness,
		Status:     s.ctrl.Status(),
		Pointing:   sig.PointingActive,
		MoveX:      sig.PointingX,
		MoveY:      sig.PointingY,
		Hands:      sig.Hands,
		Received:   s.ctrl.Received(),
		NoHand:     sig.Neutral(),
		Shape:      s.field.Shape().String(),
		FPS:        s.perf.Stats().FPS,
	}
	if s.tracker != nil {
		r.Tracker = s.tracker.State().String()
		if err := s.tracker.Err(); err != nil {
			r.TrackerErr = err.Error()
		}
	}
	return r
}

// Lines formats the readout for display.
func (r Readout) Lines() []string {
	lines := []string{
		fmt.Sprintf("Open: %.0f%%", r.Openness*100),
		fmt.Sprintf("Close: %.0f%%", r.Closedness*100),
		"Status: " + r.Status,
	}
	if r.Pointing {
		lines = append(lines, fmt.Sprintf("Move: %.2f, %.2f", r.MoveX, r.MoveY))
	} else {
		lines = append(lines, "Move: OFF")
	}
	if r.Received {
		if r.NoHand {
			lines = append(lines, "Hands: none")
		} else {
			lines = append(lines, fmt.Sprintf("Hands: %d", r.Hands))
		}
	}
	lines = append(lines, "Shape: "+r.Shape)
	if r.Tracker != "" {
		tracker := "Tracker: " + r.Tracker
		if r.TrackerErr != "" {
			tracker += " (" + r.TrackerErr + ")"
		}
		lines = append(lines, tracker)
	}
	return lines
}
