package gesture

import (
	"log/slog"

	"github.com/pthm-cable/morph/config"
)

// minPalmSize below which the hand is too small or collapsed to normalize against.
const minPalmSize = 1e-6

// Signal is the per-frame gesture output.
//
// A frame with no hands yields the zero Signal. That is an explicit reset
// to neutral, not a low-confidence reading: consumers should drive the
// field back toward rest rather than hold the previous value.
type Signal struct {
	Openness       float64 // 1 = fully spread
	Closedness     float64 // 1 = fist
	PointingActive bool
	PointingX      float64 // Normalized screen x, valid while PointingActive
	PointingY      float64 // Normalized screen y (down), valid while PointingActive
	Hands          int     // Hands reported by the detector
}

// Neutral reports whether the signal came from a frame without hands.
func (s Signal) Neutral() bool {
	return s.Hands == 0
}

// LogValue implements slog.LogValuer.
func (s Signal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("openness", s.Openness),
		slog.Float64("closedness", s.Closedness),
		slog.Bool("pointing", s.PointingActive),
		slog.Float64("x", s.PointingX),
		slog.Float64("y", s.PointingY),
		slog.Int("hands", s.Hands),
	)
}

// Params holds the interpreter's heuristic breakpoints.
type Params struct {
	ClosedOffset float64 // Normalized tip distance at which closedness starts falling from 1
	ClosedSpan   float64 // Tip distance range over which closedness falls to 0
	SpreadPalms  float64 // Index-pinky spread, in palm sizes, that maps to openness 1
	MirrorX      bool    // Mirror pointing x for a front-facing camera
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		ClosedOffset: 0.8,
		ClosedSpan:   1.5,
		SpreadPalms:  3,
		MirrorX:      true,
	}
}

// ParamsFromConfig extracts interpreter parameters from the gesture config.
func ParamsFromConfig(cfg config.GestureConfig) Params {
	return Params{
		ClosedOffset: cfg.ClosedOffset,
		ClosedSpan:   cfg.ClosedSpan,
		SpreadPalms:  cfg.SpreadPalms,
		MirrorX:      cfg.MirrorX,
	}
}

// Interpreter converts landmarks into a Signal. It keeps no state between
// calls; temporal smoothing belongs to the consumer.
type Interpreter struct {
	params Params
}

// NewInterpreter creates an interpreter with the given parameters.
func NewInterpreter(p Params) *Interpreter {
	if p.ClosedSpan <= 0 {
		p.ClosedSpan = DefaultParams().ClosedSpan
	}
	if p.SpreadPalms <= 0 {
		p.SpreadPalms = DefaultParams().SpreadPalms
	}
	return &Interpreter{params: p}
}

// Params returns the interpreter parameters.
func (in *Interpreter) Params() Params {
	return in.params
}

// Interpret reads the first hand only; additional hands are counted but
// otherwise ignored.
func (in *Interpreter) Interpret(hands []Hand) Signal {
	if len(hands) == 0 {
		return Signal{}
	}
	sig := in.interpretHand(&hands[0])
	sig.Hands = len(hands)
	return sig
}

func (in *Interpreter) interpretHand(h *Hand) Signal {
	wrist := h[Wrist]

	// Palm size normalizes distance-dependent measures
	palm := dist2(wrist, h[IndexMCP])
	if palm < minPalmSize {
		return Signal{}
	}

	var total float64
	for _, tip := range fingertips {
		total += dist3(h[tip], wrist)
	}
	reach := total / float64(len(fingertips)) / palm
	closedness := clamp01(1 - (reach-in.params.ClosedOffset)/in.params.ClosedSpan)

	spread := dist2(h[IndexTip], h[PinkyTip])
	tension := clamp01(spread / (palm * in.params.SpreadPalms))

	sig := Signal{
		Openness:   tension,
		Closedness: closedness,
	}

	if isPointing(h) {
		sig.PointingActive = true
		x := (h[IndexTip].X + h[MiddleTip].X) / 2
		if in.params.MirrorX {
			x = 1 - x
		}
		sig.PointingX = x
		sig.PointingY = (h[IndexTip].Y + h[MiddleTip].Y) / 2
	}

	return sig
}

// extended reports whether a finger tip lies farther from the wrist than
// its PIP joint in the image plane.
func extended(h *Hand, tip, pip int) bool {
	return dist2(h[tip], h[Wrist]) > dist2(h[pip], h[Wrist])
}

// isPointing detects the two-finger gesture: index and middle extended,
// ring and pinky curled. The thumb is ignored.
func isPointing(h *Hand) bool {
	return extended(h, IndexTip, IndexPIP) &&
		extended(h, MiddleTip, MiddlePIP) &&
		!extended(h, RingTip, RingPIP) &&
		!extended(h, PinkyTip, PinkyPIP)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
