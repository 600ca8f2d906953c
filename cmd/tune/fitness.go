package main

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/gesture"
	"github.com/pthm-cable/morph/landmark"
)

// marginWeight scales the hinge term that gives CMA-ES a gradient between
// label flips.
const marginWeight = 0.25

// labeledFrame is a recorded frame with a known status.
type labeledFrame struct {
	hands []gesture.Hand
	want  string
}

// FitnessEvaluator scores parameter vectors against labeled frames.
type FitnessEvaluator struct {
	params *ParamVector
	base   config.GestureConfig
	frames []labeledFrame

	lastAccuracy float64
}

// NewFitnessEvaluator keeps only frames that carry a known status label.
func NewFitnessEvaluator(params *ParamVector, base config.GestureConfig, recorded []landmark.Recorded) (*FitnessEvaluator, error) {
	fe := &FitnessEvaluator{params: params, base: base}
	for _, r := range recorded {
		switch r.Label {
		case gesture.StatusMoving, gesture.StatusClosed, gesture.StatusTension, gesture.StatusNeutral:
			fe.frames = append(fe.frames, labeledFrame{hands: r.Hands, want: r.Label})
		case "":
		default:
			return nil, fmt.Errorf("frame at %.3fs: unknown label %q", r.Time, r.Label)
		}
	}
	if len(fe.frames) == 0 {
		return nil, errors.New("recording has no labeled frames")
	}
	return fe, nil
}

// Frames returns the number of labeled frames.
func (fe *FitnessEvaluator) Frames() int {
	return len(fe.frames)
}

// LastAccuracy returns the fraction of frames labeled correctly in the most
// recent Evaluate call.
func (fe *FitnessEvaluator) LastAccuracy() float64 {
	return fe.lastAccuracy
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Fitness is the error rate plus a weighted mean threshold violation.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	interp, th := fe.params.Build(fe.base, raw)

	wrong := 0
	var margin float64
	for _, f := range fe.frames {
		sig := interp.Interpret(f.hands)
		if gesture.Status(sig, th) != f.want {
			wrong++
		}
		margin += violation(sig, th, f.want)
	}

	n := float64(len(fe.frames))
	fe.lastAccuracy = 1 - float64(wrong)/n
	return float64(wrong)/n + marginWeight*margin/n
}

// violation measures how far sig is from the threshold side its label needs.
// Pointing is decided by finger geometry, not thresholds, so Moving has no
// margin.
func violation(sig gesture.Signal, th gesture.Thresholds, want string) float64 {
	if sig.PointingActive {
		return 0
	}
	switch want {
	case gesture.StatusClosed:
		return max(0, th.Closed-sig.Closedness)
	case gesture.StatusTension:
		return max(0, sig.Closedness-th.Closed) + max(0, th.Tension-sig.Openness)
	case gesture.StatusNeutral:
		return max(0, sig.Closedness-th.Closed) + max(0, sig.Openness-th.Tension)
	}
	return 0
}
