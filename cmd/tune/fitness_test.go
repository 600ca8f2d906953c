package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/gesture"
	"github.com/pthm-cable/morph/landmark"
)

func fist() gesture.Hand {
	var h gesture.Hand
	h[gesture.Wrist] = gesture.Landmark{X: 0.5, Y: 0.8}
	h[gesture.IndexMCP] = gesture.Landmark{X: 0.5, Y: 0.7}
	h[gesture.ThumbTip] = gesture.Landmark{X: 0.47, Y: 0.74}
	for _, f := range [][2]int{
		{gesture.IndexPIP, gesture.IndexTip},
		{gesture.MiddlePIP, gesture.MiddleTip},
		{gesture.RingPIP, gesture.RingTip},
		{gesture.PinkyPIP, gesture.PinkyTip},
	} {
		h[f[0]] = gesture.Landmark{X: 0.5, Y: 0.6}
		h[f[1]] = gesture.Landmark{X: 0.5, Y: 0.72}
	}
	return h
}

func defaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNewFitnessEvaluatorFiltersLabels(t *testing.T) {
	cfg := defaults(t)
	pv := NewParamVector()

	recorded := []landmark.Recorded{
		{Time: 0, Label: gesture.StatusNeutral},
		{Time: 0.1},
		{Time: 0.2, Hands: []gesture.Hand{fist()}, Label: gesture.StatusClosed},
	}
	fe, err := NewFitnessEvaluator(pv, cfg.Gesture, recorded)
	if err != nil {
		t.Fatal(err)
	}
	if fe.Frames() != 2 {
		t.Errorf("Frames = %d, want 2", fe.Frames())
	}

	if _, err := NewFitnessEvaluator(pv, cfg.Gesture, []landmark.Recorded{{Time: 0}}); err == nil {
		t.Error("expected error for unlabeled recording")
	}
	if _, err := NewFitnessEvaluator(pv, cfg.Gesture, []landmark.Recorded{{Label: "Waving"}}); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestEvaluate(t *testing.T) {
	cfg := defaults(t)
	pv := NewParamVector()
	fe, err := NewFitnessEvaluator(pv, cfg.Gesture, []landmark.Recorded{
		{Time: 0, Hands: []gesture.Hand{fist()}, Label: gesture.StatusClosed},
		{Time: 0.1, Label: gesture.StatusNeutral},
	})
	if err != nil {
		t.Fatal(err)
	}

	if f := fe.Evaluate(pv.Values(cfg)); f != 0 || fe.LastAccuracy() != 1 {
		t.Errorf("defaults: fitness %v accuracy %v, want 0 and 1", f, fe.LastAccuracy())
	}

	// A low reach offset with a narrow span reads the fist as barely closed
	bad := pv.Values(cfg)
	bad[0], bad[1] = 0.3, 0.5
	f := fe.Evaluate(bad)
	if fe.LastAccuracy() != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", fe.LastAccuracy())
	}
	if f <= 0.5 {
		t.Errorf("fitness = %v, want error rate plus a margin penalty", f)
	}
}

func TestViolation(t *testing.T) {
	th := gesture.Thresholds{Closed: 0.8, Tension: 0.5}
	tests := []struct {
		name string
		sig  gesture.Signal
		want string
		v    float64
	}{
		{"closed satisfied", gesture.Signal{Closedness: 0.9}, gesture.StatusClosed, 0},
		{"closed short", gesture.Signal{Closedness: 0.6}, gesture.StatusClosed, 0.2},
		{"tension short", gesture.Signal{Openness: 0.3}, gesture.StatusTension, 0.2},
		{"neutral too open", gesture.Signal{Openness: 0.7}, gesture.StatusNeutral, 0.2},
		{"pointing ignored", gesture.Signal{PointingActive: true}, gesture.StatusClosed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := violation(tt.sig, th, tt.want); math.Abs(got-tt.v) > 1e-9 {
				t.Errorf("violation = %v, want %v", got, tt.v)
			}
		})
	}
}

func TestParamVector(t *testing.T) {
	cfg := defaults(t)
	pv := NewParamVector()

	raw := pv.Values(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	out := []float64{-1, 10, 3, 0.7, 0.6}
	pv.Apply(cfg, out)
	if cfg.Gesture.ClosedOffset != 0.3 || cfg.Gesture.ClosedSpan != 3.0 {
		t.Errorf("Apply did not clamp: offset %v span %v", cfg.Gesture.ClosedOffset, cfg.Gesture.ClosedSpan)
	}
	if cfg.Status.ClosedThreshold != 0.7 || cfg.Status.TensionThreshold != 0.6 {
		t.Errorf("status thresholds = %+v", cfg.Status)
	}
}
