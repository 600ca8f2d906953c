package main

import (
	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/gesture"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all tunable parameters. Order matches
// Values and Apply.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of interpreter and status
// parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "closed_offset", Path: "gesture.closed_offset", Min: 0.3, Max: 1.5},
			{Name: "closed_span", Path: "gesture.closed_span", Min: 0.5, Max: 3.0},
			{Name: "spread_palms", Path: "gesture.spread_palms", Min: 1.0, Max: 5.0},
			{Name: "closed_threshold", Path: "status.closed_threshold", Min: 0.4, Max: 0.95},
			{Name: "tension_threshold", Path: "status.tension_threshold", Min: 0.2, Max: 0.9},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Values reads the current parameter values from cfg.
func (pv *ParamVector) Values(cfg *config.Config) []float64 {
	return []float64{
		cfg.Gesture.ClosedOffset,
		cfg.Gesture.ClosedSpan,
		cfg.Gesture.SpreadPalms,
		cfg.Status.ClosedThreshold,
		cfg.Status.TensionThreshold,
	}
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply writes clamped parameter values into cfg.
func (pv *ParamVector) Apply(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Gesture.ClosedOffset = c[0]
	cfg.Gesture.ClosedSpan = c[1]
	cfg.Gesture.SpreadPalms = c[2]
	cfg.Status.ClosedThreshold = c[3]
	cfg.Status.TensionThreshold = c[4]
}

// Build returns the interpreter and thresholds for a parameter vector.
func (pv *ParamVector) Build(base config.GestureConfig, values []float64) (*gesture.Interpreter, gesture.Thresholds) {
	c := pv.Clamp(values)
	p := gesture.ParamsFromConfig(base)
	p.ClosedOffset = c[0]
	p.ClosedSpan = c[1]
	p.SpreadPalms = c[2]
	return gesture.NewInterpreter(p), gesture.Thresholds{Closed: c[3], Tension: c[4]}
}
