// Package field holds the particle field: the live positions, the target
// shape they chase, per-point seeds, and the smoothed render parameters
// driven by gesture signals.
package field

import (
	"image/color"
	"math/rand"

	"github.com/pthm-cable/morph/config"
	"github.com/pthm-cable/morph/gesture"
	"github.com/pthm-cable/morph/shapes"
	"gonum.org/v1/gonum/blas/blas32"
)

// Params are the render parameters read by the backend each frame.
type Params struct {
	Time      float64    // Seconds since start, set by Advance
	Blend     float32    // Extra current/target mix in the backend; 0 by default
	PointSize float32    // Base point size
	Expansion float32    // Smoothed, in [0,1]
	Color     color.RGBA // Point color
	Scale     float32    // Smoothed uniform scale
	OffsetX   float32    // Smoothed planar offset
	OffsetY   float32
}

// Tuning holds the smoothing and dead-zone constants applied to gesture
// signals, plus the blend rate.
type Tuning struct {
	MixRate           float32
	ExpansionDeadzone float32
	ExpansionRescale  float32
	ClosedDeadzone    float32
	ShrinkFactor      float32
	Smoothing         float32
	OffsetFollow      float32
	OffsetReturn      float32
	OffsetSpanX       float32
	OffsetSpanY       float32
}

// DefaultTuning returns the tuned defaults.
func DefaultTuning() Tuning {
	return Tuning{
		MixRate:           0.05,
		ExpansionDeadzone: 0.2,
		ExpansionRescale:  1.25,
		ClosedDeadzone:    0.3,
		ShrinkFactor:      0.5,
		Smoothing:         0.1,
		OffsetFollow:      0.1,
		OffsetReturn:      0.05,
		OffsetSpanX:       40,
		OffsetSpanY:       30,
	}
}

// TuningFromConfig builds Tuning from the loaded configuration.
func TuningFromConfig(cfg *config.Config) Tuning {
	g := cfg.Gesture
	return Tuning{
		MixRate:           cfg.Derived.MixRate32,
		ExpansionDeadzone: float32(g.ExpansionDeadzone),
		ExpansionRescale:  float32(g.ExpansionRescale),
		ClosedDeadzone:    float32(g.ClosedDeadzone),
		ShrinkFactor:      float32(g.ShrinkFactor),
		Smoothing:         float32(g.Smoothing),
		OffsetFollow:      float32(g.OffsetFollow),
		OffsetReturn:      float32(g.OffsetReturn),
		OffsetSpanX:       float32(g.OffsetSpanX),
		OffsetSpanY:       float32(g.OffsetSpanY),
	}
}

// Targets are the values the smoothed parameters are currently chasing.
type Targets struct {
	Expansion float32
	Scale     float32
	OffsetX   float32
	OffsetY   float32
}

// Field owns N points stored column-wise in flat buffers. Index i occupies
// [3i, 3i+3) in current and target and seeds[i]. The point count and seeds
// are fixed for the lifetime of the field. Not safe for concurrent use.
type Field struct {
	n         int
	baseScale float32

	current []float32
	target  []float32
	seeds   []float32

	// blas views over current and target
	cur blas32.Vector
	tgt blas32.Vector

	gen     *shapes.Generator
	tuning  Tuning
	deform  Deform
	params  Params
	targets Targets
	shape   shapes.Spec
}

// New creates a field of n points scattered in a random cloud with both
// current and target equal. Seeds are drawn from rng; shapes come from gen.
func New(n int, baseScale float32, tuning Tuning, gen *shapes.Generator, rng *rand.Rand) *Field {
	if n < 1 {
		n = 1
	}
	f := &Field{
		n:         n,
		baseScale: baseScale,
		current:   make([]float32, n*3),
		target:    make([]float32, n*3),
		seeds:     make([]float32, n),
		gen:       gen,
		tuning:    tuning,
		deform:    DefaultDeform(),
		params: Params{
			PointSize: 0.1,
			Color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Scale:     1,
		},
		targets: Targets{Scale: 1},
	}
	f.cur = blas32.Vector{N: len(f.current), Inc: 1, Data: f.current}
	f.tgt = blas32.Vector{N: len(f.target), Inc: 1, Data: f.target}

	for i := range f.seeds {
		f.seeds[i] = rng.Float32()
	}
	f.Reset()
	return f
}

// Count returns the number of points.
func (f *Field) Count() int { return f.n }

// BaseScale returns the scale shapes are generated at.
func (f *Field) BaseScale() float32 { return f.baseScale }

// Current returns the live position buffer. Callers must not modify it.
func (f *Field) Current() []float32 { return f.current }

// Target returns the target buffer. Callers must not modify it.
func (f *Field) Target() []float32 { return f.target }

// Seeds returns the per-point seeds in [0,1). Callers must not modify it.
func (f *Field) Seeds() []float32 { return f.seeds }

// Params returns the current render parameters.
func (f *Field) Params() Params { return f.params }

// Targets returns what the smoothed parameters are approaching.
func (f *Field) Targets() Targets { return f.targets }

// Shape returns the last shape requested with SetShape.
func (f *Field) Shape() shapes.Spec { return f.shape }

// Tuning returns the field's tuning constants.
func (f *Field) Tuning() Tuning { return f.tuning }

// SetDeform replaces the render deformation constants.
func (f *Field) SetDeform(d Deform) { f.deform = d }

// Reset scatters current and target into the initial random cloud.
func (f *Field) Reset() {
	f.gen.Fill(f.current, shapes.Spec{Kind: shapes.Random}, f.baseScale)
	copy(f.target, f.current)
	f.shape = shapes.Spec{Kind: shapes.Random}
}

// SetShape replaces the target buffer. Current positions are untouched and
// converge over subsequent Advance calls.
func (f *Field) SetShape(spec shapes.Spec) {
	f.gen.Fill(f.target, spec, f.baseScale)
	f.shape = spec
}

// SetColor sets the point color.
func (f *Field) SetColor(c color.RGBA) {
	f.params.Color = c
}

// SetPointSize sets the base point size.
func (f *Field) SetPointSize(size float32) {
	if size > 0 {
		f.params.PointSize = size
	}
}

// Advance records the frame time and moves every point a fixed fraction of
// the remaining distance toward its target. The rate is per call, so
// convergence speed follows the display rate.
func (f *Field) Advance(time float64) {
	f.params.Time = time
	r := f.tuning.MixRate
	// current = (1-r)*current + r*target
	blas32.Scal(1-r, f.cur)
	blas32.Axpy(r, f.tgt, f.cur)
}

// ApplyGestureSignal moves expansion, scale and offset one smoothing step
// toward the values implied by sig. A zero signal relaxes everything back
// to rest.
func (f *Field) ApplyGestureSignal(sig gesture.Signal) {
	t := f.tuning

	expansion := clamp01((float32(sig.Openness) - t.ExpansionDeadzone) * t.ExpansionRescale)
	closed := clamp01(float32(sig.Closedness) - t.ClosedDeadzone)
	if sig.PointingActive {
		// Pointing translates only
		expansion = 0
		closed = 0
	}
	f.targets.Expansion = expansion
	f.targets.Scale = 1 - closed*t.ShrinkFactor

	f.params.Expansion += (f.targets.Expansion - f.params.Expansion) * t.Smoothing
	f.params.Scale += (f.targets.Scale - f.params.Scale) * t.Smoothing

	follow := t.OffsetReturn
	f.targets.OffsetX, f.targets.OffsetY = 0, 0
	if sig.PointingActive {
		follow = t.OffsetFollow
		f.targets.OffsetX = (float32(sig.PointingX) - 0.5) * t.OffsetSpanX
		f.targets.OffsetY = -(float32(sig.PointingY) - 0.5) * t.OffsetSpanY
	}
	f.params.OffsetX += (f.targets.OffsetX - f.params.OffsetX) * follow
	f.params.OffsetY += (f.targets.OffsetY - f.params.OffsetY) * follow
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
