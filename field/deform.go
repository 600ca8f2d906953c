package field

import (
	"github.com/chewxy/math32"
	"github.com/pthm-cable/morph/config"
)

// Deform holds the constants of the per-vertex deformation the render
// backend applies on top of the live positions.
type Deform struct {
	ExpansionBase   float32 // Push distance per unit expansion at seed 0
	ExpansionRandom float32 // Extra push distance at seed 1
	Jitter          float32 // Wobble amplitude
	SizeReference   float32 // Point size numerator for depth attenuation
}

// DefaultDeform returns the tuned defaults.
func DefaultDeform() Deform {
	return Deform{
		ExpansionBase:   30,
		ExpansionRandom: 40,
		Jitter:          0.1,
		SizeReference:   300,
	}
}

// DeformFromConfig extracts the deformation constants from config.
func DeformFromConfig(cfg config.RenderConfig) Deform {
	return Deform{
		ExpansionBase:   float32(cfg.ExpansionBase),
		ExpansionRandom: float32(cfg.ExpansionRandom),
		Jitter:          float32(cfg.Jitter),
		SizeReference:   float32(cfg.SizeReference),
	}
}

// RenderPositions writes the displayed world position of every point into
// dst and returns the number of points written. dst should hold 3*Count()
// values; a shorter dst receives a prefix.
//
// Each point is mixed toward its target by Blend, pushed outward along its
// direction from the origin by Expansion, wobbled by a seed-phased jitter,
// then scaled and offset.
func (f *Field) RenderPositions(dst []float32) int {
	p := f.params
	d := f.deform
	t := float32(p.Time)

	n := min(len(dst)/3, f.n)
	for i := 0; i < n; i++ {
		j := i * 3
		seed := f.seeds[i]

		x := f.current[j]
		y := f.current[j+1]
		z := f.current[j+2]
		if p.Blend != 0 {
			x += (f.target[j] - x) * p.Blend
			y += (f.target[j+1] - y) * p.Blend
			z += (f.target[j+2] - z) * p.Blend
		}

		if p.Expansion != 0 {
			if l := math32.Sqrt(x*x + y*y + z*z); l > 0 {
				push := p.Expansion * (d.ExpansionBase + seed*d.ExpansionRandom) / l
				x += x * push
				y += y * push
				z += z * push
			}
		}

		phase := seed * 10
		x += math32.Sin(t*2+phase) * d.Jitter
		y += math32.Cos(t*1.5+phase) * d.Jitter

		dst[j] = x*p.Scale + p.OffsetX
		dst[j+1] = y*p.Scale + p.OffsetY
		dst[j+2] = z * p.Scale
	}
	return n
}

// PointSizeAt returns the on-screen size of point i seen at the given
// camera depth. Nearer points draw larger.
func (f *Field) PointSizeAt(i int, depth float32) float32 {
	if depth <= 0 {
		depth = 1e-3
	}
	return f.params.PointSize * (f.deform.SizeReference / depth) * (0.8 + f.seeds[i]*0.5)
}
