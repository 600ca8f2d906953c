// Package shapes generates target point clouds for the particle field.
//
// Every generator writes exactly three coordinates per point into a flat
// buffer (x0, y0, z0, x1, y1, z1, ...) and scales its output by the base
// scale. Generators never leave entries unset: degenerate input falls back
// to a uniform random cloud.
package shapes

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownKind is returned by ParseKind for unrecognized shape names.
var ErrUnknownKind = errors.New("unknown shape kind")

// Kind identifies a shape generator.
type Kind uint8

const (
	Random Kind = iota
	Heart
	Flower
	Saturn
	Buddha
	Fireworks
	Text
)

var kindNames = [...]string{
	Random:    "random",
	Heart:     "heart",
	Flower:    "flower",
	Saturn:    "saturn",
	Buddha:    "buddha",
	Fireworks: "fireworks",
	Text:      "text",
}

// String returns the lowercase shape name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind converts a shape name to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return Random, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns the template shapes in panel order.
func Kinds() []Kind {
	return []Kind{Heart, Flower, Saturn, Buddha, Fireworks}
}

// Spec selects a shape. Text is only read when Kind is Text.
type Spec struct {
	Kind Kind
	Text string
}

// String returns a short description for logs.
func (s Spec) String() string {
	if s.Kind == Text {
		return fmt.Sprintf("text(%q)", s.Text)
	}
	return s.Kind.String()
}

// Shape constants. Units are world units before base scaling.
const (
	randomHalfExtent = 25.0

	heartXYScale    = 0.5
	heartDepth      = 10.0
	flowerRadius    = 10.0
	flowerPetals    = 5.0
	flowerPetalAmp  = 0.5
	saturnSphereR   = 8.0
	saturnSphere    = 0.7 // Fraction of points on the planet
	saturnRingInner = 12.0
	saturnRingWidth = 10.0
	saturnRingThick = 0.5
	saturnTilt      = 0.4
	buddhaHeadR     = 3.0
	buddhaHeadY     = 8.0
	buddhaHead      = 0.2 // Cumulative draw thresholds
	buddhaBody      = 0.6
	fireworksRadius = 20.0

	textSpanX = 40.0
	textSpanY = 20.0
	textDepth = 2.0
)

// Generator fills target buffers. It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	raster Rasterizer
}

// NewGenerator creates a generator drawing from rng. raster may be nil, in
// which case text shapes fall back to random fill.
func NewGenerator(rng *rand.Rand, raster Rasterizer) *Generator {
	return &Generator{rng: rng, raster: raster}
}

// Generate allocates and fills a buffer of 3*count coordinates.
func (g *Generator) Generate(spec Spec, count int, baseScale float32) []float32 {
	if count < 0 {
		count = 0
	}
	dst := make([]float32, count*3)
	g.Fill(dst, spec, baseScale)
	return dst
}

// Fill overwrites dst with the shape. len(dst) must be a multiple of 3.
func (g *Generator) Fill(dst []float32, spec Spec, baseScale float32) {
	s := float64(baseScale)
	switch spec.Kind {
	case Heart:
		g.heart(dst, s)
	case Flower:
		g.flower(dst, s)
	case Saturn:
		g.saturn(dst, s)
	case Buddha:
		g.buddha(dst, s)
	case Fireworks:
		g.fireworks(dst, s)
	case Text:
		g.text(dst, spec.Text, s)
	default:
		g.random(dst, s)
	}
}

// uniform returns a value in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// sphereDir returns a uniformly distributed unit vector.
// The polar angle uses the inverse CDF so points do not bunch at the poles.
func (g *Generator) sphereDir() r3.Vec {
	theta := g.rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*g.rng.Float64() - 1)
	return spherical(1, theta, phi)
}

func spherical(r, theta, phi float64) r3.Vec {
	return r3.Vec{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Sin(phi) * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

func put(dst []float32, i int, v r3.Vec, scale float64) {
	i3 := i * 3
	dst[i3] = float32(v.X * scale)
	dst[i3+1] = float32(v.Y * scale)
	dst[i3+2] = float32(v.Z * scale)
}

func (g *Generator) random(dst []float32, scale float64) {
	for i := range dst {
		dst[i] = float32(g.uniform(-randomHalfExtent, randomHalfExtent) * scale)
	}
}

func (g *Generator) heart(dst []float32, scale float64) {
	n := len(dst) / 3
	for i := 0; i < n; i++ {
		phi := g.rng.Float64() * 2 * math.Pi
		sin := math.Sin(phi)
		v := r3.Vec{
			X: 16 * sin * sin * sin * heartXYScale,
			Y: (13*math.Cos(phi) - 5*math.Cos(2*phi) - 2*math.Cos(3*phi) - math.Cos(4*phi)) * heartXYScale,
			Z: g.uniform(-heartDepth/2, heartDepth/2),
		}
		put(dst, i, v, scale)
	}
}

func (g *Generator) flower(dst []float32, scale float64) {
	n := len(dst) / 3
	for i := 0; i < n; i++ {
		u := g.rng.Float64() * 2 * math.Pi
		v := g.rng.Float64() * math.Pi
		r := flowerRadius * (1 + flowerPetalAmp*math.Sin(flowerPetals*u)*math.Sin(v))
		put(dst, i, spherical(r, u, v), scale)
	}
}

func (g *Generator) saturn(dst []float32, scale float64) {
	n := len(dst) / 3
	sphereCount := int(float64(n) * saturnSphere)
	tilt := r3.NewRotation(saturnTilt, r3.Vec{X: 1})

	for i := 0; i < sphereCount; i++ {
		put(dst, i, r3.Scale(saturnSphereR, g.sphereDir()), scale)
	}

	for i := sphereCount; i < n; i++ {
		angle := g.rng.Float64() * 2 * math.Pi
		dist := saturnRingInner + g.rng.Float64()*saturnRingWidth
		ring := r3.Vec{
			X: dist * math.Cos(angle),
			Y: g.uniform(-saturnRingThick/2, saturnRingThick/2),
			Z: dist * math.Sin(angle),
		}
		put(dst, i, tilt.Rotate(ring), scale)
	}
}

func (g *Generator) buddha(dst []float32, scale float64) {
	n := len(dst) / 3
	for i := 0; i < n; i++ {
		part := g.rng.Float64()
		var v r3.Vec
		switch {
		case part < buddhaHead:
			v = r3.Add(r3.Scale(buddhaHeadR, g.sphereDir()), r3.Vec{Y: buddhaHeadY})
		case part < buddhaBody:
			// Torso tapers from the base toward the shoulders
			h := g.uniform(-5, 5)
			r := 4 + (5-math.Abs(h))*0.5
			theta := g.rng.Float64() * 2 * math.Pi
			v = r3.Vec{X: r * math.Cos(theta), Y: h, Z: r * math.Sin(theta)}
		default:
			r := g.uniform(6, 12)
			theta := g.rng.Float64() * 2 * math.Pi
			v = r3.Vec{X: r * math.Cos(theta), Y: g.uniform(-6, -4), Z: r * math.Sin(theta)}
		}
		put(dst, i, v, scale)
	}
}

func (g *Generator) fireworks(dst []float32, scale float64) {
	n := len(dst) / 3
	for i := 0; i < n; i++ {
		r := g.rng.Float64() * fireworksRadius
		dir := g.sphereDir()
		// Streak pulls points toward the core, leaving sparse trails
		streak := g.rng.Float64()
		put(dst, i, r3.Scale(r*streak, dir), scale)
	}
}

func (g *Generator) text(dst []float32, text string, scale float64) {
	if g.raster == nil {
		g.random(dst, scale)
		return
	}
	pixels, w, h := g.raster.Rasterize(text)
	if len(pixels) == 0 || w <= 0 || h <= 0 {
		g.random(dst, scale)
		return
	}

	n := len(dst) / 3
	for i := 0; i < n; i++ {
		p := pixels[g.rng.Intn(len(pixels))]
		// Raster Y grows downward, world Y grows upward
		v := r3.Vec{
			X: (float64(p.X)/float64(w) - 0.5) * textSpanX,
			Y: -(float64(p.Y)/float64(h) - 0.5) * textSpanY,
			Z: g.uniform(-textDepth/2, textDepth/2),
		}
		put(dst, i, v, scale)
	}
}
