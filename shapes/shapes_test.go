package shapes

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// stubRaster returns a fixed pixel set.
type stubRaster struct {
	pixels []Pixel
	w, h   int
}

func (s stubRaster) Rasterize(string) ([]Pixel, int, int) {
	return s.pixels, s.w, s.h
}

func newTestGenerator(raster Rasterizer) *Generator {
	return NewGenerator(rand.New(rand.NewSource(42)), raster)
}

func allKinds() []Kind {
	return []Kind{Random, Heart, Flower, Saturn, Buddha, Fireworks, Text}
}

func TestGenerateLengthAndFinite(t *testing.T) {
	g := newTestGenerator(stubRaster{pixels: []Pixel{{X: 10, Y: 10}}, w: 200, h: 100})

	for _, kind := range allKinds() {
		for _, n := range []int{1, 2, 3, 7, 1000} {
			out := g.Generate(Spec{Kind: kind, Text: "HI"}, n, 1.0)
			if len(out) != 3*n {
				t.Fatalf("%s n=%d: expected %d values, got %d", kind, n, 3*n, len(out))
			}
			for i, v := range out {
				f := float64(v)
				if math.IsNaN(f) || math.IsInf(f, 0) {
					t.Fatalf("%s n=%d: value %d not finite: %v", kind, n, i, v)
				}
			}
		}
	}
}

func TestFillOverwritesEveryEntry(t *testing.T) {
	g := newTestGenerator(nil)
	sentinel := float32(math.NaN())

	for _, kind := range allKinds() {
		dst := make([]float32, 3*500)
		for i := range dst {
			dst[i] = sentinel
		}
		g.Fill(dst, Spec{Kind: kind}, 1.0)
		for i, v := range dst {
			if v != v {
				t.Fatalf("%s: entry %d left unset", kind, i)
			}
		}
	}
}

func TestHeartBounds(t *testing.T) {
	g := newTestGenerator(nil)
	out := g.Generate(Spec{Kind: Heart}, 40000, 1.0)

	for i := 0; i < len(out); i += 3 {
		x, y, z := out[i], out[i+1], out[i+2]
		if x < -8 || x > 8 {
			t.Fatalf("point %d: x=%v outside [-8,8]", i/3, x)
		}
		if y < -8.5 || y > 10 {
			t.Fatalf("point %d: y=%v outside [-8.5,10]", i/3, y)
		}
		if z < -5 || z > 5 {
			t.Fatalf("point %d: z=%v outside [-5,5]", i/3, z)
		}
	}
}

func TestRandomBoundsScaled(t *testing.T) {
	g := newTestGenerator(nil)
	out := g.Generate(Spec{Kind: Random}, 5000, 0.5)

	for i, v := range out {
		if v < -12.5 || v > 12.5 {
			t.Fatalf("value %d: %v outside [-12.5,12.5]", i, v)
		}
	}
}

func TestFlowerRadius(t *testing.T) {
	g := newTestGenerator(nil)
	out := g.Generate(Spec{Kind: Flower}, 5000, 1.0)

	for i := 0; i < len(out); i += 3 {
		r := math.Sqrt(float64(out[i]*out[i] + out[i+1]*out[i+1] + out[i+2]*out[i+2]))
		if r < 5-1e-3 || r > 15+1e-3 {
			t.Fatalf("point %d: radius %v outside petal range [5,15]", i/3, r)
		}
	}
}

func TestSaturnPartition(t *testing.T) {
	g := newTestGenerator(nil)
	n := 1000
	out := g.Generate(Spec{Kind: Saturn}, n, 1.0)
	sphereCount := int(float64(n) * 0.7)

	for i := 0; i < n; i++ {
		x, y, z := float64(out[i*3]), float64(out[i*3+1]), float64(out[i*3+2])
		r := math.Sqrt(x*x + y*y + z*z)
		if i < sphereCount {
			if math.Abs(r-8) > 1e-3 {
				t.Fatalf("sphere point %d: radius %v, want 8", i, r)
			}
			continue
		}
		// Undo the tilt about X and check the ring plane
		ry := y*math.Cos(-0.4) - z*math.Sin(-0.4)
		rz := y*math.Sin(-0.4) + z*math.Cos(-0.4)
		if math.Abs(ry) > 0.25+1e-3 {
			t.Fatalf("ring point %d: vertical offset %v exceeds 0.25", i, ry)
		}
		planar := math.Sqrt(x*x + rz*rz)
		if planar < 12-1e-3 || planar > 22+1e-3 {
			t.Fatalf("ring point %d: ring distance %v outside [12,22]", i, planar)
		}
	}
}

func TestBuddhaBounds(t *testing.T) {
	g := newTestGenerator(nil)
	out := g.Generate(Spec{Kind: Buddha}, 5000, 1.0)

	for i := 0; i < len(out); i += 3 {
		y := out[i+1]
		if y < -6 || y > 11 {
			t.Fatalf("point %d: y=%v outside figure height", i/3, y)
		}
		planar := math.Hypot(float64(out[i]), float64(out[i+2]))
		if planar > 12+1e-3 {
			t.Fatalf("point %d: planar radius %v exceeds base", i/3, planar)
		}
	}
}

func TestFireworksWithinSphere(t *testing.T) {
	g := newTestGenerator(nil)
	out := g.Generate(Spec{Kind: Fireworks}, 5000, 2.0)

	for i := 0; i < len(out); i += 3 {
		r := math.Sqrt(float64(out[i]*out[i] + out[i+1]*out[i+1] + out[i+2]*out[i+2]))
		if r > 40+1e-3 {
			t.Fatalf("point %d: radius %v exceeds scaled sphere", i/3, r)
		}
	}
}

func TestTextMapsPixels(t *testing.T) {
	// Single pixel at the top-left corner of a 200x100 canvas
	g := newTestGenerator(stubRaster{pixels: []Pixel{{X: 0, Y: 0}}, w: 200, h: 100})
	out := g.Generate(Spec{Kind: Text, Text: "x"}, 100, 1.0)

	for i := 0; i < len(out); i += 3 {
		if out[i] != -20 || out[i+1] != 10 {
			t.Fatalf("point %d: got (%v,%v), want (-20,10)", i/3, out[i], out[i+1])
		}
		if out[i+2] < -1 || out[i+2] > 1 {
			t.Fatalf("point %d: depth %v outside slab", i/3, out[i+2])
		}
	}
}

func TestTextFallsBackWithoutPixels(t *testing.T) {
	g := newTestGenerator(stubRaster{w: 200, h: 100})
	out := g.Generate(Spec{Kind: Text, Text: "HI"}, 2000, 1.0)

	if len(out) != 6000 {
		t.Fatalf("expected 6000 values, got %d", len(out))
	}
	// Random fill spans the full cube, far beyond the text slab depth
	var maxAbsZ float32
	for i := 2; i < len(out); i += 3 {
		if z := out[i]; z > maxAbsZ {
			maxAbsZ = z
		} else if -z > maxAbsZ {
			maxAbsZ = -z
		}
	}
	if maxAbsZ < 5 {
		t.Errorf("expected random fill depth, max |z| = %v", maxAbsZ)
	}
}

func TestTextWithoutRasterizer(t *testing.T) {
	g := newTestGenerator(nil)
	out := g.Generate(Spec{Kind: Text, Text: "HI"}, 10, 1.0)
	if len(out) != 30 {
		t.Fatalf("expected 30 values, got %d", len(out))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(7)), nil).Generate(Spec{Kind: Saturn}, 100, 1.0)
	b := NewGenerator(rand.New(rand.NewSource(7)), nil).Generate(Spec{Kind: Saturn}, 100, 1.0)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("value %d differs for same seed: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"heart", Heart},
		{"Flower", Flower},
		{" saturn ", Saturn},
		{"buddha", Buddha},
		{"fireworks", Fireworks},
		{"text", Text},
		{"random", Random},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.String() != kindNames[tt.want] {
			t.Errorf("String() = %q", got.String())
		}
	}

	if _, err := ParseKind("cube"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
