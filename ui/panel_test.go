package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/shapes"
)

func TestColorLatch(t *testing.T) {
	var l colorLatch
	white := rl.Color{R: 255, G: 255, B: 255, A: 255}

	if got := l.show(white); got != white {
		t.Fatalf("show = %v, want %v", got, white)
	}

	// An HSV round trip that lands one step off the field color is reported
	// once, then stays quiet while the picker keeps returning it.
	drift := rl.Color{R: 254, G: 255, B: 255, A: 255}
	if _, ok := l.pick(drift); !ok {
		t.Error("first differing pick should be reported")
	}
	for range 3 {
		if got := l.show(white); got != drift {
			t.Errorf("show = %v, want the last picked %v", got, drift)
		}
		if _, ok := l.pick(drift); ok {
			t.Error("repeated pick reported as a change")
		}
	}

	red := rl.Color{R: 255, A: 0}
	col, ok := l.pick(red)
	if !ok || col.A != 255 {
		t.Errorf("pick(red) = %v, %v; want opaque red reported", col, ok)
	}
}

func TestShapeLabel(t *testing.T) {
	if got := shapeLabel(shapes.Heart); got != "Heart" {
		t.Errorf("shapeLabel = %q, want Heart", got)
	}
}
