// Package renderer draws the particle field with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morph/camera"
	"github.com/pthm-cable/morph/field"
)

// spriteSize is the resolution of the soft dot texture.
const spriteSize = 32

// pointAlpha is the opacity of a single point before additive blending.
const pointAlpha = 204

// PointCloud renders every point as a soft additive sprite sized by depth.
// Points smaller than a pixel and a half are drawn as single pixels.
type PointCloud struct {
	sprite    rl.Texture2D
	spriteSrc rl.Rectangle

	// Displayed positions, refreshed each frame from the field
	positions []float32

	// Points drawn in the last frame
	drawn int

	// Screen pixels per point-size unit (display DPI scale)
	PixelRatio float32

	initialized bool
}

// NewPointCloud creates a renderer for n points.
func NewPointCloud(n int) *PointCloud {
	return &PointCloud{positions: make([]float32, n*3), PixelRatio: 1}
}

// Init creates GPU resources (must be called after the raylib window is created).
func (pc *PointCloud) Init() {
	if pc.initialized {
		return
	}
	img := rl.GenImageGradientRadial(spriteSize, spriteSize, 0.3,
		color.RGBA{R: 255, G: 255, B: 255, A: 255},
		color.RGBA{R: 255, G: 255, B: 255, A: 0})
	pc.sprite = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(pc.sprite, rl.FilterBilinear)
	pc.spriteSrc = rl.Rectangle{Width: spriteSize, Height: spriteSize}
	pc.initialized = true
}

// Draw renders the field as seen by cam.
func (pc *PointCloud) Draw(f *field.Field, cam *camera.Camera) {
	if !pc.initialized {
		return
	}

	n := f.RenderPositions(pc.positions)
	tint := f.Params().Color
	tint.A = pointAlpha

	pc.drawn = 0
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < n; i++ {
		j := i * 3
		sx, sy, depth, ok := cam.Project(pc.positions[j], pc.positions[j+1], pc.positions[j+2])
		if !ok {
			continue
		}
		size := f.PointSizeAt(i, depth) * pc.PixelRatio
		if !cam.IsVisible(sx, sy, size) {
			continue
		}
		if size < 1.5 {
			rl.DrawPixelV(rl.Vector2{X: sx, Y: sy}, tint)
		} else {
			dst := rl.Rectangle{X: sx - size/2, Y: sy - size/2, Width: size, Height: size}
			rl.DrawTexturePro(pc.sprite, pc.spriteSrc, dst, rl.Vector2{}, 0, tint)
		}
		pc.drawn++
	}
	rl.EndBlendMode()
}

// Drawn returns the number of points drawn in the last frame.
func (pc *PointCloud) Drawn() int {
	return pc.drawn
}

// Unload releases GPU resources.
func (pc *PointCloud) Unload() {
	if pc.initialized {
		rl.UnloadTexture(pc.sprite)
		pc.initialized = false
	}
}
