package shapes

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Text canvas settings.
const (
	CanvasWidth   = 200
	CanvasHeight  = 100
	GlyphSize     = 60
	pixelLitLevel = 128 // Coverage above this counts as foreground
)

// Pixel is a foreground pixel in raster coordinates (Y down).
type Pixel struct {
	X, Y int
}

// Rasterizer renders text to an offscreen bitmap and reports its lit pixels
// along with the canvas size.
type Rasterizer interface {
	Rasterize(text string) (pixels []Pixel, width, height int)
}

// GlyphRasterizer draws bold centered text with the Go Bold face.
type GlyphRasterizer struct {
	font   *sfnt.Font
	face   font.Face
	buf    sfnt.Buffer
	width  int
	height int
}

// NewGlyphRasterizer parses the embedded bold face.
func NewGlyphRasterizer() (*GlyphRasterizer, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold face: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    GlyphSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	return &GlyphRasterizer{
		font:   f,
		face:   face,
		width:  CanvasWidth,
		height: CanvasHeight,
	}, nil
}

// Rasterize draws text centered on the canvas. Runes the face has no glyph
// for are dropped, so unsupported text yields no pixels.
func (r *GlyphRasterizer) Rasterize(text string) ([]Pixel, int, int) {
	s := r.supported(text)
	if strings.TrimSpace(s) == "" {
		return nil, r.width, r.height
	}

	img := image.NewGray(image.Rect(0, 0, r.width, r.height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
	}

	// Center horizontally on the advance, vertically on the em box
	m := r.face.Metrics()
	advance := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(r.width) - advance) / 2,
		Y: fixed.I(r.height)/2 + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(s)

	var pixels []Pixel
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if img.GrayAt(x, y).Y > pixelLitLevel {
				pixels = append(pixels, Pixel{X: x, Y: y})
			}
		}
	}
	return pixels, r.width, r.height
}

func (r *GlyphRasterizer) supported(text string) string {
	var b strings.Builder
	for _, c := range text {
		idx, err := r.font.GlyphIndex(&r.buf, c)
		if err != nil || idx == 0 {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
