// Package camera provides the perspective viewport the particle field is
// seen through.
package camera

import "github.com/chewxy/math32"

// Near is the closest depth that still projects.
const Near float32 = 0.1

// Camera looks down -Z at the origin from Distance along +Z, with +Y up.
type Camera struct {
	// Vertical field of view in degrees
	FOV float32

	// Camera distance from the origin along +Z
	Distance float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Projection factor 1/tan(FOV/2), cached on FOV changes
	focal float32
}

// New creates a camera for a viewport.
func New(viewportW, viewportH, fov, distance float32) *Camera {
	c := &Camera{
		Distance:  distance,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
	c.SetFOV(fov)
	return c
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(fov float32) {
	c.FOV = clamp(fov, 1, 179)
	c.focal = 1 / math32.Tan(c.FOV*math32.Pi/360)
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float32 {
	if c.ViewportH <= 0 {
		return 1
	}
	return c.ViewportW / c.ViewportH
}

// Resize updates viewport dimensions. It reports whether anything changed.
func (c *Camera) Resize(viewportW, viewportH float32) bool {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return false
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	return true
}

// Depth returns the view-space distance of a point with world z.
func (c *Camera) Depth(z float32) float32 {
	return c.Distance - z
}

// Project converts a world position to screen coordinates. depth is the
// view-space distance; visible is false for points behind the near plane.
func (c *Camera) Project(x, y, z float32) (sx, sy, depth float32, visible bool) {
	depth = c.Depth(z)
	if depth < Near {
		return 0, 0, depth, false
	}
	ndcX := x * c.focal / (c.Aspect() * depth)
	ndcY := y * c.focal / depth
	sx = (ndcX + 1) * 0.5 * c.ViewportW
	sy = (1 - ndcY) * 0.5 * c.ViewportH
	return sx, sy, depth, true
}

// IsVisible returns true if a point at (sx, sy) with the given screen
// radius overlaps the viewport.
func (c *Camera) IsVisible(sx, sy, radius float32) bool {
	return sx >= -radius && sx <= c.ViewportW+radius &&
		sy >= -radius && sy <= c.ViewportH+radius
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
