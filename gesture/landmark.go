// Package gesture turns hand landmarks into continuous control signals.
package gesture

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NumLandmarks is the number of points reported per hand.
const NumLandmarks = 21

// Landmark indices, following the MediaPipe hand model.
const (
	Wrist     = 0
	ThumbTip  = 4
	IndexMCP  = 5
	IndexPIP  = 6
	IndexTip  = 8
	MiddlePIP = 10
	MiddleTip = 12
	RingPIP   = 14
	RingTip   = 16
	PinkyPIP  = 18
	PinkyTip  = 20
)

// fingertips used for the closedness measure, thumb first.
var fingertips = [...]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// ErrLandmarkCount is returned when a hand has the wrong number of points.
var ErrLandmarkCount = errors.New("wrong landmark count")

// Landmark is a hand point in normalized image coordinates (X, Y in [0,1],
// Y down) plus depth relative to the wrist.
type Landmark struct {
	X, Y, Z float64
}

// Hand is one detected hand.
type Hand [NumLandmarks]Landmark

// HandFromSlice copies landmarks into a Hand.
func HandFromSlice(points []Landmark) (Hand, error) {
	var h Hand
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d, want %d", ErrLandmarkCount, len(points), NumLandmarks)
	}
	copy(h[:], points)
	return h, nil
}

func (l Landmark) vec() r3.Vec {
	return r3.Vec{X: l.X, Y: l.Y, Z: l.Z}
}

func (l Landmark) planar() r3.Vec {
	return r3.Vec{X: l.X, Y: l.Y}
}

// dist3 is the 3D distance between two landmarks.
func dist3(a, b Landmark) float64 {
	return r3.Norm(r3.Sub(a.vec(), b.vec()))
}

// dist2 is the image-plane distance between two landmarks.
func dist2(a, b Landmark) float64 {
	return r3.Norm(r3.Sub(a.planar(), b.planar()))
}
