package draw

import (
	"errors"
	"math"
)

const (
	fullTurn = 2 * math.Pi

	// MarkerAngle is the fixed pointer position, straight up in screen
	// coordinates where angles grow clockwise from the positive x axis.
	MarkerAngle = -math.Pi / 2
)

// ErrEmptyRegistry is returned when a draw is attempted without participants.
var ErrEmptyRegistry = errors.New("draw: no participants registered")

// Wheel divides a full turn into equal slices, slice i belonging to the i-th
// registered participant.
type Wheel struct {
	slices int
}

// NewWheel returns a wheel with n slices.
func NewWheel(n int) (Wheel, error) {
	if n < 1 {
		return Wheel{}, ErrEmptyRegistry
	}
	return Wheel{slices: n}, nil
}

// Slices reports how many slices the wheel has.
func (w Wheel) Slices() int {
	return w.slices
}

// SliceAngle is the angular width of one slice.
func (w Wheel) SliceAngle() float64 {
	if w.slices < 1 {
		return 0
	}
	return fullTurn / float64(w.slices)
}

// SliceRange returns the half-open range [start, end) of slice i in the
// wheel's own frame.
func (w Wheel) SliceRange(i int) (start, end float64) {
	step := w.SliceAngle()
	return float64(i) * step, float64(i+1) * step
}

// CenterAngle returns the mid-angle of slice i in the wheel's own frame.
func (w Wheel) CenterAngle(i int) float64 {
	step := w.SliceAngle()
	return float64(i)*step + step/2
}

// LandingPhase is the normalized orientation that puts the center of slice i
// exactly under the marker.
func (w Wheel) LandingPhase(i int) float64 {
	return Normalize(MarkerAngle - w.CenterAngle(i))
}

// IndexAtMarker returns the slice under the marker when the wheel is rotated
// by orientation.
func (w Wheel) IndexAtMarker(orientation float64) int {
	if w.slices < 1 {
		return -1
	}
	local := Normalize(MarkerAngle - orientation)
	idx := int(math.Floor(local / w.SliceAngle()))
	if idx >= w.slices {
		idx = w.slices - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Normalize maps any angle into [0, 2π).
func Normalize(angle float64) float64 {
	angle = math.Mod(angle, fullTurn)
	if angle < 0 {
		angle += fullTurn
	}
	if angle >= fullTurn {
		angle -= fullTurn
	}
	return angle
}
