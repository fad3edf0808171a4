package draw

import (
	"errors"
	"math"
	"testing"
)

func TestNewWheelRejectsEmpty(t *testing.T) {
	if _, err := NewWheel(0); !errors.Is(err, ErrEmptyRegistry) {
		t.Fatalf("expected ErrEmptyRegistry, got %v", err)
	}
}

func TestWheelGeometry(t *testing.T) {
	wheel, err := NewWheel(4)
	if err != nil {
		t.Fatalf("new wheel: %v", err)
	}
	assertNear(t, wheel.SliceAngle(), math.Pi/2, "slice angle")
	start, end := wheel.SliceRange(2)
	assertNear(t, start, math.Pi, "slice 2 start")
	assertNear(t, end, 3*math.Pi/2, "slice 2 end")
	assertNear(t, wheel.CenterAngle(2), 5*math.Pi/4, "slice 2 center")
	assertNear(t, wheel.LandingPhase(2), math.Pi/4, "slice 2 landing phase")
}

func TestIndexAtMarkerFindsLandedSlice(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 50} {
		wheel, _ := NewWheel(n)
		for i := 0; i < n; i++ {
			if got := wheel.IndexAtMarker(wheel.LandingPhase(i)); got != i {
				t.Fatalf("n=%d: landing phase of %d points at %d", n, i, got)
			}
			// Whole turns must not change the answer.
			if got := wheel.IndexAtMarker(wheel.LandingPhase(i) + 3*fullTurn); got != i {
				t.Fatalf("n=%d: rotated landing phase of %d points at %d", n, i, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := map[float64]float64{
		0:                0,
		fullTurn:         0,
		-math.Pi / 2:     3 * math.Pi / 2,
		5 * math.Pi:      math.Pi,
		-7 * math.Pi / 4: math.Pi / 4,
		-1e-18:           0,
	}
	for in, want := range cases {
		got := Normalize(in)
		if got < 0 || got >= fullTurn {
			t.Fatalf("Normalize(%v) = %v outside [0, 2π)", in, got)
		}
		if angularDistance(got, want) > 1e-9 {
			t.Fatalf("Normalize(%v) = %v, want %v", in, got, want)
		}
	}
}
