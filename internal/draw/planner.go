package draw

import (
	"fmt"
	"math"
	"time"
)

const (
	baseExtraSpins   = 5.0
	powerExtraSpins  = 25.0
	jitterExtraSpins = 2.0

	baseDuration  = 4 * time.Second
	powerDuration = 8 * time.Second

	// phaseEpsilon absorbs float noise when the wheel already rests on the
	// target phase.
	phaseEpsilon = 1e-12
)

// Plan is the rotation for a single spin. It does not change once the
// animation has started.
type Plan struct {
	WinnerIndex  int
	Slices       int
	Power        float64
	StartAngle   float64
	TargetPhase  float64
	ForwardDelta float64
	ExtraSpins   float64
	TotalDelta   float64
	Duration     time.Duration
}

// FullTurns is the number of whole extra rotations added to the forward delta.
func (p Plan) FullTurns() int {
	return int(math.Floor(p.ExtraSpins))
}

// FinalOrientation is the normalized orientation the wheel rests at.
func (p Plan) FinalOrientation() float64 {
	return Normalize(p.StartAngle + p.TotalDelta)
}

// ClampPower keeps power inside [0, 1].
func ClampPower(power float64) float64 {
	if math.IsNaN(power) || power < 0 {
		return 0
	}
	if power > 1 {
		return 1
	}
	return power
}

// DurationForPower returns how long a spin at the given power animates.
func DurationForPower(power float64) time.Duration {
	power = ClampPower(power)
	return baseDuration + time.Duration(power*float64(powerDuration))
}

// PlanRotation computes the forward rotation that takes a wheel of n slices
// from orientation to the landing phase of slice index, plus the extra full
// turns that make the spin visible.
func PlanRotation(index, n int, orientation, power float64, rng RNG) (Plan, error) {
	wheel, err := NewWheel(n)
	if err != nil {
		return Plan{}, err
	}
	if index < 0 || index >= n {
		return Plan{}, fmt.Errorf("draw: winner index %d outside wheel of %d slices", index, n)
	}
	if rng == nil {
		rng = SystemRNG()
	}
	power = ClampPower(power)

	target := wheel.LandingPhase(index)
	forward := target - Normalize(orientation)
	if forward < 0 {
		forward += fullTurn
	}
	if forward < phaseEpsilon || fullTurn-forward < phaseEpsilon {
		forward = 0
	}
	extra := baseExtraSpins + power*powerExtraSpins + rng.Float64()*jitterExtraSpins

	return Plan{
		WinnerIndex:  index,
		Slices:       n,
		Power:        power,
		StartAngle:   orientation,
		TargetPhase:  target,
		ForwardDelta: forward,
		ExtraSpins:   extra,
		TotalDelta:   forward + math.Floor(extra)*fullTurn,
		Duration:     DurationForPower(power),
	}, nil
}
