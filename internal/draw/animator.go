package draw

import (
	"errors"
	"time"
)

// Status is the animator's lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	default:
		return "idle"
	}
}

var errAnimatorBusy = errors.New("draw: spin already running")

// Frame is one rendered sample of a spin.
type Frame struct {
	Angle    float64
	Progress float64
	Elapsed  time.Duration
	Final    bool
}

// Ease is the cubic ease-out curve: fast start, slow stop.
func Ease(t float64) float64 {
	t--
	return t*t*t + 1
}

// Animator turns a Plan into angle samples over wall-clock time.
type Animator struct {
	plan   Plan
	start  time.Time
	angle  float64
	status Status
}

// Start begins animating plan from now.
func (a *Animator) Start(plan Plan, now time.Time) error {
	if a.status == StatusRunning {
		return errAnimatorBusy
	}
	a.plan = plan
	a.start = now
	a.angle = plan.StartAngle
	a.status = StatusRunning
	return nil
}

// Advance samples the animation at now. The frame that reaches the plan's
// duration snaps to the normalized final orientation and completes the spin.
func (a *Animator) Advance(now time.Time) Frame {
	if a.status != StatusRunning {
		frame := Frame{Angle: a.angle}
		if a.status == StatusComplete {
			frame.Progress = 1
			frame.Final = true
		}
		return frame
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.plan.Duration {
		a.angle = a.plan.FinalOrientation()
		a.status = StatusComplete
		return Frame{Angle: a.angle, Progress: 1, Elapsed: elapsed, Final: true}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	progress := float64(elapsed) / float64(a.plan.Duration)
	a.angle = a.plan.StartAngle + a.plan.TotalDelta*Ease(progress)
	return Frame{Angle: a.angle, Progress: progress, Elapsed: elapsed}
}

// Reset returns a completed animator to idle. Running spins are unaffected.
func (a *Animator) Reset() {
	if a.status == StatusComplete {
		a.status = StatusIdle
	}
}

func (a *Animator) Status() Status { return a.status }
func (a *Animator) Angle() float64 { return a.angle }
func (a *Animator) Plan() Plan     { return a.plan }
