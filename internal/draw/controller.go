package draw

import (
	"errors"
	"time"

	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// FrameScheduler runs fn once, when the host is ready to draw the next frame.
type FrameScheduler interface {
	ScheduleFrame(fn func())
}

// SpinRequest carries everything a spin reads at its start.
type SpinRequest struct {
	Participants []participant.Participant
	Queue        []string
	Power        float64
}

// Ticket describes a spin the controller accepted. A spin requested while
// another is running is not accepted and leaves all state untouched.
type Ticket struct {
	Accepted  bool
	Selection Selection
	Plan      Plan
}

// Controller owns the wheel orientation and the lifecycle of spins.
type Controller struct {
	clock       Clock
	scheduler   FrameScheduler
	sink        Sink
	rng         RNG
	orientation float64
	animator    Animator
	selection   Selection
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithRNG(rng RNG) Option {
	return func(c *Controller) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func WithSink(sink Sink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithOrientation sets the resting orientation the first spin starts from.
func WithOrientation(angle float64) Option {
	return func(c *Controller) {
		c.orientation = Normalize(angle)
	}
}

// NewController builds a controller driven by scheduler.
func NewController(scheduler FrameScheduler, opts ...Option) (*Controller, error) {
	if scheduler == nil {
		return nil, errors.New("draw: frame scheduler is required")
	}
	c := &Controller{
		clock:     ClockFunc(time.Now),
		scheduler: scheduler,
		sink:      nopSink{},
		rng:       SystemRNG(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Spin selects a winner, plans the rotation and schedules the first frame.
// The participant list is snapshotted so later edits do not affect a spin in
// flight.
func (c *Controller) Spin(req SpinRequest) (Ticket, error) {
	if c.animator.Status() == StatusRunning {
		return Ticket{}, nil
	}
	if len(req.Participants) == 0 {
		return Ticket{}, ErrEmptyRegistry
	}
	snapshot := make([]participant.Participant, len(req.Participants))
	copy(snapshot, req.Participants)

	sel, err := SelectWinner(snapshot, req.Queue, c.rng)
	if err != nil {
		return Ticket{}, err
	}
	plan, err := PlanRotation(sel.Index, len(snapshot), c.orientation, req.Power, c.rng)
	if err != nil {
		return Ticket{}, err
	}
	if err := c.animator.Start(plan, c.clock.Now()); err != nil {
		return Ticket{}, err
	}
	c.selection = sel
	if s, ok := c.sink.(StartSink); ok {
		s.SpinStarted(Start{Participants: snapshot, Plan: plan})
	}
	c.scheduler.ScheduleFrame(c.frame)
	return Ticket{Accepted: true, Selection: sel, Plan: plan}, nil
}

func (c *Controller) frame() {
	if c.animator.Status() != StatusRunning {
		return
	}
	f := c.animator.Advance(c.clock.Now())
	c.orientation = f.Angle
	c.sink.RenderFrame(f)
	if !f.Final {
		c.scheduler.ScheduleFrame(c.frame)
		return
	}
	c.sink.Reveal(Reveal{
		Winner:      c.selection.Winner,
		Selection:   c.selection,
		Plan:        c.animator.Plan(),
		Orientation: c.orientation,
	})
}

// Reset clears a completed spin so the wheel is ready again. It does nothing
// while a spin is running.
func (c *Controller) Reset() {
	c.animator.Reset()
}

// Spinning reports whether a spin is in flight.
func (c *Controller) Spinning() bool {
	return c.animator.Status() == StatusRunning
}

func (c *Controller) Status() Status { return c.animator.Status() }

// Orientation is the current wheel angle. Between spins it lies in [0, 2π).
func (c *Controller) Orientation() float64 { return c.orientation }

// LastSelection is the selection of the most recent accepted spin.
func (c *Controller) LastSelection() Selection { return c.selection }
