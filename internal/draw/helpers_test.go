package draw

import (
	"math"
	"testing"
	"time"

	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
)

type scriptedRNG struct {
	ints   []int
	floats []float64
	intNs  []int
}

func (r *scriptedRNG) IntN(n int) int {
	r.intNs = append(r.intNs, n)
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 12, 24, 19, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) ScheduleFrame(fn func()) {
	s.pending = append(s.pending, fn)
}

// step runs the next scheduled frame and reports whether one was pending.
func (s *manualScheduler) step() bool {
	if len(s.pending) == 0 {
		return false
	}
	fn := s.pending[0]
	s.pending = s.pending[1:]
	fn()
	return true
}

type recordingSink struct {
	starts   []Start
	frames   []Frame
	reveals  []Reveal
	onReveal func(Reveal)
}

func (s *recordingSink) SpinStarted(st Start) { s.starts = append(s.starts, st) }
func (s *recordingSink) RenderFrame(f Frame)  { s.frames = append(s.frames, f) }
func (s *recordingSink) Reveal(r Reveal) {
	s.reveals = append(s.reveals, r)
	if s.onReveal != nil {
		s.onReveal(r)
	}
}

func people(numbers ...string) []participant.Participant {
	out := make([]participant.Participant, 0, len(numbers))
	for i, number := range numbers {
		out = append(out, participant.Participant{
			ID:     "p" + number,
			Name:   string(rune('A' + i)),
			Number: number,
		})
	}
	return out
}

// angularDistance is the shortest distance between two angles on the circle.
func angularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > math.Pi {
		d = fullTurn - d
	}
	return d
}

func assertNear(t *testing.T, got, want float64, what string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %.12f, want %.12f", what, got, want)
	}
}
