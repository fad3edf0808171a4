package bridge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yopisonhaji/prototype-doorprize/internal/draw"
)

// Sink forwards spin starts, frames and reveals to the hub and remembers the
// latest of each for /state. Every start opens a new draw ID; frames seen
// without a start get one lazily.
type Sink struct {
	hub    *Hub
	clock  func() time.Time
	newID  func() string
	logger Logger

	mu         sync.Mutex
	drawID     string
	slices     int
	lastStart  *Event
	lastFrame  *Event
	lastReveal *Event
}

func newSink(hub *Hub, clock func() time.Time, logger Logger) *Sink {
	return &Sink{hub: hub, clock: clock, newID: uuid.NewString, logger: logger}
}

var _ draw.StartSink = (*Sink)(nil)

func (s *Sink) SpinStarted(st draw.Start) {
	s.mu.Lock()
	s.drawID = s.newID()
	s.slices = len(st.Participants)
	evt := startEvent(s.drawID, st, s.clock())
	s.lastStart = &evt
	s.lastFrame = nil
	s.lastReveal = nil
	s.mu.Unlock()
	s.send(evt, false)
}

func (s *Sink) RenderFrame(f draw.Frame) {
	s.mu.Lock()
	if s.drawID == "" {
		s.drawID = s.newID()
	}
	evt := frameEvent(s.drawID, s.slices, f, s.clock())
	s.lastFrame = &evt
	s.mu.Unlock()
	s.send(evt, !f.Final)
}

func (s *Sink) Reveal(r draw.Reveal) {
	s.mu.Lock()
	if s.drawID == "" {
		s.drawID = s.newID()
	}
	evt := revealEvent(s.drawID, r, s.clock())
	s.lastReveal = &evt
	s.drawID = ""
	s.mu.Unlock()
	s.send(evt, false)
}

// Snapshot returns the latest start, frame and reveal.
func (s *Sink) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var snap Snapshot
	if s.lastStart != nil {
		start := *s.lastStart
		snap.Start = &start
	}
	if s.lastFrame != nil {
		frame := *s.lastFrame
		snap.Frame = &frame
	}
	if s.lastReveal != nil {
		reveal := *s.lastReveal
		snap.Reveal = &reveal
	}
	return snap
}

func (s *Sink) send(evt Event, lossy bool) {
	data, err := json.Marshal(evt)
	if err != nil {
		s.logger.Warn("bridge: encode %s event: %v", evt.Type, err)
		return
	}
	s.hub.publish(data, lossy)
}
