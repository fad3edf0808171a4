package draw

import "github.com/yopisonhaji/prototype-doorprize/internal/participant"

// Reveal announces the winner once the wheel has stopped.
type Reveal struct {
	Winner      participant.Participant
	Selection   Selection
	Plan        Plan
	Orientation float64
}

// Start describes an accepted spin before its first frame. Participants is
// the wheel as drawn, in slice order.
type Start struct {
	Participants []participant.Participant
	Plan         Plan
}

// Sink receives animation frames and the final reveal.
type Sink interface {
	RenderFrame(Frame)
	Reveal(Reveal)
}

// StartSink is a Sink that also wants to hear when a spin begins.
type StartSink interface {
	Sink
	SpinStarted(Start)
}

// MultiSink fans frames and reveals out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) RenderFrame(f Frame) {
	for _, sink := range m {
		if sink != nil {
			sink.RenderFrame(f)
		}
	}
}

func (m MultiSink) SpinStarted(st Start) {
	for _, sink := range m {
		if s, ok := sink.(StartSink); ok {
			s.SpinStarted(st)
		}
	}
}

func (m MultiSink) Reveal(r Reveal) {
	for _, sink := range m {
		if sink != nil {
			sink.Reveal(r)
		}
	}
}

type nopSink struct{}

func (nopSink) RenderFrame(Frame) {}
func (nopSink) Reveal(Reveal)     {}
