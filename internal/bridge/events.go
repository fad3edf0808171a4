package bridge

import (
	"time"

	"github.com/yopisonhaji/prototype-doorprize/internal/draw"
)

// ProtocolVersion identifies the display contract exposed via /health.
const ProtocolVersion = "1.1.0"

// EventType names the messages pushed to display clients.
type EventType string

const (
	EventStart  EventType = "start"
	EventFrame  EventType = "frame"
	EventReveal EventType = "reveal"
)

// Winner is the participant shown on a reveal.
type Winner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Slice is one labelled segment of the wheel, listed clockwise from angle 0.
type Slice struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// Event is one message on the websocket. Angles are radians in screen
// coordinates with the marker at the top. How the winner was picked never
// goes on the wire; displays only learn who won.
type Event struct {
	Type     EventType `json:"type"`
	DrawID   string    `json:"draw_id"`
	Angle    float64   `json:"angle"`
	Progress float64   `json:"progress"`
	Slices   int       `json:"slices,omitempty"`
	Wheel    []Slice   `json:"wheel,omitempty"`
	Winner   *Winner   `json:"winner,omitempty"`
	Index    *int      `json:"index,omitempty"`
	At       time.Time `json:"at"`
}

func startEvent(drawID string, st draw.Start, now time.Time) Event {
	wheel := make([]Slice, 0, len(st.Participants))
	for _, p := range st.Participants {
		wheel = append(wheel, Slice{Number: p.Key(), Name: p.Name})
	}
	return Event{
		Type:   EventStart,
		DrawID: drawID,
		Angle:  st.Plan.StartAngle,
		Slices: len(wheel),
		Wheel:  wheel,
		At:     now,
	}
}

func frameEvent(drawID string, slices int, f draw.Frame, now time.Time) Event {
	return Event{
		Type:     EventFrame,
		DrawID:   drawID,
		Angle:    f.Angle,
		Progress: f.Progress,
		Slices:   slices,
		At:       now,
	}
}

func revealEvent(drawID string, r draw.Reveal, now time.Time) Event {
	index := r.Selection.Index
	return Event{
		Type:     EventReveal,
		DrawID:   drawID,
		Angle:    r.Orientation,
		Progress: 1,
		Slices:   r.Plan.Slices,
		Winner: &Winner{
			ID:     r.Winner.ID,
			Name:   r.Winner.Name,
			Number: r.Winner.Number,
		},
		Index: &index,
		At:    now,
	}
}

// Snapshot is the body of GET /state: the latest start, frame and reveal.
type Snapshot struct {
	Start  *Event `json:"start,omitempty"`
	Frame  *Event `json:"frame,omitempty"`
	Reveal *Event `json:"reveal,omitempty"`
}
