package draw

import (
	"strings"

	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
)

// Outcome tells how a winner was chosen.
type Outcome int

const (
	// OutcomeRandomDraw means the queue was empty and the winner is uniform.
	OutcomeRandomDraw Outcome = iota
	// OutcomeForcedHit means the queue head matched a registered number.
	OutcomeForcedHit
	// OutcomeForcedMissFallback means the queue head matched nobody and the
	// winner was drawn at random instead. The queue is left untouched.
	OutcomeForcedMissFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeForcedHit:
		return "forced"
	case OutcomeForcedMissFallback:
		return "forced-miss"
	default:
		return "random"
	}
}

// Selection is the result of SelectWinner.
type Selection struct {
	Winner  participant.Participant
	Index   int
	Outcome Outcome
	// ForcedNumber is the trimmed queue head that was consulted, empty when
	// the queue was empty.
	ForcedNumber string
	// QueueConsumed reports whether the head was popped. Queue then holds
	// the remainder the caller should persist.
	QueueConsumed bool
	Queue         []string
}

// SelectWinner picks the winner for one spin. The queue head wins when its
// trimmed value equals a participant's trimmed number; otherwise a uniform
// index is drawn from rng. Neither registry nor queue is modified.
func SelectWinner(registry []participant.Participant, queue []string, rng RNG) (Selection, error) {
	if len(registry) == 0 {
		return Selection{}, ErrEmptyRegistry
	}
	if rng == nil {
		rng = SystemRNG()
	}
	sel := Selection{Outcome: OutcomeRandomDraw, Queue: cloneQueue(queue)}
	if len(queue) > 0 {
		head := strings.TrimSpace(queue[0])
		sel.ForcedNumber = head
		if idx := participant.IndexOf(registry, head); idx >= 0 {
			sel.Winner = registry[idx]
			sel.Index = idx
			sel.Outcome = OutcomeForcedHit
			sel.QueueConsumed = true
			sel.Queue = cloneQueue(queue[1:])
			return sel, nil
		}
		sel.Outcome = OutcomeForcedMissFallback
	}
	idx := rng.IntN(len(registry))
	sel.Winner = registry[idx]
	sel.Index = idx
	return sel, nil
}

func cloneQueue(queue []string) []string {
	out := make([]string, len(queue))
	copy(out, queue)
	return out
}
