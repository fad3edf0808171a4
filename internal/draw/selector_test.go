package draw

import (
	"errors"
	"reflect"
	"testing"
)

func TestSelectWinnerEmptyRegistry(t *testing.T) {
	_, err := SelectWinner(nil, []string{"1"}, &scriptedRNG{})
	if !errors.Is(err, ErrEmptyRegistry) {
		t.Fatalf("expected ErrEmptyRegistry, got %v", err)
	}
}

func TestSelectWinnerForcedHitConsumesHead(t *testing.T) {
	registry := people("1", "2", "3", "4")
	queue := []string{" 3 ", "1"}
	rng := &scriptedRNG{ints: []int{0}}

	sel, err := SelectWinner(registry, queue, rng)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Outcome != OutcomeForcedHit {
		t.Fatalf("expected forced hit, got %s", sel.Outcome)
	}
	if sel.Index != 2 || sel.Winner.Number != "3" {
		t.Fatalf("expected participant 3 at index 2, got %+v at %d", sel.Winner, sel.Index)
	}
	if !sel.QueueConsumed || !reflect.DeepEqual(sel.Queue, []string{"1"}) {
		t.Fatalf("expected queue [1] after pop, got %v (consumed=%v)", sel.Queue, sel.QueueConsumed)
	}
	if sel.ForcedNumber != "3" {
		t.Fatalf("expected trimmed forced number, got %q", sel.ForcedNumber)
	}
	if len(rng.intNs) != 0 {
		t.Fatalf("forced hit must not draw randomly")
	}
	if !reflect.DeepEqual(queue, []string{" 3 ", "1"}) {
		t.Fatalf("input queue mutated: %v", queue)
	}
}

func TestSelectWinnerMatchesNumbersAsStrings(t *testing.T) {
	registry := people("7", "07")
	sel, err := SelectWinner(registry, []string{"07"}, &scriptedRNG{})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Index != 1 {
		t.Fatalf("expected exact string match on 07, got index %d", sel.Index)
	}
}

func TestSelectWinnerMissFallsBackAndKeepsQueue(t *testing.T) {
	registry := people("1", "2", "3")
	rng := &scriptedRNG{ints: []int{1}}

	sel, err := SelectWinner(registry, []string{"99", "2"}, rng)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Outcome != OutcomeForcedMissFallback {
		t.Fatalf("expected forced miss fallback, got %s", sel.Outcome)
	}
	if sel.QueueConsumed {
		t.Fatalf("miss must not consume the queue")
	}
	if !reflect.DeepEqual(sel.Queue, []string{"99", "2"}) {
		t.Fatalf("queue changed on miss: %v", sel.Queue)
	}
	if sel.Index != 1 || sel.Winner.Number != "2" {
		t.Fatalf("expected random index 1, got %d", sel.Index)
	}
	if !reflect.DeepEqual(rng.intNs, []int{3}) {
		t.Fatalf("expected one uniform draw over 3 slices, got %v", rng.intNs)
	}
}

func TestSelectWinnerRandomWhenQueueEmpty(t *testing.T) {
	registry := people("1", "2", "3", "4", "5")
	sel, err := SelectWinner(registry, nil, &scriptedRNG{ints: []int{4}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Outcome != OutcomeRandomDraw || sel.Index != 4 {
		t.Fatalf("expected random draw of index 4, got %s at %d", sel.Outcome, sel.Index)
	}
	if sel.Queue == nil || len(sel.Queue) != 0 {
		t.Fatalf("expected empty non-nil queue, got %#v", sel.Queue)
	}
}
