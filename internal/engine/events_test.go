package engine

import (
	"testing"

	"github.com/alokshah14/LeapTracking/internal/tracking"
)

func TestEngine_Subscribe_DeliversInOrder(t *testing.T) {
	e := New(Config{})

	var order []string
	e.Subscribe(Events{CalibrationStatus: func(string) { order = append(order, "first") }})
	e.Subscribe(Events{CalibrationStatus: func(string) { order = append(order, "second") }})

	e.emitStatus("hello")

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", order)
	}
}

func TestEngine_Subscribe_PartialEvents(t *testing.T) {
	e := New(Config{})

	var got []int
	e.Subscribe(Events{CountdownTick: func(s int) { got = append(got, s) }})

	// Listeners without a callback for an event are skipped, not invoked.
	e.emitCountdownTick(9)
	e.emitStatus("ignored")
	e.emitProgress(0.5)
	e.emitGestureDetected(tracking.Left, tracking.Index)
	e.emitHandsLost()
	e.emitHandsDrifted()
	e.emitHandsRestored()
	e.emitPaused()
	e.emitResumed()

	if len(got) != 1 || got[0] != 9 {
		t.Errorf("ticks = %v, want [9]", got)
	}
}

func TestSubscription_Close(t *testing.T) {
	e := New(Config{})

	var first, second int
	sub := e.Subscribe(Events{CalibrationStatus: func(string) { first++ }})
	e.Subscribe(Events{CalibrationStatus: func(string) { second++ }})

	e.emitStatus("one")
	sub.Close()
	e.emitStatus("two")

	if first != 1 {
		t.Errorf("closed listener received %d events, want 1", first)
	}
	if second != 2 {
		t.Errorf("open listener received %d events, want 2", second)
	}

	// Closing again is harmless.
	sub.Close()

	var zero Subscription
	zero.Close()
}

func TestSubscription_CloseDuringEmit(t *testing.T) {
	e := New(Config{})

	var sub *Subscription
	var selfish, other int
	sub = e.Subscribe(Events{CalibrationStatus: func(string) {
		selfish++
		sub.Close()
	}})
	e.Subscribe(Events{CalibrationStatus: func(string) { other++ }})

	e.emitStatus("one")
	e.emitStatus("two")

	if selfish != 1 {
		t.Errorf("self-closing listener received %d events, want 1", selfish)
	}
	if other != 2 {
		t.Errorf("remaining listener received %d events, want 2", other)
	}
}

func TestEngine_EmitWithoutListeners(t *testing.T) {
	e := New(Config{})

	// No listeners registered; every emit must be a no-op.
	e.emitCountdownTick(3)
	e.emitStatus("nobody home")
	e.emitProgress(1)
	e.emitGestureDetected(tracking.Right, tracking.Pinky)
	e.emitHandsLost()
	e.emitPaused()
}
