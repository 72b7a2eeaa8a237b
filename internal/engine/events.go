package engine

import "github.com/alokshah14/LeapTracking/internal/tracking"

// Events bundles the callbacks a consumer can register with Subscribe.
// Every field is optional; nil callbacks are skipped. Callbacks fire
// synchronously inside Update on the frame goroutine, so they must return
// quickly and must not block.
type Events struct {
	// CountdownTick fires once per whole second of the pre-calibration
	// countdown.
	CountdownTick func(secondsRemaining int)

	// CalibrationStatus carries user-facing prompt text. It re-fires while
	// a condition persists; consumers should treat it as idempotent
	// display text.
	CalibrationStatus func(message string)

	// CalibrationProgress reports capture progress in [0, 1].
	CalibrationProgress func(fraction float64)

	// GestureDetected fires when the classifier judges a finger pressed on
	// the target hand, whether or not it matches the target finger.
	GestureDetected func(side tracking.Side, finger tracking.FingerIndex)

	// Hand presence and position events.
	HandsLost     func()
	HandsDrifted  func()
	HandsRestored func()

	// Paused and Resumed mark classification being suspended and restored.
	Paused  func()
	Resumed func()
}

// Subscription identifies one registered Events set. Close unregisters it;
// closing twice is harmless.
type Subscription struct {
	engine *Engine
	id     int
}

// Close removes the subscription from the engine. Must not be called
// concurrently with Update.
func (s *Subscription) Close() {
	if s.engine == nil {
		return
	}
	s.engine.unsubscribe(s.id)
	s.engine = nil
}

type listenerEntry struct {
	id int
	ev Events
}

// Subscribe registers callbacks for engine events. Listeners are invoked in
// subscription order. Must not be called concurrently with Update.
func (e *Engine) Subscribe(ev Events) *Subscription {
	e.nextListenerID++
	id := e.nextListenerID
	e.listeners = append(e.listeners, listenerEntry{id: id, ev: ev})
	return &Subscription{engine: e, id: id}
}

func (e *Engine) unsubscribe(id int) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// eachListener invokes fn over a snapshot of the registry so a callback may
// close its own subscription mid-emit.
func (e *Engine) eachListener(fn func(Events)) {
	if len(e.listeners) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(e.listeners))
	copy(snapshot, e.listeners)
	for _, l := range snapshot {
		fn(l.ev)
	}
}

func (e *Engine) emitCountdownTick(remaining int) {
	e.eachListener(func(ev Events) {
		if ev.CountdownTick != nil {
			ev.CountdownTick(remaining)
		}
	})
}

func (e *Engine) emitStatus(message string) {
	e.eachListener(func(ev Events) {
		if ev.CalibrationStatus != nil {
			ev.CalibrationStatus(message)
		}
	})
}

func (e *Engine) emitProgress(fraction float64) {
	e.eachListener(func(ev Events) {
		if ev.CalibrationProgress != nil {
			ev.CalibrationProgress(fraction)
		}
	})
}

func (e *Engine) emitGestureDetected(side tracking.Side, finger tracking.FingerIndex) {
	e.eachListener(func(ev Events) {
		if ev.GestureDetected != nil {
			ev.GestureDetected(side, finger)
		}
	})
}

func (e *Engine) emitHandsLost() {
	e.eachListener(func(ev Events) {
		if ev.HandsLost != nil {
			ev.HandsLost()
		}
	})
}

func (e *Engine) emitHandsDrifted() {
	e.eachListener(func(ev Events) {
		if ev.HandsDrifted != nil {
			ev.HandsDrifted()
		}
	})
}

func (e *Engine) emitHandsRestored() {
	e.eachListener(func(ev Events) {
		if ev.HandsRestored != nil {
			ev.HandsRestored()
		}
	})
}

func (e *Engine) emitPaused() {
	e.eachListener(func(ev Events) {
		if ev.Paused != nil {
			ev.Paused()
		}
	})
}

func (e *Engine) emitResumed() {
	e.eachListener(func(ev Events) {
		if ev.Resumed != nil {
			ev.Resumed()
		}
	})
}
