// Package practice runs prompted finger-press exercises against the
// detection engine and records the outcome of each attempt.
//
// A Runner is not safe for concurrent use. Start, Stop and Update must all
// run on the goroutine that feeds the engine its frames, so that arming a
// target and scoring its detection stay ordered with frame processing.
package practice

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/alokshah14/LeapTracking/internal/engine"
	"github.com/alokshah14/LeapTracking/internal/store"
	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// DefaultRearmDelay is the pause between scoring one attempt and prompting
// the next, long enough for the user to release the pressed finger.
const DefaultRearmDelay = 1500 * time.Millisecond

// Mode selects how the next target finger is chosen.
type Mode int

const (
	// Sequential cycles thumb through pinky in order.
	Sequential Mode = iota
	// Random draws each target from a seeded generator.
	Random
)

// String returns the mode name used in config files and CLI flags.
func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	default:
		return "unknown"
	}
}

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sequential":
		return Sequential, nil
	case "random":
		return Random, nil
	default:
		return 0, fmt.Errorf("unknown practice mode %q", s)
	}
}

// Config carries the exercise settings.
type Config struct {
	// Hand is the side every exercise targets.
	Hand tracking.Side

	// Mode picks the target selection strategy.
	Mode Mode

	// RearmDelay overrides DefaultRearmDelay when positive.
	RearmDelay time.Duration

	// Seed fixes the random target sequence. Zero seeds from the clock.
	Seed uint64

	// Prompt, when set, is called each time a new target finger is armed.
	Prompt func(finger tracking.FingerIndex)

	// Result, when set, is called after each attempt is scored.
	Result func(target, detected tracking.FingerIndex, correct bool)
}

// Runner drives exercise cycles: it arms a target finger on the engine,
// waits for the resulting press detection, scores it and re-arms after a
// debounce delay. Detected presses are recorded as attempt rows when a
// history store is attached.
type Runner struct {
	config  Config
	engine  *engine.Engine
	history *store.Store
	rng     *rand.Rand
	sub     *engine.Subscription

	running   bool
	sessionID string
	target    tracking.FingerIndex
	nextIndex int
	awaiting  bool
	armedAt   int64
	rearmAt   int64
	detected  []tracking.FingerIndex

	attempts int
	correct  int
}

// NewRunner subscribes a runner to the engine's detections. The history
// store may be nil, in which case attempts are scored but not recorded.
func NewRunner(e *engine.Engine, history *store.Store, config Config) *Runner {
	if config.RearmDelay <= 0 {
		config.RearmDelay = DefaultRearmDelay
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := &Runner{
		config:  config,
		engine:  e,
		history: history,
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}
	r.sub = e.Subscribe(engine.Events{GestureDetected: r.onDetected})
	return r
}

// Running reports whether a practice session is in progress.
func (r *Runner) Running() bool {
	return r.running
}

// SessionID returns the ID of the session in progress, or "" when idle.
func (r *Runner) SessionID() string {
	return r.sessionID
}

// Stats returns the attempt and correct counts of the session in progress.
func (r *Runner) Stats() (attempts, correct int) {
	return r.attempts, r.correct
}

// Start opens a new practice session. The first target is armed by the next
// Update call that finds the engine active.
func (r *Runner) Start() error {
	if r.running {
		return fmt.Errorf("practice session already running")
	}

	id := uuid.NewString()
	if r.history != nil {
		session := &store.Session{ID: id, Hand: r.config.Hand}
		if err := r.history.Sessions().Create(session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
	}

	r.running = true
	r.sessionID = id
	r.nextIndex = 0
	r.awaiting = false
	r.rearmAt = 0
	r.detected = nil
	r.attempts = 0
	r.correct = 0
	log.Printf("Practice session %s started (%s hand, %s targets)", id, r.config.Hand, r.config.Mode)
	return nil
}

// Stop ends the session in progress and stamps its end time in the history
// store. Stopping an idle runner is a no-op.
func (r *Runner) Stop() error {
	if !r.running {
		return nil
	}

	id := r.sessionID
	r.running = false
	r.sessionID = ""
	r.awaiting = false
	r.detected = nil
	log.Printf("Practice session %s finished: %d/%d correct", id, r.correct, r.attempts)

	if r.history != nil {
		if err := r.history.Sessions().Finish(id); err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}
	}
	return nil
}

// Close stops any session in progress and detaches the runner from the
// engine.
func (r *Runner) Close() error {
	err := r.Stop()
	r.sub.Close()
	return err
}

// Update advances the exercise cycle. The caller passes the current frame
// timestamp in microseconds, after the engine has processed the frame, so
// that any detection the frame produced is scored here.
func (r *Runner) Update(now int64) {
	if !r.running {
		r.detected = nil
		return
	}

	for _, finger := range r.detected {
		r.score(finger, now)
	}
	r.detected = nil

	if !r.awaiting && now >= r.rearmAt && r.engine.State() == engine.StateActive {
		r.arm(now)
	}
}

// onDetected runs inside engine.Update and defers scoring to the Update
// call that follows the frame.
func (r *Runner) onDetected(side tracking.Side, finger tracking.FingerIndex) {
	if !r.running || !r.awaiting || side != r.config.Hand {
		return
	}
	r.detected = append(r.detected, finger)
}

func (r *Runner) arm(now int64) {
	r.target = r.nextTarget()
	r.engine.ResetExercise(r.config.Hand, r.target)
	r.armedAt = now
	r.awaiting = true
	if r.config.Prompt != nil {
		r.config.Prompt(r.target)
	}
}

func (r *Runner) score(finger tracking.FingerIndex, now int64) {
	correct := finger == r.target
	r.attempts++
	if correct {
		r.correct++
	}
	r.awaiting = false
	r.rearmAt = now + r.config.RearmDelay.Microseconds()

	if r.history != nil {
		latency := (now - r.armedAt) / 1000
		if latency < 0 {
			latency = 0
		}
		attempt := &store.Attempt{
			ID:             uuid.NewString(),
			SessionID:      r.sessionID,
			TargetFinger:   r.target,
			DetectedFinger: finger,
			Correct:        correct,
			LatencyMS:      latency,
		}
		if err := r.history.Attempts().Create(attempt); err != nil {
			log.Printf("Recording attempt failed: %v", err)
		}
	}

	if r.config.Result != nil {
		r.config.Result(r.target, finger, correct)
	}
}

func (r *Runner) nextTarget() tracking.FingerIndex {
	if r.config.Mode == Random {
		return tracking.FingerIndex(r.rng.IntN(int(tracking.FingerCount)))
	}
	finger := tracking.FingerIndex(r.nextIndex)
	r.nextIndex = (r.nextIndex + 1) % int(tracking.FingerCount)
	return finger
}
