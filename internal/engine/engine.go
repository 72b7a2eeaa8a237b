// Package engine implements per-user finger press calibration and
// detection. It owns a frame-driven state machine that walks the user
// through a countdown, a resting baseline capture and a per-finger pressed
// capture, then classifies single-finger presses against the learned
// profile while monitoring hand presence and palm drift.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/alokshah14/LeapTracking/internal/kv"
	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// maxFrameDelta caps the time credited between frames. Larger gaps mean the
// tracking service stalled or restarted, and crediting them would let timers
// jump.
const maxFrameDelta = time.Second

// Config holds the engine tuning parameters. Zero fields fall back to the
// defaults.
type Config struct {
	// CountdownDuration is the hand positioning countdown before baseline
	// capture begins.
	CountdownDuration time.Duration

	// BaselineDuration is how long resting angles are recorded.
	BaselineDuration time.Duration

	// CalibrationTime is the continuous hold required to capture one
	// finger's pressed angle.
	CalibrationTime time.Duration

	// MinDetectionThreshold is the flexion delta in degrees that counts as
	// a finger being pressed during capture.
	MinDetectionThreshold float64

	// PressedThresholdRatio is the classifier candidate ratio: a finger
	// qualifies when its distance to the pressed angle is below this
	// fraction of its distance to the baseline.
	PressedThresholdRatio float64

	// MaxPositionDrift is the palm drift distance in meters that pauses
	// detection.
	MaxPositionDrift float64

	// HandLostTimeout is how long a hand may be absent before detection
	// pauses.
	HandLostTimeout time.Duration

	// Store persists calibration constants. Optional; without it Save,
	// Load, HasSaved and ClearSaved report no saved data.
	Store kv.Store
}

// DefaultConfig returns the default engine tuning.
func DefaultConfig() Config {
	return Config{
		CountdownDuration:     10 * time.Second,
		BaselineDuration:      2 * time.Second,
		CalibrationTime:       2 * time.Second,
		MinDetectionThreshold: 15,
		PressedThresholdRatio: 0.6,
		MaxPositionDrift:      0.15,
		HandLostTimeout:       time.Second,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CountdownDuration <= 0 {
		c.CountdownDuration = def.CountdownDuration
	}
	if c.BaselineDuration <= 0 {
		c.BaselineDuration = def.BaselineDuration
	}
	if c.CalibrationTime <= 0 {
		c.CalibrationTime = def.CalibrationTime
	}
	if c.MinDetectionThreshold <= 0 {
		c.MinDetectionThreshold = def.MinDetectionThreshold
	}
	if c.PressedThresholdRatio <= 0 {
		c.PressedThresholdRatio = def.PressedThresholdRatio
	}
	if c.MaxPositionDrift <= 0 {
		c.MaxPositionDrift = def.MaxPositionDrift
	}
	if c.HandLostTimeout <= 0 {
		c.HandLostTimeout = def.HandLostTimeout
	}
	return c
}

// Engine is the calibration and detection state machine. All methods must
// be called from a single goroutine; Update never blocks and all waits are
// expressed as elapsed frame time.
type Engine struct {
	config  Config
	profile *Profile
	drift   *DriftMonitor
	state   State

	listeners      []listenerEntry
	nextListenerID int

	// Frame clock, microseconds from the tracking service.
	lastTimestamp int64
	hasTimestamp  bool

	// Countdown bookkeeping.
	countdownElapsed time.Duration
	lastTick         int

	// Baseline capture bookkeeping.
	baselineElapsed time.Duration

	// Per-finger capture cursor and hold timer.
	cursorSide   tracking.Side
	cursorFinger tracking.FingerIndex
	holdElapsed  time.Duration

	// Active state bookkeeping.
	absence      [tracking.SideCount]time.Duration
	targetSide   tracking.Side
	targetFinger tracking.FingerIndex
	armed        bool

	calibrated bool
}

// New creates an engine in StateWaitingForCalibration.
func New(config Config) *Engine {
	config = config.withDefaults()
	return &Engine{
		config:  config,
		profile: NewProfile(),
		drift:   NewDriftMonitor(config.MaxPositionDrift),
		state:   StateWaitingForCalibration,
	}
}

// State returns the current engine state.
func (e *Engine) State() State {
	return e.state
}

// IsCalibrated reports whether a completed profile is loaded.
func (e *Engine) IsCalibrated() bool {
	return e.calibrated
}

// IsPaused reports whether detection is suspended waiting for hands to
// return.
func (e *Engine) IsPaused() bool {
	return e.state == StatePaused
}

// Profile returns a read-only copy of the current calibration profile.
func (e *Engine) Profile() Snapshot {
	return e.profile.Snapshot()
}

// Target returns the current exercise target and whether detection is
// armed.
func (e *Engine) Target() (tracking.Side, tracking.FingerIndex, bool) {
	return e.targetSide, e.targetFinger, e.armed
}

// StartCalibration begins a fresh calibration. Mid-calibration calls are
// no-ops; from Active or Paused it discards the current profile and
// recalibrates.
func (e *Engine) StartCalibration() {
	if e.state.calibrating() {
		return
	}

	e.profile.Reset()
	e.calibrated = false
	e.armed = false
	e.countdownElapsed = 0
	e.lastTick = 0
	e.setState(StatePreCountdown)
}

// CancelCalibration abandons an in-progress calibration and discards the
// partial profile. Outside the calibration phases it is a no-op; a
// previously saved profile is untouched.
func (e *Engine) CancelCalibration() {
	if !e.state.calibrating() {
		return
	}

	e.profile.Reset()
	e.setState(StateWaitingForCalibration)
}

// ResetExercise sets the expected target and re-arms detection for the next
// press. It is a no-op unless the engine is Active.
func (e *Engine) ResetExercise(side tracking.Side, finger tracking.FingerIndex) {
	if e.state != StateActive {
		return
	}
	if side < 0 || side >= tracking.SideCount || finger < 0 || finger >= tracking.FingerCount {
		return
	}

	e.targetSide = side
	e.targetFinger = finger
	e.armed = true
}

// Update advances the state machine with one tracking frame. It must be
// called from the goroutine that receives tracking data.
func (e *Engine) Update(frame tracking.Frame) {
	dt := e.advanceClock(frame.Timestamp)

	switch e.state {
	case StatePreCountdown:
		e.updateCountdown(dt)
	case StateBaselineCapture:
		e.updateBaseline(dt, frame)
	case StatePerFingerCapture:
		e.updatePerFinger(dt, frame)
	case StateActive:
		e.updateActive(dt, frame)
	case StatePaused:
		e.updatePaused(frame)
	}
}

// advanceClock converts the frame timestamp into the time elapsed since the
// previous frame. Regressions and gaps over maxFrameDelta credit zero but
// the frame still contributes samples.
func (e *Engine) advanceClock(timestamp int64) time.Duration {
	if !e.hasTimestamp {
		e.hasTimestamp = true
		e.lastTimestamp = timestamp
		return 0
	}

	deltaMicros := timestamp - e.lastTimestamp
	e.lastTimestamp = timestamp
	if deltaMicros < 0 {
		return 0
	}

	dt := time.Duration(deltaMicros) * time.Microsecond
	if dt > maxFrameDelta {
		return 0
	}
	return dt
}

func (e *Engine) updateCountdown(dt time.Duration) {
	e.countdownElapsed += dt
	remaining := e.config.CountdownDuration - e.countdownElapsed

	if remaining <= 0 {
		e.baselineElapsed = 0
		e.setState(StateBaselineCapture)
		e.emitStatus("Recording baseline, keep your hands relaxed")
		return
	}

	secs := int(math.Ceil(remaining.Seconds()))
	if secs != e.lastTick {
		e.lastTick = secs
		e.emitCountdownTick(secs)
		e.emitStatus(countdownStatus(remaining))
	}
}

// countdownStatus maps remaining countdown time to the prompt shown to the
// user.
func countdownStatus(remaining time.Duration) string {
	switch {
	case remaining > 5*time.Second:
		return "Position your hands above the sensor"
	case remaining > 2*time.Second:
		return "Hold steady"
	default:
		return "Recording baseline"
	}
}

func (e *Engine) updateBaseline(dt time.Duration, frame tracking.Frame) {
	left, leftOK := frame.Hand(tracking.Left)
	right, rightOK := frame.Hand(tracking.Right)
	if !leftOK || !rightOK {
		// Hold until both hands come back; no progress, no abort.
		e.emitStatus("Show both hands to the sensor")
		return
	}

	e.profile.RecordBaselineSample(tracking.Left, FlexionAngles(left), left.PalmPosition)
	e.profile.RecordBaselineSample(tracking.Right, FlexionAngles(right), right.PalmPosition)

	e.baselineElapsed += dt
	fraction := float64(e.baselineElapsed) / float64(e.config.BaselineDuration)
	if fraction > 1 {
		fraction = 1
	}
	e.emitProgress(fraction)

	if e.baselineElapsed >= e.config.BaselineDuration {
		e.cursorSide = tracking.Left
		e.cursorFinger = tracking.Thumb
		e.holdElapsed = 0
		e.setState(StatePerFingerCapture)
		e.emitStatus(e.cursorPrompt())
	}
}

func (e *Engine) updatePerFinger(dt time.Duration, frame tracking.Frame) {
	hand, ok := frame.Hand(e.cursorSide)
	if !ok {
		e.holdElapsed = 0
		e.emitStatus(e.cursorPrompt())
		return
	}

	current := FlexionAngles(hand)[e.cursorFinger]
	baseline := e.profile.baseline[e.cursorSide][e.cursorFinger]
	delta := math.Abs(current - baseline)

	if delta <= e.config.MinDetectionThreshold {
		// The press must be held continuously; restart the hold timer.
		e.holdElapsed = 0
		e.emitStatus(e.cursorPrompt())
		return
	}

	e.profile.RecordPressedSample(e.cursorSide, e.cursorFinger, current)
	e.holdElapsed += dt

	fraction := float64(e.holdElapsed) / float64(e.config.CalibrationTime)
	if fraction > 1 {
		fraction = 1
	}
	e.emitProgress(fraction)

	if e.holdElapsed < e.config.CalibrationTime {
		return
	}

	// The smoothed pressed angle must be clearly separated from the
	// baseline before the capture may complete.
	pressed := e.profile.pressed[e.cursorSide][e.cursorFinger]
	if math.Abs(pressed-baseline) < e.config.MinDetectionThreshold {
		e.holdElapsed = 0
		return
	}

	e.advanceCursor()
}

// cursorPrompt names the (hand, finger) pair currently being captured.
func (e *Engine) cursorPrompt() string {
	return fmt.Sprintf("Press and hold your %s %s", e.cursorSide, e.cursorFinger)
}

// advanceCursor moves per-finger capture to the next pair, left thumb
// through right pinky, completing calibration after the last one.
func (e *Engine) advanceCursor() {
	e.holdElapsed = 0

	if e.cursorFinger < tracking.Pinky {
		e.cursorFinger++
	} else if e.cursorSide == tracking.Left {
		e.cursorSide = tracking.Right
		e.cursorFinger = tracking.Thumb
	} else {
		e.completeCalibration()
		return
	}

	e.emitStatus(e.cursorPrompt())
}

func (e *Engine) completeCalibration() {
	e.calibrated = true
	e.armed = false
	e.absence = [tracking.SideCount]time.Duration{}
	e.setState(StateActive)
	e.emitStatus("Calibration complete")

	if e.config.Store == nil {
		return
	}
	if err := saveProfile(context.Background(), e.config.Store, e.profile); err != nil {
		log.Printf("Saving calibration failed: %v", err)
	}
}

func (e *Engine) updateActive(dt time.Duration, frame tracking.Frame) {
	for side := tracking.Side(0); side < tracking.SideCount; side++ {
		if _, ok := frame.Hand(side); ok {
			e.absence[side] = 0
			continue
		}
		e.absence[side] += dt
		if e.absence[side] > e.config.HandLostTimeout {
			e.setState(StatePaused)
			e.emitHandsLost()
			e.emitPaused()
			return
		}
	}

	if e.drift.CheckDrift(e.profile, frame.Hands) {
		e.setState(StatePaused)
		e.emitHandsDrifted()
		e.emitPaused()
		return
	}

	if !e.armed {
		return
	}

	hand, ok := frame.Hand(e.targetSide)
	if !ok {
		// Transient absence; skip this frame's classification.
		return
	}

	current := FlexionAngles(hand)
	result, ok := Classify(current, e.profile.baseline[e.targetSide], e.profile.pressed[e.targetSide], e.config.PressedThresholdRatio)
	if !ok {
		return
	}

	// Disarm until the consumer resets the exercise so a held press cannot
	// fire twice.
	e.armed = false
	e.emitGestureDetected(e.targetSide, result.Finger)
}

func (e *Engine) updatePaused(frame tracking.Frame) {
	if !e.drift.CheckResume(e.profile, frame.Hands) {
		return
	}

	e.absence = [tracking.SideCount]time.Duration{}
	e.setState(StateActive)
	e.emitHandsRestored()
	e.emitResumed()
}

func (e *Engine) setState(s State) {
	if s == e.state {
		return
	}
	log.Printf("Engine state: %s -> %s", e.state, s)
	e.state = s
}

// Save persists the current profile. It fails when no store is configured
// or calibration has not completed.
func (e *Engine) Save() error {
	if e.config.Store == nil {
		return errors.New("engine: no calibration store configured")
	}
	if !e.calibrated {
		return errors.New("engine: no completed calibration to save")
	}
	return saveProfile(context.Background(), e.config.Store, e.profile)
}

// Load restores a previously saved profile. It returns false when no store
// is configured, no complete profile is saved, the data is corrupt, or a
// calibration is in progress. On success the engine is calibrated and, if
// it was waiting for calibration, becomes Active.
func (e *Engine) Load() bool {
	if e.state.calibrating() {
		return false
	}

	p, ok := loadProfile(context.Background(), e.config.Store)
	if !ok {
		return false
	}

	e.profile = p
	e.calibrated = true
	e.armed = false
	if e.state == StateWaitingForCalibration {
		e.absence = [tracking.SideCount]time.Duration{}
		e.setState(StateActive)
	}
	return true
}

// HasSaved reports whether a completed profile is persisted.
func (e *Engine) HasSaved() bool {
	return hasSavedProfile(context.Background(), e.config.Store)
}

// ClearSaved removes any persisted profile. The in-memory profile is
// unaffected.
func (e *Engine) ClearSaved() error {
	return clearSavedProfile(context.Background(), e.config.Store)
}
