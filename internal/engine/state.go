package engine

// State identifies the engine's operating state. Transitions are driven by
// Update calls and the explicit calibration operations.
type State int

const (
	// StateWaitingForCalibration is the initial state: no usable profile,
	// waiting for StartCalibration or a successful Load.
	StateWaitingForCalibration State = iota
	// StatePreCountdown runs the countdown that gives the user time to
	// position their hands.
	StatePreCountdown
	// StateBaselineCapture records resting angles and palm positions for
	// both hands.
	StateBaselineCapture
	// StatePerFingerCapture records the pressed angle for each finger of
	// each hand in turn.
	StatePerFingerCapture
	// StateActive runs drift monitoring and the press classifier.
	StateActive
	// StatePaused suspends classification until hands return to their
	// calibrated position.
	StatePaused
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StateWaitingForCalibration:
		return "waiting_for_calibration"
	case StatePreCountdown:
		return "pre_countdown"
	case StateBaselineCapture:
		return "baseline_capture"
	case StatePerFingerCapture:
		return "per_finger_capture"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// calibrating reports whether s is one of the capture phases.
func (s State) calibrating() bool {
	switch s {
	case StatePreCountdown, StateBaselineCapture, StatePerFingerCapture:
		return true
	}
	return false
}
