package engine

import "github.com/alokshah14/LeapTracking/internal/tracking"

// Smoothing weights for calibration samples.
const (
	smoothKeep   = 0.8
	smoothSample = 0.2
)

// Profile holds the learned calibration constants: a baseline (resting) and
// a pressed flexion angle per finger, plus a baseline palm position per
// hand. The engine owns and mutates the profile; consumers only ever see
// value copies via Snapshot.
type Profile struct {
	baseline [tracking.SideCount][tracking.FingerCount]float64
	pressed  [tracking.SideCount][tracking.FingerCount]float64
	position [tracking.SideCount]tracking.Vector3
}

// Snapshot is a read-only copy of a profile.
type Snapshot struct {
	Baseline [tracking.SideCount][tracking.FingerCount]float64
	Pressed  [tracking.SideCount][tracking.FingerCount]float64
	Position [tracking.SideCount]tracking.Vector3
}

// NewProfile creates an empty profile.
func NewProfile() *Profile {
	return &Profile{}
}

// smooth folds a new sample into an existing estimate. The first sample
// seeds the value directly so the estimate is not biased toward zero.
func smooth(existing, sample float64) float64 {
	if existing == 0 {
		return sample
	}
	return existing*smoothKeep + sample*smoothSample
}

// RecordBaselineSample folds one frame's resting angles and palm position
// into the baseline for the given hand.
func (p *Profile) RecordBaselineSample(side tracking.Side, angles [tracking.FingerCount]float64, palm tracking.Vector3) {
	for i, a := range angles {
		p.baseline[side][i] = smooth(p.baseline[side][i], a)
	}
	p.position[side] = tracking.Vector3{
		X: smooth(p.position[side].X, palm.X),
		Y: smooth(p.position[side].Y, palm.Y),
		Z: smooth(p.position[side].Z, palm.Z),
	}
}

// RecordPressedSample folds one frame's flexed angle into the pressed value
// for the given finger.
func (p *Profile) RecordPressedSample(side tracking.Side, finger tracking.FingerIndex, angle float64) {
	p.pressed[side][finger] = smooth(p.pressed[side][finger], angle)
}

// Reset clears all learned values.
func (p *Profile) Reset() {
	*p = Profile{}
}

// Snapshot returns a value copy of the profile.
func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		Baseline: p.baseline,
		Pressed:  p.pressed,
		Position: p.position,
	}
}
