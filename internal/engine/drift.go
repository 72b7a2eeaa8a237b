package engine

import "github.com/alokshah14/LeapTracking/internal/tracking"

// resumeFactor tightens the resume check relative to the drift threshold so
// a hand hovering at the boundary cannot oscillate between paused and
// active.
const resumeFactor = 0.7

// DriftMonitor compares live palm positions against the calibrated baseline
// positions.
type DriftMonitor struct {
	maxDrift float64
}

// NewDriftMonitor creates a monitor with the given maximum palm drift in
// meters.
func NewDriftMonitor(maxDrift float64) *DriftMonitor {
	return &DriftMonitor{maxDrift: maxDrift}
}

// CheckDrift reports whether any visible hand with a calibrated baseline
// position has moved beyond the drift threshold.
func (m *DriftMonitor) CheckDrift(p *Profile, hands []tracking.Hand) bool {
	for _, hand := range hands {
		base := p.position[hand.Side]
		if base.IsZero() {
			continue
		}
		if hand.PalmPosition.Distance(base) > m.maxDrift {
			return true
		}
	}
	return false
}

// CheckResume reports whether every calibrated hand is visible and back
// within the tightened resume distance of its baseline position.
func (m *DriftMonitor) CheckResume(p *Profile, hands []tracking.Hand) bool {
	limit := m.maxDrift * resumeFactor

	for side := tracking.Side(0); side < tracking.SideCount; side++ {
		base := p.position[side]
		if base.IsZero() {
			continue
		}

		var hand tracking.Hand
		found := false
		for _, h := range hands {
			if h.Side == side {
				hand = h
				found = true
				break
			}
		}
		if !found {
			return false
		}
		if hand.PalmPosition.Distance(base) > limit {
			return false
		}
	}
	return true
}
