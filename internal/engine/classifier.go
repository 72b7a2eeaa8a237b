package engine

import (
	"math"

	"github.com/alokshah14/LeapTracking/internal/tracking"
)

// Classification is the result of a successful press classification.
type Classification struct {
	Finger     tracking.FingerIndex
	Confidence float64
}

// Classify decides which finger, if any, is currently pressed.
//
// A finger is a candidate when its live angle is markedly closer to the
// learned pressed angle than to the learned baseline:
//
//	|current - pressed| < |current - baseline| * ratio
//
// Among candidates the winner maximizes the margin
// |current - baseline| - |current - pressed|. Fingers are scanned 0 to 4
// and ties keep the first, so the result is deterministic for fixed inputs.
// The second return is false when no finger qualifies.
func Classify(current, baseline, pressed [tracking.FingerCount]float64, ratio float64) (Classification, bool) {
	best := Classification{}
	found := false

	for i := 0; i < int(tracking.FingerCount); i++ {
		distToBase := math.Abs(current[i] - baseline[i])
		distToPressed := math.Abs(current[i] - pressed[i])

		if distToPressed >= distToBase*ratio {
			continue
		}

		confidence := distToBase - distToPressed
		if !found || confidence > best.Confidence {
			best = Classification{Finger: tracking.FingerIndex(i), Confidence: confidence}
			found = true
		}
	}

	return best, found
}
