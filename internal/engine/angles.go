package engine

import "github.com/alokshah14/LeapTracking/internal/tracking"

// FlexionAngles computes the cumulative joint flexion of each finger from
// the hand's bone directions, in degrees.
//
// The thumb sums three inter-bone angles (metacarpal to proximal, proximal
// to intermediate, intermediate to distal) because opposition movement needs
// all three joints to separate rest from press. The other fingers sum two
// (metacarpal to proximal, proximal to intermediate), where flexion
// dominates. A missing bone direction contributes zero.
func FlexionAngles(hand tracking.Hand) [tracking.FingerCount]float64 {
	var angles [tracking.FingerCount]float64
	for i, finger := range hand.Fingers {
		angles[i] = fingerFlexion(finger)
	}
	return angles
}

func fingerFlexion(f tracking.Finger) float64 {
	b := f.Bones
	sum := b[tracking.Metacarpal].Direction.AngleDeg(b[tracking.Proximal].Direction) +
		b[tracking.Proximal].Direction.AngleDeg(b[tracking.Intermediate].Direction)
	if f.Index == tracking.Thumb {
		sum += b[tracking.Intermediate].Direction.AngleDeg(b[tracking.Distal].Direction)
	}
	return sum
}
