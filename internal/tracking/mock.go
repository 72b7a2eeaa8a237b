package tracking

import (
	"math"
	"sync"
)

// MockSource is a Source implementation for testing. Frames pushed with
// Push are delivered on the Frames channel.
type MockSource struct {
	frames    chan Frame
	closeOnce sync.Once
}

// NewMockSource creates a new MockSource with a generous frame buffer.
func NewMockSource() *MockSource {
	return &MockSource{
		frames: make(chan Frame, 256),
	}
}

// Frames returns the channel of pushed frames.
func (m *MockSource) Frames() <-chan Frame {
	return m.frames
}

// Push delivers a frame to the consumer. It drops the frame if the buffer
// is full, matching real source behavior.
func (m *MockSource) Push(f Frame) {
	select {
	case m.frames <- f:
	default:
	}
}

// Close closes the frame channel.
func (m *MockSource) Close() error {
	m.closeOnce.Do(func() {
		close(m.frames)
	})
	return nil
}

// Preset fixture builders for tests.

// RestFlexion is the flexion angle fixtures use for a relaxed finger.
const RestFlexion = 40.0

// Fixture bone lengths in meters, palm outward.
var fixtureBoneLengths = [BoneCount]float64{0.040, 0.035, 0.025, 0.018}

// RestingPalm returns a plausible palm position for the given side, roughly
// 8cm to either side of the sensor and 20cm above it.
func RestingPalm(side Side) Vector3 {
	x := 0.08
	if side == Left {
		x = -0.08
	}
	return Vector3{X: x, Y: 0.2, Z: 0}
}

// HandWithFlexion builds a tracked hand whose fingers have the given total
// flexion angles in degrees. Each finger is bent evenly across its measured
// joints, so the flexion angle computed from the bone directions equals the
// requested value.
func HandWithFlexion(side Side, flexion [FingerCount]float64) Hand {
	hand := Hand{
		Side:         side,
		PalmPosition: RestingPalm(side),
	}

	for f := 0; f < int(FingerCount); f++ {
		hand.Fingers[f] = fixtureFinger(FingerIndex(f), hand.PalmPosition, flexion[f])
	}
	return hand
}

// RestingHand builds a hand with every finger at RestFlexion.
func RestingHand(side Side) Hand {
	var flexion [FingerCount]float64
	for i := range flexion {
		flexion[i] = RestFlexion
	}
	return HandWithFlexion(side, flexion)
}

// FlexedHand builds a resting hand with one finger flexed to the given
// angle.
func FlexedHand(side Side, finger FingerIndex, angle float64) Hand {
	h := RestingHand(side)
	h.Fingers[finger] = fixtureFinger(finger, h.PalmPosition, angle)
	return h
}

// FrameAt builds a frame with the given timestamp in microseconds.
func FrameAt(timestamp int64, hands ...Hand) Frame {
	return Frame{
		ID:        timestamp,
		Timestamp: timestamp,
		Hands:     hands,
	}
}

// fixtureFinger builds one finger curling in the YZ plane. The total bend is
// distributed over the joints the flexion measurement sums: three inter-bone
// angles for the thumb, two for the others.
func fixtureFinger(index FingerIndex, palm Vector3, flexion float64) Finger {
	joints := 2.0
	if index == Thumb {
		joints = 3.0
	}
	step := flexion / joints

	// Cumulative bend per bone, starting from a straight metacarpal.
	var bends [BoneCount]float64
	bends[Metacarpal] = 0
	bends[Proximal] = step
	if index == Thumb {
		bends[Intermediate] = 2 * step
		bends[Distal] = 3 * step
	} else {
		bends[Intermediate] = 2 * step
		bends[Distal] = 2 * step
	}

	finger := Finger{Index: index}
	// Spread fingers along X so joints do not overlap.
	prev := palm.Add(Vector3{X: float64(index-2) * 0.018})
	for b := 0; b < BoneCount; b++ {
		dir := bentDirection(bends[b])
		next := prev.Add(dir.Scale(fixtureBoneLengths[b]))
		finger.Bones[b] = Bone{PrevJoint: prev, NextJoint: next, Direction: dir}
		prev = next
	}
	return finger
}

// bentDirection returns a unit direction bent the given number of degrees
// from straight-ahead (-Z) toward the palm (-Y).
func bentDirection(deg float64) Vector3 {
	rad := deg * math.Pi / 180
	return Vector3{X: 0, Y: -math.Sin(rad), Z: -math.Cos(rad)}
}
