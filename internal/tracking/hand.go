// Package tracking provides the hand tracking data model and frame sources
// for finger press detection.
package tracking

import "math"

// Side identifies which hand a tracked hand belongs to.
type Side int

const (
	// Left is the left hand.
	Left Side = iota
	// Right is the right hand.
	Right
	// SideCount is the number of hand sides.
	SideCount
)

// String returns the lowercase name of the side, matching the wire format
// used by the tracking service.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// ParseSide converts a wire-format hand type ("left" or "right") to a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

// FingerIndex identifies a finger on a hand. The order is fixed and matches
// the tracking service's pointable type field.
type FingerIndex int

const (
	Thumb FingerIndex = iota
	Index
	Middle
	Ring
	Pinky
	// FingerCount is the number of fingers per hand.
	FingerCount
)

// String returns the lowercase finger name.
func (f FingerIndex) String() string {
	switch f {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	}
	return "unknown"
}

// Bone slots within a finger, ordered from the palm outward.
const (
	Metacarpal   = 0
	Proximal     = 1
	Intermediate = 2
	Distal       = 3
	// BoneCount is the number of bones per finger.
	BoneCount = 4
)

// Vector3 represents a 3D vector or position in meters.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and w.
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Length returns the Euclidean length of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Distance returns the Euclidean distance between v and w.
func (v Vector3) Distance(w Vector3) float64 {
	return v.Sub(w).Length()
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l < 1e-10 {
		return v
	}
	return Vector3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// IsZero reports whether v is the zero vector.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// AngleDeg returns the unsigned angle between v and w in degrees, in the
// range [0, 180]. If either vector is zero the angle is 0.
func (v Vector3) AngleDeg(w Vector3) float64 {
	lv := v.Length()
	lw := w.Length()
	if lv < 1e-10 || lw < 1e-10 {
		return 0
	}
	cos := v.Dot(w) / (lv * lw)
	// Clamp against floating point error before acos.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// Bone is a single finger bone with its joint positions and direction.
type Bone struct {
	PrevJoint Vector3 `json:"prev_joint"`
	NextJoint Vector3 `json:"next_joint"`
	Direction Vector3 `json:"direction"`
}

// Finger holds the four bones of one finger.
type Finger struct {
	Index FingerIndex     `json:"index"`
	Bones [BoneCount]Bone `json:"bones"`
}

// Hand is one tracked hand in a frame.
type Hand struct {
	Side         Side                `json:"side"`
	PalmPosition Vector3             `json:"palm_position"`
	Fingers      [FingerCount]Finger `json:"fingers"`
}

// Frame is one tracking update: zero or more visible hands plus the service
// timestamp in microseconds.
type Frame struct {
	ID        int64  `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Hands     []Hand `json:"hands"`
}

// Hand returns the tracked hand for the given side, if visible this frame.
func (f Frame) Hand(side Side) (Hand, bool) {
	for _, h := range f.Hands {
		if h.Side == side {
			return h, true
		}
	}
	return Hand{}, false
}
