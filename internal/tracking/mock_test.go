package tracking

import (
	"math"
	"testing"
)

// Interface compliance checks.
var (
	_ Source = (*MockSource)(nil)
	_ Source = (*LeapSource)(nil)
)

func TestMockSource_PushAndClose(t *testing.T) {
	src := NewMockSource()

	src.Push(FrameAt(100, RestingHand(Left)))
	src.Push(FrameAt(200, RestingHand(Right)))

	f := <-src.Frames()
	if f.Timestamp != 100 {
		t.Errorf("first frame timestamp = %d, want 100", f.Timestamp)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Drain the remaining frame, then the channel must report closed.
	<-src.Frames()
	if _, ok := <-src.Frames(); ok {
		t.Error("frame channel still open after Close")
	}
}

func TestMockSource_CloseTwice(t *testing.T) {
	src := NewMockSource()
	if err := src.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

// measuredFlexion sums the inter-bone angles the same way detection does:
// three joints for the thumb, two for the other fingers.
func measuredFlexion(f Finger) float64 {
	sum := f.Bones[Metacarpal].Direction.AngleDeg(f.Bones[Proximal].Direction) +
		f.Bones[Proximal].Direction.AngleDeg(f.Bones[Intermediate].Direction)
	if f.Index == Thumb {
		sum += f.Bones[Intermediate].Direction.AngleDeg(f.Bones[Distal].Direction)
	}
	return sum
}

func TestHandWithFlexion_AnglesMatch(t *testing.T) {
	flexion := [FingerCount]float64{35, 60, 90, 120, 15}
	hand := HandWithFlexion(Left, flexion)

	for i, f := range hand.Fingers {
		got := measuredFlexion(f)
		if math.Abs(got-flexion[i]) > 1e-6 {
			t.Errorf("finger %v flexion = %f, want %f", f.Index, got, flexion[i])
		}
	}
}

func TestRestingHand(t *testing.T) {
	hand := RestingHand(Right)

	if hand.Side != Right {
		t.Errorf("side = %v, want Right", hand.Side)
	}
	if hand.PalmPosition != RestingPalm(Right) {
		t.Errorf("palm = %+v, want %+v", hand.PalmPosition, RestingPalm(Right))
	}
	for _, f := range hand.Fingers {
		if got := measuredFlexion(f); math.Abs(got-RestFlexion) > 1e-6 {
			t.Errorf("finger %v flexion = %f, want %f", f.Index, got, RestFlexion)
		}
	}
}

func TestFlexedHand_OnlyTargetFingerMoves(t *testing.T) {
	hand := FlexedHand(Right, Middle, 110)

	for _, f := range hand.Fingers {
		want := RestFlexion
		if f.Index == Middle {
			want = 110
		}
		if got := measuredFlexion(f); math.Abs(got-want) > 1e-6 {
			t.Errorf("finger %v flexion = %f, want %f", f.Index, got, want)
		}
	}
}

func TestFixtureBones_HaveUnitDirections(t *testing.T) {
	hand := RestingHand(Left)
	for _, f := range hand.Fingers {
		for b, bone := range f.Bones {
			if !floatEqual(bone.Direction.Length(), 1) {
				t.Errorf("finger %v bone %d direction length = %f, want 1", f.Index, b, bone.Direction.Length())
			}
			// Joints must be connected: each bone starts at the previous end.
			if b > 0 && bone.PrevJoint != f.Bones[b-1].NextJoint {
				t.Errorf("finger %v bone %d disconnected from previous bone", f.Index, b)
			}
		}
	}
}
