package tracking

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/alokshah14/LeapTracking/testdata"
)

func loadLeapMessage(t *testing.T, name string) leapMessage {
	t.Helper()

	data, err := testdata.LoadFrame(name)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}

	var msg leapMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshaling fixture %s: %v", name, err)
	}
	return msg
}

func TestDecodeLeapFrame_RecordedFrame(t *testing.T) {
	msg := loadLeapMessage(t, "two_hands.json")

	frame, ok := decodeLeapFrame(msg)
	if !ok {
		t.Fatal("decodeLeapFrame() rejected a tracking frame")
	}

	if frame.ID != 413058 {
		t.Errorf("frame ID = %d, want 413058", frame.ID)
	}
	if frame.Timestamp != 5361437921 {
		t.Errorf("frame timestamp = %d, want 5361437921", frame.Timestamp)
	}
	if len(frame.Hands) != 2 {
		t.Fatalf("hand count = %d, want 2", len(frame.Hands))
	}

	t.Run("hand sides and palms decoded in meters", func(t *testing.T) {
		left, ok := frame.Hand(Left)
		if !ok {
			t.Fatal("left hand missing")
		}
		if math.Abs(left.PalmPosition.X-(-0.080213)) > 1e-9 {
			t.Errorf("left palm X = %f, want -0.080213", left.PalmPosition.X)
		}

		right, ok := frame.Hand(Right)
		if !ok {
			t.Fatal("right hand missing")
		}
		if math.Abs(right.PalmPosition.Y-0.198773) > 1e-9 {
			t.Errorf("right palm Y = %f, want 0.198773", right.PalmPosition.Y)
		}
	})

	t.Run("bones form connected chains", func(t *testing.T) {
		for _, hand := range frame.Hands {
			for _, finger := range hand.Fingers {
				for b := 1; b < BoneCount; b++ {
					if finger.Bones[b].PrevJoint != finger.Bones[b-1].NextJoint {
						t.Errorf("%v %v bone %d disconnected", hand.Side, finger.Index, b)
					}
				}
			}
		}
	})

	t.Run("zero-length thumb metacarpal inherits direction", func(t *testing.T) {
		left, _ := frame.Hand(Left)
		thumb := left.Fingers[Thumb]

		if thumb.Bones[Metacarpal].PrevJoint != thumb.Bones[Metacarpal].NextJoint {
			t.Fatal("fixture thumb metacarpal is not zero length")
		}
		if thumb.Bones[Metacarpal].Direction.IsZero() {
			t.Error("thumb metacarpal direction is zero, want inherited")
		}
		if thumb.Bones[Metacarpal].Direction != thumb.Bones[Proximal].Direction {
			t.Errorf("thumb metacarpal direction = %+v, want proximal %+v",
				thumb.Bones[Metacarpal].Direction, thumb.Bones[Proximal].Direction)
		}
	})

	t.Run("finger directions are unit length", func(t *testing.T) {
		for _, hand := range frame.Hands {
			for _, finger := range hand.Fingers {
				for b, bone := range finger.Bones {
					if l := bone.Direction.Length(); math.Abs(l-1) > 1e-6 {
						t.Errorf("%v %v bone %d direction length = %f, want 1", hand.Side, finger.Index, b, l)
					}
				}
			}
		}
	})
}

func TestDecodeLeapFrame_ServiceHandshake(t *testing.T) {
	msg := loadLeapMessage(t, "service_handshake.json")

	if _, ok := decodeLeapFrame(msg); ok {
		t.Error("decodeLeapFrame() accepted a handshake message as a frame")
	}
}

func TestDecodeLeapFrame_MalformedData(t *testing.T) {
	t.Run("unknown hand type skipped", func(t *testing.T) {
		msg := leapMessage{
			ID:        7,
			Timestamp: 1000,
			Hands: []leapHand{
				{ID: 1, Type: "elbow", PalmPosition: [3]float64{0, 200, 0}},
				{ID: 2, Type: "right", PalmPosition: [3]float64{80, 200, 0}},
			},
		}

		frame, ok := decodeLeapFrame(msg)
		if !ok {
			t.Fatal("decodeLeapFrame() rejected frame")
		}
		if len(frame.Hands) != 1 {
			t.Fatalf("hand count = %d, want 1", len(frame.Hands))
		}
		if frame.Hands[0].Side != Right {
			t.Errorf("kept hand side = %v, want Right", frame.Hands[0].Side)
		}
	})

	t.Run("invalid finger type skipped", func(t *testing.T) {
		msg := leapMessage{
			ID:        8,
			Timestamp: 2000,
			Hands:     []leapHand{{ID: 1, Type: "left"}},
			Pointables: []leapPointable{
				{ID: 10, HandID: 1, Type: 9},
				{ID: 11, HandID: 1, Type: 2, McpPosition: [3]float64{0, 0, 0}, PipPosition: [3]float64{0, 0, -30}},
			},
		}

		frame, ok := decodeLeapFrame(msg)
		if !ok {
			t.Fatal("decodeLeapFrame() rejected frame")
		}

		middle := frame.Hands[0].Fingers[Middle]
		if middle.Bones[Proximal].Direction.IsZero() {
			t.Error("valid pointable was not attached")
		}
	})

	t.Run("pointable for unknown hand ignored", func(t *testing.T) {
		msg := leapMessage{
			ID:         9,
			Timestamp:  3000,
			Hands:      []leapHand{{ID: 1, Type: "left"}},
			Pointables: []leapPointable{{ID: 12, HandID: 99, Type: 0}},
		}

		if _, ok := decodeLeapFrame(msg); !ok {
			t.Fatal("decodeLeapFrame() rejected frame")
		}
	})

	t.Run("frame with no hands still delivered", func(t *testing.T) {
		msg := leapMessage{ID: 10, Timestamp: 4000}

		frame, ok := decodeLeapFrame(msg)
		if !ok {
			t.Fatal("decodeLeapFrame() rejected empty frame")
		}
		if len(frame.Hands) != 0 {
			t.Errorf("hand count = %d, want 0", len(frame.Hands))
		}
	})
}
