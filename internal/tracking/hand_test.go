package tracking

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestVector3_Length(t *testing.T) {
	v := Vector3{X: 3, Y: 4, Z: 0}
	if !floatEqual(v.Length(), 5) {
		t.Errorf("Length() = %f, want 5", v.Length())
	}
}

func TestVector3_Distance(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 1, Y: 2, Z: 3}

	t.Run("zero distance to itself", func(t *testing.T) {
		if d := a.Distance(b); !floatEqual(d, 0) {
			t.Errorf("Distance() = %f, want 0", d)
		}
	})

	t.Run("euclidean distance", func(t *testing.T) {
		c := Vector3{X: 4, Y: 6, Z: 3}
		if d := a.Distance(c); !floatEqual(d, 5) {
			t.Errorf("Distance() = %f, want 5", d)
		}
	})
}

func TestVector3_Normalized(t *testing.T) {
	t.Run("unit length after normalization", func(t *testing.T) {
		v := Vector3{X: 10, Y: 0, Z: 0}.Normalized()
		if !floatEqual(v.Length(), 1) {
			t.Errorf("normalized length = %f, want 1", v.Length())
		}
	})

	t.Run("zero vector unchanged", func(t *testing.T) {
		v := Vector3{}.Normalized()
		if !v.IsZero() {
			t.Errorf("normalized zero vector = %+v, want zero", v)
		}
	})
}

func TestVector3_AngleDeg(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector3
		want float64
	}{
		{"parallel vectors", Vector3{X: 1}, Vector3{X: 2}, 0},
		{"perpendicular vectors", Vector3{X: 1}, Vector3{Y: 1}, 90},
		{"opposite vectors", Vector3{X: 1}, Vector3{X: -1}, 180},
		{"45 degrees", Vector3{X: 1}, Vector3{X: 1, Y: 1}, 45},
		{"zero vector yields zero", Vector3{}, Vector3{X: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.AngleDeg(tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AngleDeg() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestVector3_AngleDeg_ClampsRoundingError(t *testing.T) {
	// Nearly identical unit vectors can push the cosine above 1.
	a := Vector3{X: 0.5773502691896258, Y: 0.5773502691896258, Z: 0.5773502691896258}
	got := a.AngleDeg(a)
	if math.IsNaN(got) {
		t.Fatal("AngleDeg() returned NaN for identical vectors")
	}
	if !floatEqual(got, 0) {
		t.Errorf("AngleDeg() = %f, want 0", got)
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"left", Left, true},
		{"right", Right, true},
		{"thumb", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseSide(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseSide(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSide_String(t *testing.T) {
	if Left.String() != "left" || Right.String() != "right" {
		t.Errorf("Side strings = %q, %q, want left, right", Left, Right)
	}
}

func TestFingerIndex_String(t *testing.T) {
	want := []string{"thumb", "index", "middle", "ring", "pinky"}
	for i, w := range want {
		if got := FingerIndex(i).String(); got != w {
			t.Errorf("FingerIndex(%d).String() = %q, want %q", i, got, w)
		}
	}
}

func TestFrame_Hand(t *testing.T) {
	frame := FrameAt(1000, RestingHand(Right))

	t.Run("finds visible hand", func(t *testing.T) {
		h, ok := frame.Hand(Right)
		if !ok {
			t.Fatal("Hand(Right) not found in frame")
		}
		if h.Side != Right {
			t.Errorf("hand side = %v, want Right", h.Side)
		}
	})

	t.Run("missing hand reports false", func(t *testing.T) {
		if _, ok := frame.Hand(Left); ok {
			t.Error("Hand(Left) found, want missing")
		}
	})
}
