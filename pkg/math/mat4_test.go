package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	result := m.TransformPoint(Vec3{1, 2, 3})

	if want := (Vec3{11, 22, 33}); result != want {
		t.Errorf("TransformPoint: got %v, want %v", result, want)
	}
}

func TestTransformPointScale(t *testing.T) {
	result := Scale(2, 2, 2).TransformPoint(Vec3{1, 2, 3})

	if want := (Vec3{2, 4, 6}); result != want {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, want)
	}
}

func TestTRS(t *testing.T) {
	// Scale first, then rotate 90 degrees about Y, then translate.
	r := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2))
	m := TRS(Vec3{1, 0, 0}, r, Vec3{2, 2, 2})

	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{1, 0, -2}
	if abs(got.X-want.X) > 0.001 || abs(got.Y-want.Y) > 0.001 || abs(got.Z-want.Z) > 0.001 {
		t.Errorf("TRS point = %v, want %v", got, want)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
