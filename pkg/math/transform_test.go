package math

import (
	"math"
	"testing"
)

func TestIdentityTransformMatrix(t *testing.T) {
	if !IdentityTransform().Matrix().IsIdentity() {
		t.Errorf("identity transform matrix: got %v", IdentityTransform().Matrix())
	}
}

func TestTransformMatrixMatchesTransformPoint(t *testing.T) {
	tr := Transform{
		Rotation:    QuatFromAxisAngle(Vec3{0, 0, 1}, float32(math.Pi/3)),
		Scale:       Vec3{2, 1, 0.5},
		Translation: Vec3{1, -2, 3},
	}
	p := Vec3{0.5, 1.5, -2}

	got := tr.Matrix().TransformPoint(p)
	want := tr.TransformPoint(p)
	if !approx(got, want, 0.0001) {
		t.Errorf("Matrix().TransformPoint = %v, TransformPoint = %v", got, want)
	}
}

func TestTranslationTransform(t *testing.T) {
	tr := TranslationTransform(1, 2, 3)
	if tr.TransformPoint(Vec3{1, 1, 1}) != (Vec3{2, 3, 4}) {
		t.Errorf("TranslationTransform: got %v", tr.TransformPoint(Vec3{1, 1, 1}))
	}
}

func TestDualQuat(t *testing.T) {
	tr := TranslationTransform(2, 4, 6)
	real, dual := tr.DualQuat()

	if real != QuatIdentity() {
		t.Errorf("real part of pure translation: got %+v", real)
	}
	// dual = 0.5 * t * r with r = identity
	want := Quat{X: 1, Y: 2, Z: 3, W: 0}
	if dual != want {
		t.Errorf("dual part: got %+v, want %+v", dual, want)
	}
}

func TestTransformLerp(t *testing.T) {
	a := TranslationTransform(0, 0, 0)
	b := TranslationTransform(10, -4, 2)
	b.Scale = Vec3{3, 3, 3}

	mid := a.Lerp(b, 0.5)
	if mid.Translation != (Vec3{5, -2, 1}) {
		t.Errorf("translation: got %v", mid.Translation)
	}
	if mid.Scale != (Vec3{2, 2, 2}) {
		t.Errorf("scale: got %v", mid.Scale)
	}
	if math.Abs(float64(mid.Rotation.W-1)) > 0.0001 {
		t.Errorf("rotation should stay identity, got %v", mid.Rotation)
	}
}
