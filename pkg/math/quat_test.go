package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.Dot(n))))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	m := QuatIdentity().ToMat4()

	if !m.ApproxEqual(Identity(), 0.0001) {
		t.Errorf("Identity quat should produce identity matrix, got %v", m)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))
	p := Vec3{1, 2, 3}

	got := q.Rotate(p)
	want := q.ToMat4().TransformPoint(p)
	if !approx(got, want, 0.001) {
		t.Errorf("Rotate: got %v, matrix gives %v", got, want)
	}
	if !approx(q.Rotate(Vec3{1, 0, 0}), Vec3{0, 0, -1}, 0.001) {
		t.Errorf("Rotate Y 90 of +X: got %v, want (0, 0, -1)", q.Rotate(Vec3{1, 0, 0}))
	}
}

func TestQuatMulComposes(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{X: 0, Y: 0, Z: 1}, float32(math.Pi/2))
	b := QuatFromAxisAngle(Vec3{X: 1, Y: 0, Z: 0}, float32(math.Pi/2))
	p := Vec3{0, 1, 0}

	got := a.Mul(b).Rotate(p)
	want := a.Rotate(b.Rotate(p))
	if !approx(got, want, 0.001) {
		t.Errorf("(a*b).Rotate(p) = %v, want a.Rotate(b.Rotate(p)) = %v", got, want)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, math.Pi/2)

	result0 := q1.Slerp(q2, 0)
	if math.Abs(float64(result0.Dot(q1)-1)) > 0.0001 {
		t.Errorf("Slerp at t=0 should equal q1, got %v", result0)
	}

	result1 := q1.Slerp(q2, 1)
	if math.Abs(float64(result1.Dot(q2)-1)) > 0.0001 {
		t.Errorf("Slerp at t=1 should equal q2, got %v", result1)
	}

	half := q1.Slerp(q2, 0.5)
	want := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, math.Pi/4)
	if math.Abs(float64(half.Dot(want)-1)) > 0.0001 {
		t.Errorf("Slerp at t=0.5 should be a quarter turn, got %v", half)
	}
}
