package math

// Transform is a decomposed rotation/scale/translation pose.
// Scale is applied first, then rotation, then translation.
type Transform struct {
	Rotation    Quat
	Scale       Vec3
	Translation Vec3
}

// IdentityTransform returns the pose that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: QuatIdentity(),
		Scale:    Vec3{1, 1, 1},
	}
}

// TranslationTransform returns a pure translation pose.
func TranslationTransform(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = Vec3{x, y, z}
	return t
}

// Matrix returns T * R * S.
func (t Transform) Matrix() Mat4 {
	m := t.Rotation.ToMat4()
	m[0], m[1], m[2] = m[0]*t.Scale.X, m[1]*t.Scale.X, m[2]*t.Scale.X
	m[4], m[5], m[6] = m[4]*t.Scale.Y, m[5]*t.Scale.Y, m[6]*t.Scale.Y
	m[8], m[9], m[10] = m[8]*t.Scale.Z, m[9]*t.Scale.Z, m[10]*t.Scale.Z
	m[12], m[13], m[14] = t.Translation.X, t.Translation.Y, t.Translation.Z
	return m
}

// TransformPoint applies the pose to p.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Translation)
}

// Lerp interpolates between t and other: translation and scale linearly,
// rotation by slerp.
func (t Transform) Lerp(other Transform, f float32) Transform {
	return Transform{
		Rotation:    t.Rotation.Slerp(other.Rotation, f),
		Scale:       t.Scale.Add(other.Scale.Sub(t.Scale).Scale(f)),
		Translation: t.Translation.Add(other.Translation.Sub(t.Translation).Scale(f)),
	}
}

// DualQuat returns the unit dual quaternion (real, dual) for the rigid part of
// the pose. Scale is not representable and must be carried separately.
func (t Transform) DualQuat() (real, dual Quat) {
	real = t.Rotation.Normalize()
	tq := Quat{X: t.Translation.X, Y: t.Translation.Y, Z: t.Translation.Z}
	dual = tq.Mul(real).Scale(0.5)
	return real, dual
}
