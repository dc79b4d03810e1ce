package math

import "github.com/chewxy/math32"

// AABox is an axis-aligned bounding box. The zero value is a degenerate box
// at the origin; use EmptyAABox for a box that contains nothing.
type AABox struct {
	Min Vec3
	Max Vec3
}

// EmptyAABox returns a box with inverted infinite extents. Any union with it
// yields the other operand.
func EmptyAABox() AABox {
	inf := math32.Inf(1)
	return AABox{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABox returns the box spanning the two corners, in any order.
func NewAABox(a, b Vec3) AABox {
	return AABox{Min: a.Min(b), Max: a.Max(b)}
}

// IsEmpty reports whether the box contains no point.
func (b AABox) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Center returns the midpoint of the box.
func (b AABox) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents.
func (b AABox) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ExpandByPoint grows the box to include p.
func (b *AABox) ExpandByPoint(p Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Union returns the smallest box containing both b and other.
func (b AABox) Union(other AABox) AABox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return AABox{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Contains reports whether other lies entirely inside b (inclusive).
func (b AABox) Contains(other AABox) bool {
	if other.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	return other.Min.X >= b.Min.X && other.Min.Y >= b.Min.Y && other.Min.Z >= b.Min.Z &&
		other.Max.X <= b.Max.X && other.Max.Y <= b.Max.Y && other.Max.Z <= b.Max.Z
}

// ApproxEqual compares both corners within eps.
func (b AABox) ApproxEqual(other AABox, eps float32) bool {
	return approx(b.Min, other.Min, eps) && approx(b.Max, other.Max, eps)
}

// Corners returns the eight corner points.
func (b AABox) Corners() [8]Vec3 {
	return [8]Vec3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

// Transform returns the axis-aligned box enclosing b after applying m.
func (b AABox) Transform(m Mat4) AABox {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABox()
	for _, c := range b.Corners() {
		out.ExpandByPoint(m.TransformPoint(c))
	}
	return out
}

func approx(a, b Vec3, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps && math32.Abs(a.Y-b.Y) <= eps && math32.Abs(a.Z-b.Z) <= eps
}
