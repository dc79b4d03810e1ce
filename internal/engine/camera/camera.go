// Package camera provides the orbit camera used to frame rendered items.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshpart/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	FovY       float32
	Near, Far  float32
	MinPitch   float32
	MaxPitch   float32
	OrbitSpeed float32 // Yaw radians per second
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:   10,
		RotationX:  0.5,
		FovY:       math32.Pi / 4,
		Near:       0.1,
		Far:        1000,
		MinPitch:   -1.5,
		MaxPitch:   1.5,
		OrbitSpeed: 0.3,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosX := math32.Cos(c.RotationX)
	return math.Vec3{
		X: c.Center.X + c.Distance*cosX*math32.Sin(c.RotationY),
		Y: c.Center.Y + c.Distance*math32.Sin(c.RotationX),
		Z: c.Center.Z + c.Distance*cosX*math32.Cos(c.RotationY),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ViewProjection returns projection * view for a viewport of the given aspect.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.FovY, aspect, c.Near, c.Far).Mul(c.ViewMatrix())
}

// SetPitch sets the pitch, clamped to [MinPitch, MaxPitch].
func (c *OrbitCamera) SetPitch(pitch float32) {
	c.RotationX = max(c.MinPitch, min(c.MaxPitch, pitch))
}

// Advance orbits the camera by OrbitSpeed over dt seconds.
func (c *OrbitCamera) Advance(dt float32) {
	c.RotationY = math32.Mod(c.RotationY+c.OrbitSpeed*dt, 2*math32.Pi)
}

// FitToBounds centers the camera on box and backs off until the box's
// bounding sphere fills the vertical field of view. Empty boxes are ignored.
func (c *OrbitCamera) FitToBounds(box math.AABox) {
	if box.IsEmpty() {
		return
	}
	c.Center = box.Center()
	radius := box.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}
	c.Distance = radius / math32.Sin(c.FovY/2)
	c.Far = max(c.Far, c.Distance+radius*2)
}
