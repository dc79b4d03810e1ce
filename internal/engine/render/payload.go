package render

import "github.com/Faultbox/meshpart/pkg/math"

// Payload is the capability set the scene pass needs from a renderable item.
type Payload interface {
	Key() ItemKey
	Bound() math.AABox
	ShapeKey() ShapeKey
	Render(args *Args)
}

// LayeredPayload is implemented by payloads that can draw in front or HUD layers.
type LayeredPayload interface {
	Payload
	Layer() Layer
}

// PayloadKey returns p's key, or an opaque shape key for a nil payload.
func PayloadKey(p Payload) ItemKey {
	if p == nil {
		return OpaqueShape()
	}
	return p.Key()
}

// PayloadBound returns p's bound, or an empty box for a nil payload.
func PayloadBound(p Payload) math.AABox {
	if p == nil {
		return math.EmptyAABox()
	}
	return p.Bound()
}

// PayloadShapeKey returns p's shape key, or the invalid sentinel for a nil payload.
func PayloadShapeKey(p Payload) ShapeKey {
	if p == nil {
		return InvalidShapeKey()
	}
	return p.ShapeKey()
}

// PayloadLayer returns p's layer, or Layer3D when p is nil or not layered.
func PayloadLayer(p Payload) Layer {
	if lp, ok := p.(LayeredPayload); ok {
		return lp.Layer()
	}
	return Layer3D
}
