// Package debug provides debug visualization utilities.
package debug

import (
	"fmt"

	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/internal/engine/payload"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/pkg/math"
)

// BoundEdgeVertexCount is the number of endpoints for a bound wireframe (12 edges × 2).
const BoundEdgeVertexCount = 24

// DefaultBoundPadding is the default padding for bound boxes.
const DefaultBoundPadding = 0.05

// BoundEdges returns the 12 edges of box as consecutive endpoint pairs.
func BoundEdges(box math.AABox) []math.Vec3 {
	lo, hi := box.Min, box.Max
	return []math.Vec3{
		// Bottom face (4 edges)
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z}, {X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: lo.X, Y: lo.Y, Z: lo.Z},
		// Top face (4 edges)
		{X: lo.X, Y: hi.Y, Z: lo.Z}, {X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z}, {X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		// Vertical edges (4 edges)
		{X: lo.X, Y: lo.Y, Z: lo.Z}, {X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z}, {X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z}, {X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z}, {X: lo.X, Y: hi.Y, Z: hi.Z},
	}
}

// PadBound grows box by padding on every side. Empty boxes are returned as is.
func PadBound(box math.AABox, padding float32) math.AABox {
	if box.IsEmpty() {
		return box
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	return math.AABox{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}
}

// boxIndices are the 12 outward-facing triangles over the corner order of
// math.AABox.Corners.
var boxIndices = []uint32{
	0, 2, 1, 1, 2, 3, // -z
	4, 5, 6, 5, 7, 6, // +z
	0, 1, 4, 1, 5, 4, // -y
	2, 6, 3, 3, 6, 7, // +y
	0, 4, 2, 2, 4, 6, // -x
	1, 3, 5, 3, 7, 5, // +x
}

// NewBoundMesh builds a one-part box mesh covering box. Normals point away
// from the box center.
func NewBoundMesh(box math.AABox) (*graphics.Mesh, error) {
	if box.IsEmpty() {
		return nil, fmt.Errorf("bound mesh: empty box")
	}
	corners := box.Corners()
	center := box.Center()
	data := graphics.MeshData{
		Positions: corners[:],
		Normals:   make([]math.Vec3, len(corners)),
		Indices:   boxIndices,
		Parts:     []graphics.Part{{NumIndices: uint32(len(boxIndices))}},
	}
	for i, c := range corners {
		data.Normals[i] = c.Sub(center).Normalize()
	}
	return graphics.NewMesh(data)
}

var unitBound = math.AABox{Max: math.Vec3{X: 1, Y: 1, Z: 1}}

// BoundPayload draws a world-space box as an unlit wireframe in front of the
// scene. One unit-box mesh is reused; SetBound only moves the transform.
type BoundPayload struct {
	*payload.MeshPartPayload
	padding float32
}

var _ render.LayeredPayload = (*BoundPayload)(nil)

// NewBoundPayload creates a bound visualizer drawn with material.
func NewBoundPayload(material *graphics.Material, padding float32) (*BoundPayload, error) {
	mesh, err := NewBoundMesh(unitBound)
	if err != nil {
		return nil, err
	}
	return &BoundPayload{
		MeshPartPayload: payload.NewMeshPartPayload(mesh, 0, material),
		padding:         padding,
	}, nil
}

// SetBound places the box over box plus padding. An empty box hides it.
func (p *BoundPayload) SetBound(box math.AABox) {
	if box.IsEmpty() {
		p.UpdateKey(false, true, false, 0, false)
		return
	}
	box = PadBound(box, p.padding)
	size := box.Size()
	placement := math.Translate(box.Min.X, box.Min.Y, box.Min.Z).Mul(math.Scale(size.X, size.Y, size.Z))
	p.UpdateTransform(placement, math.Identity())
	p.UpdateKey(true, true, false, 0, false)
}

// ShapeKey adds the wireframe and unlit variants to the material shape key.
func (p *BoundPayload) ShapeKey() render.ShapeKey {
	return p.MeshPartPayload.ShapeKey() | render.ShapeWireframe | render.ShapeUnlit
}

// Layer always draws bounds over the 3D scene.
func (p *BoundPayload) Layer() render.Layer { return render.Layer3DFront }
