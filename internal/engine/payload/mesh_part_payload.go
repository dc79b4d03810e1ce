package payload

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/internal/engine/perf"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/pkg/math"
)

const indicesPerTriangle = 3

// MeshPartPayload draws one part of a static mesh.
type MeshPartPayload struct {
	mesh      *graphics.Mesh
	partIndex int
	part      graphics.Part
	hasColor  bool

	materials graphics.MultiMaterial

	transform     math.Mat4
	drawTransform math.Mat4
	localBound    math.AABox
	worldBound    math.AABox

	itemKey render.ItemKey
}

var _ render.Payload = (*MeshPartPayload)(nil)

// NewMeshPartPayload binds part partIndex of mesh and pushes material at
// priority 0. A nil material leaves the stack empty.
func NewMeshPartPayload(mesh *graphics.Mesh, partIndex int, material *graphics.Material) *MeshPartPayload {
	p := &MeshPartPayload{}
	p.init()
	p.UpdateMeshPart(mesh, partIndex)
	p.AddMaterial(graphics.MaterialLayer{Material: material, Priority: 0})
	return p
}

func (p *MeshPartPayload) init() {
	p.transform = math.Identity()
	p.drawTransform = math.Identity()
	p.localBound = math.EmptyAABox()
	p.worldBound = math.EmptyAABox()
	p.itemKey = render.OpaqueShape()
}

// UpdateMeshPart rebinds the payload to part partIndex of mesh and refreshes
// the cached color flag and local bound. With a nil mesh the cached fields
// keep their previous values and Render draws nothing.
func (p *MeshPartPayload) UpdateMeshPart(mesh *graphics.Mesh, partIndex int) {
	p.mesh = mesh
	if mesh == nil {
		return
	}
	if partIndex < 0 || partIndex >= mesh.NumParts() {
		panic(fmt.Sprintf("payload: part index %d out of range [0, %d)", partIndex, mesh.NumParts()))
	}
	p.partIndex = partIndex
	p.hasColor = mesh.VertexFormat().HasAttribute(gpu.SlotColor)
	p.part = mesh.Part(partIndex)
	p.localBound = mesh.EvalPartBound(partIndex)
}

// UpdateTransform sets the local transform and the draw transform
// transform*offset, and moves the world bound with them.
func (p *MeshPartPayload) UpdateTransform(transform, offset math.Mat4) {
	p.transform = transform
	p.drawTransform = transform.Mul(offset)
	p.worldBound = p.localBound.Transform(p.drawTransform)
}

// AddMaterial pushes a material layer.
func (p *MeshPartPayload) AddMaterial(layer graphics.MaterialLayer) {
	p.materials.Push(layer)
}

// RemoveMaterial removes material from the stack if present.
func (p *MeshPartPayload) RemoveMaterial(material *graphics.Material) {
	p.materials.Remove(material)
}

// TopMaterial returns the highest-priority material, or nil.
func (p *MeshPartPayload) TopMaterial() *graphics.Material {
	return p.materials.Top().Material
}

// UpdateKey recomputes the item key from the given flags and the top material.
func (p *MeshPartPayload) UpdateKey(isVisible, isLayered, canCastShadow bool, tagBits uint8, isGroupCulled bool) {
	p.itemKey = p.keyBuilder(isVisible, isLayered, canCastShadow, tagBits, isGroupCulled).Build()
}

func (p *MeshPartPayload) keyBuilder(isVisible, isLayered, canCastShadow bool, tagBits uint8, isGroupCulled bool) render.ItemKeyBuilder {
	b := render.NewItemKey().WithTypeShape().WithTagBits(tagBits)
	if !isVisible {
		b = b.WithInvisible()
	}
	if isLayered {
		b = b.WithLayered()
	}
	if canCastShadow {
		b = b.WithShadowCaster()
	}
	if isGroupCulled {
		b = b.WithSubMetaCulled()
	}
	if p.materialKey().IsTranslucent() {
		b = b.WithTransparent()
	}
	return b
}

// materialKey returns the top material's key, or the empty key.
func (p *MeshPartPayload) materialKey() graphics.MaterialKey {
	if m := p.materials.Top().Material; m != nil {
		return m.Key()
	}
	return 0
}

// Key returns the item key from the last UpdateKey.
func (p *MeshPartPayload) Key() render.ItemKey { return p.itemKey }

// Bound returns the world bound.
func (p *MeshPartPayload) Bound() math.AABox { return p.worldBound }

// LocalBound returns the part's bound in mesh space.
func (p *MeshPartPayload) LocalBound() math.AABox { return p.localBound }

// Transform returns the local-to-world transform.
func (p *MeshPartPayload) Transform() math.Mat4 { return p.transform }

// DrawTransform returns the transform uploaded at draw time.
func (p *MeshPartPayload) DrawTransform() math.Mat4 { return p.drawTransform }

// HasColor reports whether the mesh carries vertex colors.
func (p *MeshPartPayload) HasColor() bool { return p.hasColor }

// Mesh returns the bound mesh.
func (p *MeshPartPayload) Mesh() *graphics.Mesh { return p.mesh }

// Part returns the bound index range.
func (p *MeshPartPayload) Part() graphics.Part { return p.part }

// ShapeKey derives the pipeline key from the top material.
func (p *MeshPartPayload) ShapeKey() render.ShapeKey {
	mk := p.materialKey()
	b := render.NewShapeKey().WithMaterial()
	if mk.IsTranslucent() {
		b = b.WithTranslucent()
	}
	if mk.IsNormalMap() {
		b = b.WithTangents()
	}
	if mk.IsMetallicMap() {
		b = b.WithSpecular()
	}
	if mk.IsLightmapMap() {
		b = b.WithLightmap()
	}
	return b.Build()
}

func (p *MeshPartPayload) bindTransform(batch gpu.Batch) {
	batch.SetModelTransform(p.drawTransform)
}

func (p *MeshPartPayload) bindMesh(batch gpu.Batch) {
	batch.SetIndexBuffer(gpu.IndexUint32, p.mesh.IndexBuffer(), 0)
	batch.SetInputFormat(p.mesh.VertexFormat())
	batch.SetInputStream(graphics.ChannelPosition, p.mesh.VertexStream())
}

// Render records the part's draw into args.Batch. Nil args, or args without
// a batch (nil or a nil *gpu.CommandBatch), draw nothing and leave the counters unchanged.
func (p *MeshPartPayload) Render(args *render.Args) {
	defer perf.Start("MeshPartPayload.Render").Stop()
	p.draw(args, p)
}

// binder is the per-variant half of the draw sequence.
type binder interface {
	bindTransform(batch gpu.Batch)
	bindMesh(batch gpu.Batch)
}

func (p *MeshPartPayload) draw(args *render.Args, b binder) {
	if !args.HasBatch() || p.mesh == nil {
		return
	}
	batch := args.Batch

	b.bindTransform(batch)
	b.bindMesh(batch)
	BindMaterial(p.materials.Top().Material, batch, args.EnableTexturing)
	args.Details.MaterialSwitches++

	timer := perf.Start("Batch.DrawIndexed")
	batch.DrawIndexed(gputypes.PrimitiveTopologyTriangleList, p.part.NumIndices, p.part.StartIndex)
	timer.Stop()

	args.Details.TrianglesRendered += int(p.part.NumIndices / indicesPerTriangle)
}
