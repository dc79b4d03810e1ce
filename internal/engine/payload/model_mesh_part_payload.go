package payload

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/internal/engine/model"
	"github.com/Faultbox/meshpart/internal/engine/perf"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/internal/logger"
	"github.com/Faultbox/meshpart/pkg/math"
)

// Floats per cluster in the skinning buffer.
const (
	matrixClusterFloats   = 16
	dualQuatClusterFloats = 12
)

// ModelMeshPartPayload draws one part of a model mesh that may be skinned
// and blend-shaped.
type ModelMeshPartPayload struct {
	MeshPartPayload

	meshIndex  int
	shapeIndex int

	skinningMode  model.SkinningMode
	isSkinned     bool
	isBlendShaped bool
	hasTangents   bool

	blendedVertexBuffer *gpu.Buffer
	// clusterBuffer is nil until the first update with more than one cluster
	// and is never reallocated afterwards.
	clusterBuffer      *gpu.Buffer
	adjustedLocalBound math.AABox

	layer    render.Layer
	shapeKey render.ShapeKey

	log *zap.Logger
}

var _ render.LayeredPayload = (*ModelMeshPartPayload)(nil)

// NewModelMeshPartPayload binds part partIndex of mesh meshIndex of m.
// It panics if m is not loaded or any index is out of range.
func NewModelMeshPartPayload(m *model.Model, meshIndex, partIndex, shapeIndex int, transform, offset math.Mat4) *ModelMeshPartPayload {
	if !m.IsLoaded() {
		panic("payload: model is not loaded")
	}
	geometry := m.Geometry()
	if meshIndex < 0 || meshIndex >= geometry.NumMeshes() {
		panic(fmt.Sprintf("payload: mesh index %d out of range [0, %d)", meshIndex, geometry.NumMeshes()))
	}
	if shapeIndex < 0 || shapeIndex >= geometry.NumShapes() {
		panic(fmt.Sprintf("payload: shape index %d out of range [0, %d)", shapeIndex, geometry.NumShapes()))
	}

	p := &ModelMeshPartPayload{
		meshIndex:    meshIndex,
		shapeIndex:   shapeIndex,
		skinningMode: m.SkinningMode(),
		log:          logger.Named("payload"),
	}
	p.init()
	p.blendedVertexBuffer = m.BlendedVertexBuffer(meshIndex)

	state := m.MeshState(meshIndex)
	p.UpdateMeshPart(geometry.Meshes()[meshIndex], partIndex)
	p.ComputeAdjustedLocalBound(state.ClusterTransforms)
	p.UpdateTransform(transform, offset)

	renderTransform := transform
	if len(state.ClusterTransforms) == 1 {
		renderTransform = transform.Mul(state.ClusterTransforms[0].Matrix())
	}
	p.UpdateTransformForSkinnedMesh(renderTransform, transform)

	p.initCache(m)
	p.SetShapeKey(false, false)
	return p
}

func (p *ModelMeshPartPayload) initCache(m *model.Model) {
	format := p.mesh.VertexFormat()
	p.hasColor = format.HasAttribute(gpu.SlotColor)
	p.isSkinned = format.HasAttribute(gpu.SlotSkinClusterWeight) && format.HasAttribute(gpu.SlotSkinClusterIndex)

	info := m.Geometry().MeshInfo(p.meshIndex)
	p.isBlendShaped = info.NumBlendShapes > 0
	p.hasTangents = info.HasTangents

	if material := m.Geometry().ShapeMaterial(p.shapeIndex); material != nil {
		p.AddMaterial(graphics.MaterialLayer{Material: material, Priority: 0})
	}
}

// MeshIndex returns the model mesh index.
func (p *ModelMeshPartPayload) MeshIndex() int { return p.meshIndex }

// ShapeIndex returns the model shape index.
func (p *ModelMeshPartPayload) ShapeIndex() int { return p.shapeIndex }

// IsSkinned reports whether the mesh carries cluster indices and weights.
func (p *ModelMeshPartPayload) IsSkinned() bool { return p.isSkinned }

// IsBlendShaped reports whether the mesh has blend shapes.
func (p *ModelMeshPartPayload) IsBlendShaped() bool { return p.isBlendShaped }

// HasTangents reports whether the mesh carries tangents.
func (p *ModelMeshPartPayload) HasTangents() bool { return p.hasTangents }

// ClusterBuffer returns the skinning buffer, or nil if none was allocated.
func (p *ModelMeshPartPayload) ClusterBuffer() *gpu.Buffer { return p.clusterBuffer }

// AdjustedLocalBound returns the local bound grown over every cluster pose.
func (p *ModelMeshPartPayload) AdjustedLocalBound() math.AABox { return p.adjustedLocalBound }

// UpdateClusterBuffer uploads the cluster poses. With more than one cluster
// the buffer is allocated on the first call and overwritten in place after
// that; with one or none nothing is uploaded, the single pose being folded
// into the render transform instead.
func (p *ModelMeshPartPayload) UpdateClusterBuffer(clusters []math.Transform) {
	if len(clusters) <= 1 {
		return
	}
	data := gpu.Float32Bytes(packClusters(p.skinningMode, clusters))
	if p.clusterBuffer == nil {
		p.clusterBuffer = gpu.NewBuffer(gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst, data)
		p.log.Debug("cluster buffer allocated",
			zap.Int("mesh", p.meshIndex),
			zap.Int("clusters", len(clusters)),
			zap.Stringer("mode", p.skinningMode))
		return
	}
	p.clusterBuffer.SetSubData(0, data)
}

// packClusters lays clusters out for the skinning shader: one column-major
// matrix each, or rotation, dual part and scale quadruples.
func packClusters(mode model.SkinningMode, clusters []math.Transform) []float32 {
	if mode == model.SkinDualQuaternion {
		out := make([]float32, 0, len(clusters)*dualQuatClusterFloats)
		for _, c := range clusters {
			r, d := c.DualQuat()
			out = append(out,
				r.X, r.Y, r.Z, r.W,
				d.X, d.Y, d.Z, d.W,
				c.Scale.X, c.Scale.Y, c.Scale.Z, 0)
		}
		return out
	}
	out := make([]float32, 0, len(clusters)*matrixClusterFloats)
	for _, c := range clusters {
		m := c.Matrix()
		out = append(out, m[:]...)
	}
	return out
}

// Release drops the skinning buffer.
func (p *ModelMeshPartPayload) Release() {
	p.clusterBuffer = nil
}

// ComputeAdjustedLocalBound sets the adjusted bound to the union of the
// local bound under every cluster pose, or to the local bound with no clusters.
func (p *ModelMeshPartPayload) ComputeAdjustedLocalBound(clusters []math.Transform) {
	p.adjustedLocalBound = p.localBound
	if len(clusters) == 0 {
		return
	}
	p.adjustedLocalBound = p.localBound.Transform(clusters[0].Matrix())
	for _, c := range clusters[1:] {
		p.adjustedLocalBound = p.adjustedLocalBound.Union(p.localBound.Transform(c.Matrix()))
	}
}

// UpdateTransformForSkinnedMesh sets the draw transform to renderTransform
// and the world bound to the adjusted bound under boundTransform.
func (p *ModelMeshPartPayload) UpdateTransformForSkinnedMesh(renderTransform, boundTransform math.Mat4) {
	p.drawTransform = renderTransform
	p.worldBound = p.adjustedLocalBound.Transform(boundTransform)
}

// UpdateKey recomputes the item key. Skinned and blend-shaped parts are
// flagged as deformed.
func (p *ModelMeshPartPayload) UpdateKey(isVisible, isLayered, canCastShadow bool, tagBits uint8, isGroupCulled bool) {
	b := p.keyBuilder(isVisible, isLayered, canCastShadow, tagBits, isGroupCulled)
	if p.isBlendShaped || p.isSkinned {
		b = b.WithDeformed()
	}
	p.itemKey = b.Build()
}

// SetLayer picks the draw layer. Front wins when both flags are set.
func (p *ModelMeshPartPayload) SetLayer(isLayeredInFront, isLayeredInHUD bool) {
	switch {
	case isLayeredInFront:
		p.layer = render.Layer3DFront
	case isLayeredInHUD:
		p.layer = render.Layer3DHUD
	default:
		p.layer = render.Layer3D
	}
}

// Layer returns the draw layer.
func (p *ModelMeshPartPayload) Layer() render.Layer { return p.layer }

// SetShapeKey recomputes the pipeline key, or stores the invalid sentinel
// when invalidate is set. Wireframe drops translucency, tangents, specular,
// lightmap and skinning.
func (p *ModelMeshPartPayload) SetShapeKey(invalidate, isWireframe bool) {
	if invalidate {
		p.shapeKey = render.InvalidShapeKey()
		return
	}

	mk := p.materialKey()
	isTranslucent := mk.IsTranslucent()
	hasTangents := mk.IsNormalMap() && p.hasTangents
	hasSpecular := mk.IsMetallicMap()
	hasLightmap := mk.IsLightmapMap()
	isSkinned := p.isSkinned
	if isWireframe {
		isTranslucent, hasTangents, hasSpecular, hasLightmap, isSkinned = false, false, false, false, false
	}

	b := render.NewShapeKey().WithMaterial()
	if isTranslucent {
		b = b.WithTranslucent()
	}
	if hasTangents {
		b = b.WithTangents()
	}
	if hasSpecular {
		b = b.WithSpecular()
	}
	if hasLightmap {
		b = b.WithLightmap()
	}
	if mk.IsUnlit() {
		b = b.WithUnlit()
	}
	if isSkinned {
		b = b.WithSkinned()
		if p.skinningMode == model.SkinDualQuaternion {
			b = b.WithDualQuatSkinned()
		}
	}
	if isWireframe {
		b = b.WithWireframe()
	}
	p.shapeKey = b.Build()
}

// ShapeKey returns the key from the last SetShapeKey.
func (p *ModelMeshPartPayload) ShapeKey() render.ShapeKey { return p.shapeKey }

func (p *ModelMeshPartPayload) bindTransform(batch gpu.Batch) {
	if p.clusterBuffer != nil {
		batch.SetUniformBuffer(render.SlotBufferSkinning, p.clusterBuffer)
	}
	batch.SetModelTransform(p.drawTransform)
}

func (p *ModelMeshPartPayload) bindMesh(batch gpu.Batch) {
	batch.SetIndexBuffer(gpu.IndexUint32, p.mesh.IndexBuffer(), 0)
	batch.SetInputFormat(p.mesh.VertexFormat())
	if p.isBlendShaped && p.blendedVertexBuffer != nil {
		numVertices := uint32(p.mesh.NumVertices())
		batch.SetInputBuffer(graphics.ChannelPosition, p.blendedVertexBuffer, 0, 12)
		batch.SetInputBuffer(graphics.ChannelNormal, p.blendedVertexBuffer, numVertices*12, model.BlendedStride)
		batch.SetInputStream(graphics.ChannelAttributes, p.mesh.VertexStream().MakeRangedStream(graphics.ChannelAttributes))
		return
	}
	batch.SetInputStream(graphics.ChannelPosition, p.mesh.VertexStream())
}

// Render records the part's draw, binding the skinning buffer and blended
// vertices when present.
func (p *ModelMeshPartPayload) Render(args *render.Args) {
	defer perf.Start("ModelMeshPartPayload.Render").Stop()
	p.draw(args, p)
}
