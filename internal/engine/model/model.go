package model

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/logger"
	"github.com/Faultbox/meshpart/pkg/math"
)

// SkinningMode selects how cluster transforms are packed for the GPU.
type SkinningMode uint8

// Skinning modes.
const (
	SkinMatrix SkinningMode = iota
	SkinDualQuaternion
)

func (m SkinningMode) String() string {
	if m == SkinDualQuaternion {
		return "dual_quaternion"
	}
	return "matrix"
}

// ParseSkinningMode parses "matrix" or "dual_quaternion".
func ParseSkinningMode(s string) (SkinningMode, error) {
	switch s {
	case "matrix", "":
		return SkinMatrix, nil
	case "dual_quaternion", "dual_quat", "dq":
		return SkinDualQuaternion, nil
	default:
		return SkinMatrix, fmt.Errorf("unknown skinning mode %q", s)
	}
}

// MeshState is the per-instance pose of one mesh.
type MeshState struct {
	ClusterTransforms []math.Transform
}

// BlendedStride is the per-vertex stride of the interleaved normal+tangent
// section of a blended vertex buffer. Positions precede it, packed at 12 bytes.
const BlendedStride = 24

// Model is one instance of a Geometry with its own pose and blend weights.
type Model struct {
	geometry *Geometry
	mode     SkinningMode
	states   []MeshState
	blended  []*gpu.Buffer
	weights  [][]float32
	log      *zap.Logger
}

// New creates an instance of geometry. A nil geometry yields an unloaded model.
func New(geometry *Geometry, mode SkinningMode) *Model {
	m := &Model{
		geometry: geometry,
		mode:     mode,
		log:      logger.Named("model"),
	}
	if geometry == nil {
		return m
	}

	n := geometry.NumMeshes()
	m.states = make([]MeshState, n)
	m.blended = make([]*gpu.Buffer, n)
	m.weights = make([][]float32, n)
	for i := 0; i < n; i++ {
		info := geometry.MeshInfo(i)
		if info.NumBlendShapes == 0 {
			continue
		}
		m.weights[i] = make([]float32, info.NumBlendShapes)
		m.blended[i] = gpu.NewBuffer(gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, m.blend(i))
		m.log.Debug("blended vertex buffer created",
			zap.String("mesh", info.Name),
			zap.Int("blendShapes", info.NumBlendShapes),
			zap.Int("bytes", m.blended[i].Size()))
	}
	return m
}

// IsLoaded reports whether the model has geometry.
func (m *Model) IsLoaded() bool { return m != nil && m.geometry != nil }

// Geometry returns the shared geometry.
func (m *Model) Geometry() *Geometry { return m.geometry }

// SkinningMode returns how cluster transforms are packed.
func (m *Model) SkinningMode() SkinningMode { return m.mode }

// MeshState returns the current pose of mesh i.
func (m *Model) MeshState(i int) MeshState { return m.states[i] }

// BlendedVertexBuffer returns the morphed vertex buffer of mesh i, or nil when
// the mesh has no blend shapes.
func (m *Model) BlendedVertexBuffer(i int) *gpu.Buffer {
	if i < 0 || i >= len(m.blended) {
		return nil
	}
	return m.blended[i]
}

// SetClusterTransforms replaces the pose of mesh i.
func (m *Model) SetClusterTransforms(i int, clusters []math.Transform) error {
	if i < 0 || i >= len(m.states) {
		return fmt.Errorf("set cluster transforms: mesh %d out of range [0, %d)", i, len(m.states))
	}
	m.states[i].ClusterTransforms = append(m.states[i].ClusterTransforms[:0], clusters...)
	return nil
}

// BlendShapeCoefficients returns the current weights of mesh i.
func (m *Model) BlendShapeCoefficients(i int) []float32 { return m.weights[i] }

// SetBlendShapeCoefficients sets the weights of mesh i and rewrites its
// blended vertex buffer in place. Missing trailing weights are zero.
func (m *Model) SetBlendShapeCoefficients(i int, coeffs []float32) error {
	if i < 0 || i >= len(m.states) {
		return fmt.Errorf("set blend shapes: mesh %d out of range [0, %d)", i, len(m.states))
	}
	if m.blended[i] == nil {
		return fmt.Errorf("set blend shapes: mesh %d has no blend shapes", i)
	}
	if len(coeffs) > len(m.weights[i]) {
		return fmt.Errorf("set blend shapes: %d coefficients for %d shapes", len(coeffs), len(m.weights[i]))
	}
	w := m.weights[i]
	for k := range w {
		w[k] = 0
	}
	copy(w, coeffs)
	m.blended[i].SetSubData(0, m.blend(i))
	return nil
}

// blend evaluates mesh i under its current weights into the blended layout:
// all positions, then normal+tangent pairs.
func (m *Model) blend(i int) []byte {
	rest := m.geometry.rest[i]
	w := m.weights[i]
	n := len(rest.positions)

	out := make([]float32, 0, n*9)
	for v := 0; v < n; v++ {
		p := rest.positions[v]
		for s, bs := range rest.blendShapes {
			if w[s] != 0 {
				p = p.Add(math.Vec3FromArray(bs.PositionDeltas[v]).Scale(w[s]))
			}
		}
		out = append(out, p.X, p.Y, p.Z)
	}
	for v := 0; v < n; v++ {
		nrm := rest.normals[v]
		for s, bs := range rest.blendShapes {
			if w[s] != 0 && bs.NormalDeltas != nil {
				nrm = nrm.Add(math.Vec3FromArray(bs.NormalDeltas[v]).Scale(w[s]))
			}
		}
		nrm = nrm.Normalize()
		var tan math.Vec3
		if rest.tangents != nil {
			tan = rest.tangents[v]
		}
		out = append(out, nrm.X, nrm.Y, nrm.Z, tan.X, tan.Y, tan.Z)
	}
	return gpu.Float32Bytes(out)
}
