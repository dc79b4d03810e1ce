// Package graphics holds the shared, externally owned render resources that
// payloads reference: meshes split into parts, materials, and layered
// material stacks.
package graphics

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/pkg/math"
)

// Vertex stream channels. Channel 0 holds positions, channel 1 normals with
// optional interleaved tangents, channel 2 everything else. Blend-shaped
// meshes rebind channels 0 and 1 from a blended buffer and keep channel 2.
const (
	ChannelPosition   = 0
	ChannelNormal     = 1
	ChannelAttributes = 2
)

// Part is a sub-range of a mesh's index buffer drawn with one material.
type Part struct {
	StartIndex uint32
	NumIndices uint32
	BaseVertex uint32
}

// MeshData is the CPU-side vertex data a Mesh is built from. Normals must be
// provided for every position; the other per-vertex slices are optional but,
// when present, must match the position count.
type MeshData struct {
	Positions      []math.Vec3
	Normals        []math.Vec3
	Tangents       []math.Vec3
	Colors         [][4]float32
	TexCoords      [][2]float32
	ClusterIndices [][4]uint16
	ClusterWeights [][4]float32
	Indices        []uint32
	Parts          []Part
}

// Mesh is immutable geometry shared by every payload drawing one of its parts.
type Mesh struct {
	format       *gpu.Format
	vertexStream gpu.BufferStream
	indexBuffer  *gpu.Buffer
	parts        []Part
	positions    []math.Vec3
	indices      []uint32
}

// NewMesh validates data and uploads it into host-side GPU buffers.
func NewMesh(data MeshData) (*Mesh, error) {
	n := len(data.Positions)
	if n == 0 {
		return nil, fmt.Errorf("mesh has no vertices")
	}
	if len(data.Normals) != n {
		return nil, fmt.Errorf("mesh has %d normals for %d vertices", len(data.Normals), n)
	}
	optional := []struct {
		name string
		n    int
	}{
		{"tangents", len(data.Tangents)},
		{"colors", len(data.Colors)},
		{"texcoords", len(data.TexCoords)},
		{"cluster indices", len(data.ClusterIndices)},
		{"cluster weights", len(data.ClusterWeights)},
	}
	for _, o := range optional {
		if o.n != 0 && o.n != n {
			return nil, fmt.Errorf("mesh has %d %s for %d vertices", o.n, o.name, n)
		}
	}
	if (len(data.ClusterIndices) == 0) != (len(data.ClusterWeights) == 0) {
		return nil, fmt.Errorf("mesh skin attributes need both cluster indices and weights")
	}
	for i, idx := range data.Indices {
		if int(idx) >= n {
			return nil, fmt.Errorf("index %d references vertex %d of %d", i, idx, n)
		}
	}
	for i, p := range data.Parts {
		end := uint64(p.StartIndex) + uint64(p.NumIndices)
		if end > uint64(len(data.Indices)) {
			return nil, fmt.Errorf("part %d range [%d, %d) exceeds %d indices",
				i, p.StartIndex, end, len(data.Indices))
		}
	}

	m := &Mesh{
		format:    gpu.NewFormat(),
		parts:     append([]Part(nil), data.Parts...),
		positions: append([]math.Vec3(nil), data.Positions...),
		indices:   append([]uint32(nil), data.Indices...),
	}
	m.indexBuffer = gpu.NewBuffer(gputypes.BufferUsageIndex, gpu.Uint32Bytes(m.indices))

	// Channel 0: positions.
	m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotPosition, Channel: ChannelPosition, Format: gputypes.VertexFormatFloat32x3})
	posBytes := make([]float32, 0, n*3)
	for _, p := range data.Positions {
		posBytes = append(posBytes, p.X, p.Y, p.Z)
	}

	// Channel 1: normals, tangents interleaved when present.
	m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotNormal, Channel: ChannelNormal, Format: gputypes.VertexFormatFloat32x3})
	if len(data.Tangents) > 0 {
		m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotTangent, Channel: ChannelNormal, Format: gputypes.VertexFormatFloat32x3, Offset: 12})
	}
	nrmBytes := make([]float32, 0, n*6)
	for i, nrm := range data.Normals {
		nrmBytes = append(nrmBytes, nrm.X, nrm.Y, nrm.Z)
		if len(data.Tangents) > 0 {
			t := data.Tangents[i]
			nrmBytes = append(nrmBytes, t.X, t.Y, t.Z)
		}
	}

	// Channel 2: texcoords, colors and skin attributes.
	var offset uint32
	if len(data.TexCoords) > 0 {
		m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotTexCoord0, Channel: ChannelAttributes, Format: gputypes.VertexFormatFloat32x2, Offset: offset})
		offset += 8
	}
	if len(data.Colors) > 0 {
		m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotColor, Channel: ChannelAttributes, Format: gputypes.VertexFormatFloat32x4, Offset: offset})
		offset += 16
	}
	if len(data.ClusterIndices) > 0 {
		m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotSkinClusterIndex, Channel: ChannelAttributes, Format: gputypes.VertexFormatUint16x4, Offset: offset})
		offset += 8
		m.format.SetAttribute(gpu.Attribute{Slot: gpu.SlotSkinClusterWeight, Channel: ChannelAttributes, Format: gputypes.VertexFormatFloat32x4, Offset: offset})
		offset += 16
	}
	var attrBytes []byte
	if offset > 0 {
		attrBytes = make([]byte, 0, int(offset)*n)
		for i := 0; i < n; i++ {
			if len(data.TexCoords) > 0 {
				attrBytes = append(attrBytes, gpu.Float32Bytes(data.TexCoords[i][:])...)
			}
			if len(data.Colors) > 0 {
				attrBytes = append(attrBytes, gpu.Float32Bytes(data.Colors[i][:])...)
			}
			if len(data.ClusterIndices) > 0 {
				attrBytes = append(attrBytes, gpu.Uint16Bytes(data.ClusterIndices[i][:])...)
				attrBytes = append(attrBytes, gpu.Float32Bytes(data.ClusterWeights[i][:])...)
			}
		}
	}

	views := []gpu.BufferView{
		{Buffer: gpu.NewBuffer(gputypes.BufferUsageVertex, gpu.Float32Bytes(posBytes)), Stride: m.format.ChannelStride(ChannelPosition)},
		{Buffer: gpu.NewBuffer(gputypes.BufferUsageVertex, gpu.Float32Bytes(nrmBytes)), Stride: m.format.ChannelStride(ChannelNormal)},
	}
	if offset > 0 {
		views = append(views, gpu.BufferView{Buffer: gpu.NewBuffer(gputypes.BufferUsageVertex, attrBytes), Stride: offset})
	}
	m.vertexStream = gpu.NewBufferStream(views...)

	return m, nil
}

// VertexFormat returns the vertex layout.
func (m *Mesh) VertexFormat() *gpu.Format { return m.format }

// VertexStream returns the per-channel vertex buffers.
func (m *Mesh) VertexStream() gpu.BufferStream { return m.vertexStream }

// IndexBuffer returns the 32-bit index buffer.
func (m *Mesh) IndexBuffer() *gpu.Buffer { return m.indexBuffer }

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return len(m.positions) }

// NumParts returns the number of parts.
func (m *Mesh) NumParts() int { return len(m.parts) }

// Part returns part i. It panics if i is out of range.
func (m *Mesh) Part(i int) Part { return m.parts[i] }

// Positions returns the rest-pose vertex positions. Callers must not modify it.
func (m *Mesh) Positions() []math.Vec3 { return m.positions }

// EvalPartBound returns the bound of the vertices referenced by part i.
func (m *Mesh) EvalPartBound(i int) math.AABox {
	p := m.parts[i]
	bound := math.EmptyAABox()
	for _, idx := range m.indices[p.StartIndex : p.StartIndex+p.NumIndices] {
		v := int(p.BaseVertex + idx)
		if v < len(m.positions) {
			bound.ExpandByPoint(m.positions[v])
		}
	}
	return bound
}
