// Package model builds shared mesh geometry and the per-instance state
// (cluster poses, blend-shape weights) that skinned payloads read.
package model

// Vertex is one source vertex. Fields a mesh does not carry stay zero and are
// ignored unless the matching MeshSource flag is set.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Tangent  [3]float32
	TexCoord [2]float32
	Color    [4]float32
	Clusters [4]uint16
	Weights  [4]float32
}

// Group is a contiguous index range drawn with one material.
// MaterialIdx < 0 means the group has no material.
type Group struct {
	MaterialIdx int
	StartIndex  int32
	IndexCount  int32
}

// BlendShape is a morph target stored as per-vertex deltas.
type BlendShape struct {
	Name           string
	PositionDeltas [][3]float32
	// NormalDeltas is optional; when set it must match PositionDeltas in length.
	NormalDeltas [][3]float32
}

// MeshSource is the CPU-side description of one mesh.
type MeshSource struct {
	Name        string
	Vertices    []Vertex
	Indices     []uint32
	Groups      []Group
	BlendShapes []BlendShape

	HasTangents bool
	HasColors   bool
	HasTexCoord bool
	Skinned     bool
}

// MeshInfo describes the deformation capabilities of a built mesh.
type MeshInfo struct {
	Name           string
	NumBlendShapes int
	HasTangents    bool
}

// Shape is one drawable (mesh, part) pair with its material.
type Shape struct {
	MeshIndex   int
	PartIndex   int
	MaterialIdx int
}

// BuildOptions contains options for geometry building.
type BuildOptions struct {
	// ReverseWinding reverses triangle winding order (for negative scale models).
	ReverseWinding bool
	// SmoothNormals averages normals of vertices sharing a position.
	SmoothNormals bool
}
