package model

import (
	"fmt"

	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/pkg/math"
)

// Geometry is the immutable mesh set shared by every instance of a model.
type Geometry struct {
	meshes    []*graphics.Mesh
	infos     []MeshInfo
	rest      []restPose
	shapes    []Shape
	materials []*graphics.Material
	bounds    math.AABox
}

// restPose keeps the unblended attributes needed to rebuild blended vertices.
type restPose struct {
	positions   []math.Vec3
	normals     []math.Vec3
	tangents    []math.Vec3
	blendShapes []BlendShape
}

// BuildGeometry creates GPU meshes from sources. Every group of every source
// becomes one part and one shape, in source order.
func BuildGeometry(sources []MeshSource, materials []*graphics.Material, opts BuildOptions) (*Geometry, error) {
	g := &Geometry{
		materials: materials,
		bounds:    math.EmptyAABox(),
	}

	for mi, src := range sources {
		if len(src.Vertices) == 0 {
			return nil, fmt.Errorf("mesh %d (%s): no vertices", mi, src.Name)
		}

		vertices := append([]Vertex(nil), src.Vertices...)
		indices := append([]uint32(nil), src.Indices...)

		if opts.ReverseWinding {
			for i := 0; i+2 < len(indices); i += 3 {
				indices[i], indices[i+2] = indices[i+2], indices[i]
			}
		}
		if opts.SmoothNormals {
			SmoothNormals(vertices)
		}

		for si, bs := range src.BlendShapes {
			if len(bs.PositionDeltas) != len(vertices) {
				return nil, fmt.Errorf("mesh %d (%s): blend shape %d has %d deltas, want %d",
					mi, src.Name, si, len(bs.PositionDeltas), len(vertices))
			}
			if bs.NormalDeltas != nil && len(bs.NormalDeltas) != len(vertices) {
				return nil, fmt.Errorf("mesh %d (%s): blend shape %d has %d normal deltas, want %d",
					mi, src.Name, si, len(bs.NormalDeltas), len(vertices))
			}
		}

		data := meshData(vertices, indices, src)
		for gi, grp := range src.Groups {
			if grp.MaterialIdx >= len(materials) {
				return nil, fmt.Errorf("mesh %d (%s): group %d material %d out of range", mi, src.Name, gi, grp.MaterialIdx)
			}
			if grp.StartIndex < 0 || grp.IndexCount < 0 {
				return nil, fmt.Errorf("mesh %d (%s): group %d has negative range", mi, src.Name, gi)
			}
			data.Parts = append(data.Parts, graphics.Part{
				StartIndex: uint32(grp.StartIndex),
				NumIndices: uint32(grp.IndexCount),
			})
			g.shapes = append(g.shapes, Shape{MeshIndex: mi, PartIndex: gi, MaterialIdx: grp.MaterialIdx})
		}

		mesh, err := graphics.NewMesh(data)
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", mi, src.Name, err)
		}

		g.meshes = append(g.meshes, mesh)
		g.infos = append(g.infos, MeshInfo{
			Name:           src.Name,
			NumBlendShapes: len(src.BlendShapes),
			HasTangents:    src.HasTangents,
		})
		g.rest = append(g.rest, restPose{
			positions:   data.Positions,
			normals:     data.Normals,
			tangents:    data.Tangents,
			blendShapes: src.BlendShapes,
		})
		for _, p := range data.Positions {
			g.bounds.ExpandByPoint(p)
		}
	}

	return g, nil
}

func meshData(vertices []Vertex, indices []uint32, src MeshSource) graphics.MeshData {
	n := len(vertices)
	data := graphics.MeshData{
		Positions: make([]math.Vec3, n),
		Normals:   make([]math.Vec3, n),
		Indices:   indices,
	}
	if src.HasTangents {
		data.Tangents = make([]math.Vec3, n)
	}
	if src.HasColors {
		data.Colors = make([][4]float32, n)
	}
	if src.HasTexCoord {
		data.TexCoords = make([][2]float32, n)
	}
	if src.Skinned {
		data.ClusterIndices = make([][4]uint16, n)
		data.ClusterWeights = make([][4]float32, n)
	}

	for i, v := range vertices {
		data.Positions[i] = math.Vec3FromArray(v.Position)
		data.Normals[i] = math.Vec3FromArray(v.Normal)
		if data.Tangents != nil {
			data.Tangents[i] = math.Vec3FromArray(v.Tangent)
		}
		if data.Colors != nil {
			data.Colors[i] = v.Color
		}
		if data.TexCoords != nil {
			data.TexCoords[i] = v.TexCoord
		}
		if data.ClusterIndices != nil {
			data.ClusterIndices[i] = v.Clusters
			data.ClusterWeights[i] = v.Weights
		}
	}
	return data
}

// Meshes returns the built meshes in source order.
func (g *Geometry) Meshes() []*graphics.Mesh { return g.meshes }

// NumMeshes returns the number of meshes.
func (g *Geometry) NumMeshes() int { return len(g.meshes) }

// MeshInfo returns deformation info for mesh i.
func (g *Geometry) MeshInfo(i int) MeshInfo { return g.infos[i] }

// Shapes returns every (mesh, part) shape.
func (g *Geometry) Shapes() []Shape { return g.shapes }

// NumShapes returns the number of shapes.
func (g *Geometry) NumShapes() int { return len(g.shapes) }

// Shape returns shape i.
func (g *Geometry) Shape(i int) Shape { return g.shapes[i] }

// ShapeMaterial returns the material of shape i, or nil if it has none.
func (g *Geometry) ShapeMaterial(i int) *graphics.Material {
	if i < 0 || i >= len(g.shapes) {
		return nil
	}
	idx := g.shapes[i].MaterialIdx
	if idx < 0 || idx >= len(g.materials) {
		return nil
	}
	return g.materials[idx]
}

// Bounds returns the rest-pose bound over all meshes.
func (g *Geometry) Bounds() math.AABox { return g.bounds }

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(math.Vec3FromArray(vertices[idx].Normal))
		}

		avg := sum.Normalize().Array()
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// FaceNormal returns the unit normal of triangle (a, b, c), or false for a
// degenerate triangle.
func FaceNormal(a, b, c math.Vec3) (math.Vec3, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < 1e-5 {
		return math.Vec3{}, false
	}
	return n.Normalize(), true
}
