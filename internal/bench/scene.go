package bench

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/internal/engine/model"
	"github.com/Faultbox/meshpart/pkg/math"
)

const (
	ringVertices  = 4
	segmentHeight = 1.0
	swingMs       = 1000.0
	swingAngle    = 0.35
)

// Material indices of the synthetic model.
const (
	matSkin = iota
	matCloth
	matProp
)

// newMaterials returns the materials shared by every synthetic model: an
// opaque textured skin, a translucent cloth and a normal-mapped metal prop.
func newMaterials() []*graphics.Material {
	skin := graphics.NewMaterial("skin")
	skin.SetAlbedo(math.Vec3{X: 0.9, Y: 0.75, Z: 0.65})
	albedo := gpu.NewTexture("skin_albedo", 2, 2)
	albedo.Pixels = []byte{
		255, 255, 255, 255, 200, 200, 200, 255,
		200, 200, 200, 255, 255, 255, 255, 255,
	}
	skin.SetTextureMap(graphics.AlbedoMap, albedo, false)

	cloth := graphics.NewMaterial("cloth")
	cloth.SetAlbedo(math.Vec3{X: 0.2, Y: 0.3, Z: 0.8})
	cloth.SetOpacity(0.6)

	prop := graphics.NewMaterial("prop")
	prop.SetMetallic(0.9)
	prop.SetRoughness(0.3)
	prop.SetTextureMap(graphics.NormalMap, gpu.NewTexture("prop_normal", 1, 1), false)
	prop.SetTextureMap(graphics.MetallicMap, gpu.NewTexture("prop_metallic", 1, 1), false)

	return []*graphics.Material{skin, cloth, prop}
}

// columnSource builds a square tube of segments stacked along +Y. Ring r is
// bound to cluster min(r, clusters-1); with no clusters the tube is static.
// The lower half of the faces uses the skin material, the upper half cloth.
func columnSource(segments, clusters, blendShapes int) model.MeshSource {
	rings := segments + 1
	src := model.MeshSource{
		Name:        "column",
		HasTangents: true,
		HasTexCoord: true,
		Skinned:     clusters > 0,
	}

	corners := [ringVertices][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	for r := 0; r < rings; r++ {
		y := float32(r) * segmentHeight
		for k, c := range corners {
			next := corners[(k+1)%ringVertices]
			v := model.Vertex{
				Position: [3]float32{c[0], y, c[1]},
				Normal:   math.Vec3{X: c[0], Z: c[1]}.Normalize().Array(),
				Tangent:  [3]float32{next[0] - c[0], 0, next[1] - c[1]},
				TexCoord: [2]float32{float32(k) / ringVertices, float32(r) / float32(segments)},
			}
			if clusters > 0 {
				v.Clusters[0] = uint16(min(r, clusters-1))
				v.Weights[0] = 1
			}
			src.Vertices = append(src.Vertices, v)
		}
	}

	for s := 0; s < segments; s++ {
		for k := 0; k < ringVertices; k++ {
			a := uint32(s*ringVertices + k)
			b := uint32(s*ringVertices + (k+1)%ringVertices)
			c, d := a+ringVertices, b+ringVertices
			src.Indices = append(src.Indices, a, c, b, b, c, d)
		}
	}

	half := int32(len(src.Indices) / 2 / 3 * 3)
	src.Groups = []model.Group{
		{MaterialIdx: matSkin, StartIndex: 0, IndexCount: half},
		{MaterialIdx: matCloth, StartIndex: half, IndexCount: int32(len(src.Indices)) - half},
	}

	for b := 0; b < blendShapes; b++ {
		shape := model.BlendShape{
			Name:           fmt.Sprintf("bulge_%d", b),
			PositionDeltas: make([][3]float32, len(src.Vertices)),
		}
		for i, v := range src.Vertices {
			if (i/ringVertices)%(b+2) == 0 {
				shape.PositionDeltas[i] = [3]float32{v.Position[0] * 0.4, 0, v.Position[2] * 0.4}
			}
		}
		src.BlendShapes = append(src.BlendShapes, shape)
	}
	return src
}

// plateSource builds a static vertex-colored plate under the column.
func plateSource() model.MeshSource {
	src := model.MeshSource{Name: "plate", HasColors: true, HasTexCoord: true}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for i, c := range corners {
		src.Vertices = append(src.Vertices, model.Vertex{
			Position: [3]float32{c[0], 0, c[1]},
			TexCoord: [2]float32{(c[0] + 1) / 2, (c[1] + 1) / 2},
			Color:    [4]float32{float32(i) / 3, 0.5, 1 - float32(i)/3, 1},
		})
	}
	src.Indices = []uint32{0, 2, 1, 0, 3, 2}
	p := func(i uint32) math.Vec3 { return math.Vec3FromArray(src.Vertices[i].Position) }
	if n, ok := model.FaceNormal(p(0), p(2), p(1)); ok {
		for i := range src.Vertices {
			src.Vertices[i].Normal = n.Array()
		}
	}
	src.Groups = []model.Group{{MaterialIdx: matProp, IndexCount: 6}}
	return src
}

// buildGeometry builds the column and plate meshes.
func buildGeometry(materials []*graphics.Material, segments, clusters, blendShapes int) (*model.Geometry, error) {
	sources := []model.MeshSource{columnSource(segments, clusters, blendShapes), plateSource()}
	return model.BuildGeometry(sources, materials, model.BuildOptions{})
}

// swingTracks animates cluster c as a rotation about the Z axis pivoting at
// the bottom of its ring, swinging back and forth over swingMs.
func swingTracks(clusters int) []model.ClusterTrack {
	tracks := make([]model.ClusterTrack, clusters)
	axis := math.Vec3{Z: 1}
	for c := range tracks {
		pivot := math.Vec3{Y: float32(c) * segmentHeight}
		angle := swingAngle * float32(c+1) / float32(clusters)
		for i, a := range []float32{-angle, angle, -angle} {
			tracks[c] = append(tracks[c], model.ClusterKey{
				TimeMs: float32(i) * swingMs / 2,
				Pose:   pivotRotation(axis, a, pivot),
			})
		}
	}
	return tracks
}

// pivotRotation rotates by angle around axis through pivot.
func pivotRotation(axis math.Vec3, angle float32, pivot math.Vec3) math.Transform {
	t := math.IdentityTransform()
	t.Rotation = math.QuatFromAxisAngle(axis, angle)
	t.Translation = pivot.Sub(t.Rotation.Rotate(pivot))
	return t
}

// blendWeights oscillates each blend shape with its own phase.
func blendWeights(dst []float32, timeMs float32) []float32 {
	for i := range dst {
		dst[i] = 0.5 + 0.5*math32.Sin(timeMs/300+float32(i))
	}
	return dst
}
