package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/pkg/math"
)

// quadSource is a unit quad in the XY plane split into two single-triangle groups.
func quadSource() MeshSource {
	up := [3]float32{0, 0, 1}
	return MeshSource{
		Name: "quad",
		Vertices: []Vertex{
			{Position: [3]float32{0, 0, 0}, Normal: up},
			{Position: [3]float32{1, 0, 0}, Normal: up},
			{Position: [3]float32{1, 1, 0}, Normal: up},
			{Position: [3]float32{0, 1, 0}, Normal: up},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Groups: []Group{
			{MaterialIdx: 0, StartIndex: 0, IndexCount: 3},
			{MaterialIdx: -1, StartIndex: 3, IndexCount: 3},
		},
	}
}

func morphSource() MeshSource {
	src := quadSource()
	src.Name = "face"
	src.Groups = src.Groups[:1]
	src.BlendShapes = []BlendShape{
		{Name: "raise", PositionDeltas: [][3]float32{{0, 0, 2}, {0, 0, 2}, {0, 0, 2}, {0, 0, 2}}},
		{Name: "shift", PositionDeltas: [][3]float32{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0}}},
	}
	return src
}

func TestBuildGeometryShapes(t *testing.T) {
	mat := graphics.NewMaterial("brick")
	g, err := BuildGeometry([]MeshSource{quadSource(), morphSource()}, []*graphics.Material{mat}, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, g.NumMeshes())
	require.Equal(t, 3, g.NumShapes())
	assert.Equal(t, Shape{MeshIndex: 0, PartIndex: 1, MaterialIdx: -1}, g.Shape(1))
	assert.Equal(t, Shape{MeshIndex: 1, PartIndex: 0, MaterialIdx: 0}, g.Shapes()[2])

	assert.Same(t, mat, g.ShapeMaterial(0))
	assert.Nil(t, g.ShapeMaterial(1))
	assert.Nil(t, g.ShapeMaterial(99))

	assert.Equal(t, MeshInfo{Name: "quad"}, g.MeshInfo(0))
	assert.Equal(t, 2, g.MeshInfo(1).NumBlendShapes)
	assert.Equal(t, 2, g.Meshes()[0].NumParts())
	assert.Equal(t, math.NewAABox(math.Vec3{}, math.Vec3{X: 1, Y: 1}), g.Bounds())
}

func TestBuildGeometryErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MeshSource)
	}{
		{"no vertices", func(s *MeshSource) { s.Vertices = nil }},
		{"material out of range", func(s *MeshSource) { s.Groups[0].MaterialIdx = 3 }},
		{"negative group", func(s *MeshSource) { s.Groups[0].StartIndex = -1 }},
		{"group past indices", func(s *MeshSource) { s.Groups[1].IndexCount = 9 }},
		{"short blend shape", func(s *MeshSource) {
			s.BlendShapes = []BlendShape{{PositionDeltas: make([][3]float32, 2)}}
		}},
		{"short normal deltas", func(s *MeshSource) {
			s.BlendShapes = []BlendShape{{PositionDeltas: make([][3]float32, 4), NormalDeltas: make([][3]float32, 1)}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := quadSource()
			tt.mutate(&src)
			_, err := BuildGeometry([]MeshSource{src}, []*graphics.Material{graphics.NewMaterial("m")}, BuildOptions{})
			assert.Error(t, err)
		})
	}
}

func TestBuildGeometryOptionalAttributes(t *testing.T) {
	src := quadSource()
	src.HasTangents = true
	src.HasColors = true
	src.HasTexCoord = true
	src.Skinned = true

	g, err := BuildGeometry([]MeshSource{src}, []*graphics.Material{graphics.NewMaterial("m")}, BuildOptions{})
	require.NoError(t, err)

	f := g.Meshes()[0].VertexFormat()
	for _, s := range []gpu.Slot{gpu.SlotTangent, gpu.SlotColor, gpu.SlotTexCoord0, gpu.SlotSkinClusterIndex, gpu.SlotSkinClusterWeight} {
		assert.True(t, f.HasAttribute(s), s.String())
	}
	assert.True(t, g.MeshInfo(0).HasTangents)
}

func TestBuildGeometryReverseWinding(t *testing.T) {
	src := quadSource()
	src.Groups = []Group{{MaterialIdx: -1, StartIndex: 0, IndexCount: 6}}
	_, err := BuildGeometry([]MeshSource{src}, nil, BuildOptions{ReverseWinding: true})
	require.NoError(t, err)

	// The source is not modified.
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, src.Indices)
}

func TestSmoothNormals(t *testing.T) {
	vertices := []Vertex{
		{Position: [3]float32{1, 1, 1}, Normal: [3]float32{1, 0, 0}},
		{Position: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{5, 5, 5}, Normal: [3]float32{0, 0, 1}},
	}
	SmoothNormals(vertices)

	assert.InDelta(t, 0.7071, vertices[0].Normal[0], 1e-3)
	assert.InDelta(t, 0.7071, vertices[0].Normal[1], 1e-3)
	assert.Equal(t, vertices[0].Normal, vertices[1].Normal)
	assert.Equal(t, [3]float32{0, 0, 1}, vertices[2].Normal)
}

func TestFaceNormal(t *testing.T) {
	n, ok := FaceNormal(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{Y: 1})
	require.True(t, ok)
	assert.Equal(t, math.Vec3{Z: 1}, n)

	_, ok = FaceNormal(math.Vec3{}, math.Vec3{X: 1}, math.Vec3{X: 2})
	assert.False(t, ok)
}

func TestModelUnloaded(t *testing.T) {
	m := New(nil, SkinMatrix)
	assert.False(t, m.IsLoaded())

	var nilModel *Model
	assert.False(t, nilModel.IsLoaded())
	assert.Nil(t, m.BlendedVertexBuffer(0))
}

func TestModelClusterTransforms(t *testing.T) {
	g, err := BuildGeometry([]MeshSource{quadSource()}, []*graphics.Material{graphics.NewMaterial("m")}, BuildOptions{})
	require.NoError(t, err)
	m := New(g, SkinDualQuaternion)

	assert.True(t, m.IsLoaded())
	assert.Equal(t, SkinDualQuaternion, m.SkinningMode())
	assert.Empty(t, m.MeshState(0).ClusterTransforms)

	pose := []math.Transform{math.IdentityTransform(), math.TranslationTransform(1, 2, 3)}
	require.NoError(t, m.SetClusterTransforms(0, pose))
	pose[1] = math.IdentityTransform()

	got := m.MeshState(0).ClusterTransforms
	require.Len(t, got, 2)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, got[1].Translation)

	assert.Error(t, m.SetClusterTransforms(1, pose))
	assert.Error(t, m.SetClusterTransforms(-1, pose))
}

func TestModelBlendShapes(t *testing.T) {
	g, err := BuildGeometry([]MeshSource{quadSource(), morphSource()}, []*graphics.Material{graphics.NewMaterial("skin")}, BuildOptions{})
	require.NoError(t, err)
	m := New(g, SkinMatrix)

	assert.Nil(t, m.BlendedVertexBuffer(0))
	buf := m.BlendedVertexBuffer(1)
	require.NotNil(t, buf)
	assert.Equal(t, 4*12+4*BlendedStride, buf.Size())

	// Rest pose: vertex 2 at (1,1,0), normal +Z at the start of the normal section.
	assert.Equal(t, float32(1), gpu.Float32At(buf.Data(), 2*12))
	assert.Equal(t, float32(0), gpu.Float32At(buf.Data(), 2*12+8))
	assert.Equal(t, float32(1), gpu.Float32At(buf.Data(), 4*12+8))

	stamp := buf.Stamp()
	require.NoError(t, m.SetBlendShapeCoefficients(1, []float32{0.5, 1}))

	assert.Same(t, buf, m.BlendedVertexBuffer(1))
	assert.Greater(t, buf.Stamp(), stamp)
	assert.Equal(t, float32(2), gpu.Float32At(buf.Data(), 2*12))
	assert.Equal(t, float32(1), gpu.Float32At(buf.Data(), 2*12+8))
	assert.Equal(t, []float32{0.5, 1}, m.BlendShapeCoefficients(1))

	// Missing trailing weights reset to zero.
	require.NoError(t, m.SetBlendShapeCoefficients(1, []float32{1}))
	assert.Equal(t, []float32{1, 0}, m.BlendShapeCoefficients(1))
	assert.Equal(t, float32(1), gpu.Float32At(buf.Data(), 2*12))

	assert.Error(t, m.SetBlendShapeCoefficients(1, []float32{1, 1, 1}))
	assert.Error(t, m.SetBlendShapeCoefficients(0, []float32{1}))
	assert.Error(t, m.SetBlendShapeCoefficients(5, nil))
}

func TestParseSkinningMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SkinningMode
		wantErr bool
	}{
		{"matrix", SkinMatrix, false},
		{"", SkinMatrix, false},
		{"dual_quaternion", SkinDualQuaternion, false},
		{"dq", SkinDualQuaternion, false},
		{"linear", SkinMatrix, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSkinningMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "dual_quaternion", SkinDualQuaternion.String())
	assert.Equal(t, "matrix", SkinMatrix.String())
}

func TestClusterTrackSample(t *testing.T) {
	track := ClusterTrack{
		{TimeMs: 0, Pose: math.TranslationTransform(0, 0, 0)},
		{TimeMs: 100, Pose: math.TranslationTransform(10, 0, 0)},
		{TimeMs: 200, Pose: math.TranslationTransform(10, 20, 0)},
	}

	tests := []struct {
		name   string
		timeMs float32
		want   math.Vec3
	}{
		{"before start", -5, math.Vec3{}},
		{"first key", 0, math.Vec3{}},
		{"midway", 50, math.Vec3{X: 5}},
		{"second span", 150, math.Vec3{X: 10, Y: 10}},
		{"past end", 500, math.Vec3{X: 10, Y: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := track.Sample(tt.timeMs).Translation
			assert.InDelta(t, tt.want.X, got.X, 1e-4)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-4)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-4)
		})
	}

	assert.Equal(t, float32(200), track.Duration())
	assert.Equal(t, math.IdentityTransform(), ClusterTrack(nil).Sample(10))
}

func TestSamplePose(t *testing.T) {
	tracks := []ClusterTrack{
		{{TimeMs: 0, Pose: math.TranslationTransform(1, 0, 0)}},
		{{TimeMs: 0, Pose: math.IdentityTransform()}, {TimeMs: 10, Pose: math.TranslationTransform(0, 4, 0)}},
	}
	assert.True(t, HasAnimation(tracks))
	assert.False(t, HasAnimation(tracks[:1]))

	buf := make([]math.Transform, 0, 2)
	pose := SamplePose(buf, tracks, 5)
	require.Len(t, pose, 2)
	assert.Equal(t, float32(1), pose[0].Translation.X)
	assert.InDelta(t, 2, pose[1].Translation.Y, 1e-4)
}
