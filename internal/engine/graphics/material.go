package graphics

import (
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/pkg/math"
)

// MaterialKey is a bitset summarising which material features are active.
type MaterialKey uint32

// Material key bits.
const (
	EmissiveValBit MaterialKey = 1 << iota
	UnlitValBit
	AlbedoValBit
	MetallicValBit
	GlossyValBit
	OpacityValBit
	AlbedoMapBit
	OpacityMaskMapBit
	TranslucentMapBit
	EmissiveMapBit
	MetallicMapBit
	RoughnessMapBit
	NormalMapBit
	OcclusionMapBit
	LightmapMapBit
)

// IsTranslucent reports whether the material needs blending, either from an
// opacity factor below one or from a translucent albedo map.
func (k MaterialKey) IsTranslucent() bool {
	return k&(OpacityValBit|TranslucentMapBit) != 0
}

func (k MaterialKey) IsUnlit() bool       { return k&UnlitValBit != 0 }
func (k MaterialKey) IsNormalMap() bool   { return k&NormalMapBit != 0 }
func (k MaterialKey) IsMetallicMap() bool { return k&MetallicMapBit != 0 }
func (k MaterialKey) IsLightmapMap() bool { return k&LightmapMapBit != 0 }
func (k MaterialKey) IsAlbedoMap() bool   { return k&AlbedoMapBit != 0 }

// MapChannel names a material texture slot.
type MapChannel uint8

// Texture map channels.
const (
	AlbedoMap MapChannel = iota
	NormalMap
	MetallicMap
	RoughnessMap
	OcclusionMap
	EmissiveMap
	LightmapMap
	NumMapChannels
)

var mapChannelBits = [NumMapChannels]MaterialKey{
	AlbedoMap:    AlbedoMapBit,
	NormalMap:    NormalMapBit,
	MetallicMap:  MetallicMapBit,
	RoughnessMap: RoughnessMapBit,
	OcclusionMap: OcclusionMapBit,
	EmissiveMap:  EmissiveMapBit,
	LightmapMap:  LightmapMapBit,
}

// Material describes surface shading inputs. A material is shared by every
// payload that draws with it; only its owner mutates it.
type Material struct {
	Name string

	albedo    math.Vec3
	opacity   float32
	metallic  float32
	roughness float32
	emissive  math.Vec3
	unlit     bool

	maps           [NumMapChannels]*gpu.Texture
	translucentMap bool

	key    MaterialKey
	schema *gpu.Buffer
}

// NewMaterial creates an opaque, untextured, lit material.
func NewMaterial(name string) *Material {
	m := &Material{
		Name:      name,
		albedo:    math.Vec3{X: 1, Y: 1, Z: 1},
		opacity:   1,
		metallic:  0.1,
		roughness: 0.9,
	}
	m.schema = gpu.NewBuffer(gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst, m.schemaBytes())
	m.update()
	return m
}

var (
	defaultMaterial     *Material
	defaultMaterialOnce sync.Once
)

// DefaultMaterial returns the shared material bound when a payload has none.
func DefaultMaterial() *Material {
	defaultMaterialOnce.Do(func() {
		defaultMaterial = NewMaterial("default")
	})
	return defaultMaterial
}

// Key returns the current feature bitset.
func (m *Material) Key() MaterialKey { return m.key }

// SchemaBuffer returns the uniform buffer holding the packed material factors.
func (m *Material) SchemaBuffer() *gpu.Buffer { return m.schema }

// TextureMap returns the texture bound to ch, or nil.
func (m *Material) TextureMap(ch MapChannel) *gpu.Texture { return m.maps[ch] }

// Albedo returns the base color.
func (m *Material) Albedo() math.Vec3 { return m.albedo }

// Opacity returns the opacity factor.
func (m *Material) Opacity() float32 { return m.opacity }

// SetAlbedo sets the base color.
func (m *Material) SetAlbedo(c math.Vec3) {
	m.albedo = c
	m.update()
}

// SetOpacity sets the opacity factor. Values below one make the material translucent.
func (m *Material) SetOpacity(o float32) {
	m.opacity = o
	m.update()
}

// SetMetallic sets the metallic factor.
func (m *Material) SetMetallic(v float32) {
	m.metallic = v
	m.update()
}

// SetRoughness sets the roughness factor.
func (m *Material) SetRoughness(v float32) {
	m.roughness = v
	m.update()
}

// SetEmissive sets the emissive color.
func (m *Material) SetEmissive(c math.Vec3) {
	m.emissive = c
	m.update()
}

// SetUnlit toggles lighting.
func (m *Material) SetUnlit(unlit bool) {
	m.unlit = unlit
	m.update()
}

// SetTextureMap binds tex to ch; nil clears it. For the albedo channel,
// hasAlpha marks the map as translucent.
func (m *Material) SetTextureMap(ch MapChannel, tex *gpu.Texture, hasAlpha bool) {
	m.maps[ch] = tex
	if ch == AlbedoMap {
		m.translucentMap = tex != nil && hasAlpha
	}
	m.update()
}

func (m *Material) update() {
	var k MaterialKey
	if m.emissive != (math.Vec3{}) {
		k |= EmissiveValBit
	}
	if m.unlit {
		k |= UnlitValBit
	}
	if m.albedo != (math.Vec3{}) {
		k |= AlbedoValBit
	}
	if m.metallic > 0 {
		k |= MetallicValBit
	}
	if m.roughness < 1 {
		k |= GlossyValBit
	}
	if m.opacity < 1 {
		k |= OpacityValBit
	}
	if m.translucentMap {
		k |= TranslucentMapBit
	}
	for ch, tex := range m.maps {
		if tex != nil {
			k |= mapChannelBits[ch]
		}
	}
	m.key = k
	m.schema.SetSubData(0, m.schemaBytes())
}

// schemaBytes packs the factors as three vec4s: albedo+opacity,
// emissive+metallic, roughness+key+padding.
func (m *Material) schemaBytes() []byte {
	return append(gpu.Float32Bytes([]float32{
		m.albedo.X, m.albedo.Y, m.albedo.Z, m.opacity,
		m.emissive.X, m.emissive.Y, m.emissive.Z, m.metallic,
		m.roughness,
	}), gpu.Uint32Bytes([]uint32{uint32(m.key), 0, 0})...)
}
