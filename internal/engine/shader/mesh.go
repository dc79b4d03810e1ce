package shader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/config"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/internal/logger"
)

// MaxClusters bounds the skinning uniform array.
const MaxClusters = config.MaxClusters

// Uniform block and sampler names shared with the backend.
const (
	SkinningBlock  = "Skinning"
	MaterialBlock  = "Material"
	ModelUniform   = "uModel"
	ViewProjection = "uViewProj"
	AlbedoSampler  = "uAlbedoMap"
)

const meshVertexBody = `
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec4 inColor;
layout(location = 3) in vec2 inTexCoord;
layout(location = 4) in vec3 inTangent;
layout(location = 5) in uvec4 inClusterIndex;
layout(location = 6) in vec4 inClusterWeight;

uniform mat4 uModel;
uniform mat4 uViewProj;

#ifdef SHAPE_SKINNED
layout(std140) uniform Skinning {
#ifdef SHAPE_DUAL_QUAT
    vec4 clusters[MAX_CLUSTERS * 3];
#else
    mat4 clusters[MAX_CLUSTERS];
#endif
};
#endif

out vec3 vNormal;
out vec2 vTexCoord;
out vec4 vColor;

void main() {
    vec4 pos = vec4(inPosition, 1.0);
    vec3 nrm = inNormal;

#if defined(SHAPE_SKINNED) && defined(SHAPE_DUAL_QUAT)
    vec4 r0 = clusters[inClusterIndex.x * 3u];
    vec4 real = vec4(0.0);
    vec4 dual = vec4(0.0);
    vec3 scale = vec3(0.0);
    for (int i = 0; i < 4; i++) {
        uint c = inClusterIndex[i] * 3u;
        vec4 r = clusters[c];
        float w = inClusterWeight[i];
        if (dot(r, r0) < 0.0) {
            w = -w;
        }
        real += r * w;
        dual += clusters[c + 1u] * w;
        scale += clusters[c + 2u].xyz * abs(w);
    }
    float len = length(real);
    real /= len;
    dual /= len;
    vec3 p = pos.xyz * scale;
    p += 2.0 * cross(real.xyz, cross(real.xyz, p) + real.w * p);
    p += 2.0 * (real.w * dual.xyz - dual.w * real.xyz + cross(real.xyz, dual.xyz));
    pos = vec4(p, 1.0);
    nrm += 2.0 * cross(real.xyz, cross(real.xyz, nrm) + real.w * nrm);
#elif defined(SHAPE_SKINNED)
    mat4 skin = clusters[inClusterIndex.x] * inClusterWeight.x
              + clusters[inClusterIndex.y] * inClusterWeight.y
              + clusters[inClusterIndex.z] * inClusterWeight.z
              + clusters[inClusterIndex.w] * inClusterWeight.w;
    pos = skin * pos;
    nrm = mat3(skin) * nrm;
#endif

    gl_Position = uViewProj * uModel * pos;
    vNormal = mat3(uModel) * nrm;
    vTexCoord = inTexCoord;
    vColor = inColor;
}
`

const meshFragmentBody = `
layout(std140) uniform Material {
    vec4 albedoOpacity;
    vec4 emissiveMetallic;
    vec4 roughnessKey;
};

uniform sampler2D uAlbedoMap;

in vec3 vNormal;
in vec2 vTexCoord;
in vec4 vColor;

out vec4 fragColor;

void main() {
    vec4 base = vec4(albedoOpacity.rgb, albedoOpacity.a);
#ifdef SHAPE_WIREFRAME
    fragColor = vec4(base.rgb, 1.0);
    return;
#endif
    base *= texture(uAlbedoMap, vTexCoord);
#ifndef SHAPE_UNLIT
    vec3 lightDir = normalize(vec3(0.4, 1.0, 0.3));
    float diffuse = max(dot(normalize(vNormal), lightDir), 0.0);
    base.rgb = base.rgb * (0.25 + 0.75 * diffuse) + emissiveMetallic.rgb;
#endif
#ifndef SHAPE_TRANSLUCENT
    base.a = 1.0;
#endif
    fragColor = base;
}
`

// Header returns the version line and one #define per flag set in key.
func Header(key render.ShapeKey) string {
	var sb strings.Builder
	sb.WriteString("#version 410 core\n")
	fmt.Fprintf(&sb, "#define MAX_CLUSTERS %d\n", MaxClusters)
	for _, name := range key.Defines() {
		sb.WriteString("#define SHAPE_")
		sb.WriteString(strings.ToUpper(name))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MeshSources returns the vertex and fragment sources for key.
func MeshSources(key render.ShapeKey) (vertex, fragment string) {
	header := Header(key)
	return header + meshVertexBody, header + meshFragmentBody
}

// CompileFunc builds a program from vertex and fragment sources.
type CompileFunc func(vertexSrc, fragmentSrc string) (uint32, error)

// Cache compiles one mesh program per shape key on first use.
type Cache struct {
	compile  CompileFunc
	programs map[render.ShapeKey]uint32
	log      *zap.Logger
}

// NewCache creates a cache that compiles with GL and wires the uniform
// blocks to slotSkinning and slotMaterial. Requires a current GL context.
func NewCache(slotSkinning, slotMaterial uint32, albedoUnit int32) *Cache {
	return NewCacheWithCompiler(func(vs, fs string) (uint32, error) {
		program, err := CompileProgram(vs, fs)
		if err != nil {
			return 0, err
		}
		BindBlock(program, SkinningBlock, slotSkinning)
		BindBlock(program, MaterialBlock, slotMaterial)
		BindSampler(program, AlbedoSampler, albedoUnit)
		return program, nil
	})
}

// NewCacheWithCompiler creates a cache around a custom compiler.
func NewCacheWithCompiler(compile CompileFunc) *Cache {
	return &Cache{
		compile:  compile,
		programs: make(map[render.ShapeKey]uint32),
		log:      logger.Named("shader"),
	}
}

// Program returns the program for key, compiling it if needed.
func (c *Cache) Program(key render.ShapeKey) (uint32, error) {
	if !key.IsValid() {
		return 0, fmt.Errorf("no program for invalid shape key")
	}
	if p, ok := c.programs[key]; ok {
		return p, nil
	}
	vs, fs := MeshSources(key)
	p, err := c.compile(vs, fs)
	if err != nil {
		return 0, fmt.Errorf("mesh program %s: %w", key, err)
	}
	c.programs[key] = p
	c.log.Debug("compiled mesh variant", zap.Stringer("key", key), zap.Uint32("program", p))
	return p, nil
}

// Len returns the number of compiled variants.
func (c *Cache) Len() int { return len(c.programs) }

// Release hands every program to free and empties the cache.
func (c *Cache) Release(free func(program uint32)) {
	for key, p := range c.programs {
		free(p)
		delete(c.programs, key)
	}
}
