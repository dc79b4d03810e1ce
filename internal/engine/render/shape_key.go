package render

import "strings"

// ShapeKey selects the pipeline variant a shape is drawn with.
type ShapeKey uint32

// ShapeKey flags.
const (
	ShapeMaterial ShapeKey = 1 << iota
	ShapeTranslucent
	ShapeTangents
	ShapeSpecular
	ShapeLightmap
	ShapeUnlit
	ShapeSkinned
	ShapeDualQuatSkinned
	ShapeWireframe

	numShapeBits = iota
)

// shapeInvalid is outside every combination of the flags above.
const shapeInvalid ShapeKey = 1 << 31

var shapeNames = [numShapeBits]string{
	"material", "translucent", "tangents", "specular", "lightmap",
	"unlit", "skinned", "dual_quat", "wireframe",
}

// InvalidShapeKey returns the sentinel telling the renderer not to draw.
func InvalidShapeKey() ShapeKey { return shapeInvalid }

// IsValid reports whether k is not the invalid sentinel.
func (k ShapeKey) IsValid() bool { return k != shapeInvalid }

func (k ShapeKey) HasMaterial() bool       { return k&ShapeMaterial != 0 }
func (k ShapeKey) IsTranslucent() bool     { return k&ShapeTranslucent != 0 }
func (k ShapeKey) HasTangents() bool       { return k&ShapeTangents != 0 }
func (k ShapeKey) HasSpecular() bool       { return k&ShapeSpecular != 0 }
func (k ShapeKey) HasLightmap() bool       { return k&ShapeLightmap != 0 }
func (k ShapeKey) IsUnlit() bool           { return k&ShapeUnlit != 0 }
func (k ShapeKey) IsSkinned() bool         { return k&ShapeSkinned != 0 }
func (k ShapeKey) IsDualQuatSkinned() bool { return k&ShapeDualQuatSkinned != 0 }
func (k ShapeKey) IsWireframe() bool       { return k&ShapeWireframe != 0 }

// Defines lists the flag names set in k, in bit order.
func (k ShapeKey) Defines() []string {
	if !k.IsValid() {
		return nil
	}
	var out []string
	for i, name := range shapeNames {
		if k&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

func (k ShapeKey) String() string {
	if !k.IsValid() {
		return "invalid"
	}
	return "[" + strings.Join(k.Defines(), " ") + "]"
}

// ShapeKeyBuilder accumulates ShapeKey flags.
type ShapeKeyBuilder struct {
	key ShapeKey
}

// NewShapeKey starts an empty key.
func NewShapeKey() ShapeKeyBuilder { return ShapeKeyBuilder{} }

func (b ShapeKeyBuilder) with(f ShapeKey) ShapeKeyBuilder {
	b.key |= f
	return b
}

func (b ShapeKeyBuilder) WithMaterial() ShapeKeyBuilder        { return b.with(ShapeMaterial) }
func (b ShapeKeyBuilder) WithTranslucent() ShapeKeyBuilder     { return b.with(ShapeTranslucent) }
func (b ShapeKeyBuilder) WithTangents() ShapeKeyBuilder        { return b.with(ShapeTangents) }
func (b ShapeKeyBuilder) WithSpecular() ShapeKeyBuilder        { return b.with(ShapeSpecular) }
func (b ShapeKeyBuilder) WithLightmap() ShapeKeyBuilder        { return b.with(ShapeLightmap) }
func (b ShapeKeyBuilder) WithUnlit() ShapeKeyBuilder           { return b.with(ShapeUnlit) }
func (b ShapeKeyBuilder) WithSkinned() ShapeKeyBuilder         { return b.with(ShapeSkinned) }
func (b ShapeKeyBuilder) WithDualQuatSkinned() ShapeKeyBuilder { return b.with(ShapeDualQuatSkinned) }
func (b ShapeKeyBuilder) WithWireframe() ShapeKeyBuilder       { return b.with(ShapeWireframe) }

// Build returns the accumulated key.
func (b ShapeKeyBuilder) Build() ShapeKey { return b.key }
