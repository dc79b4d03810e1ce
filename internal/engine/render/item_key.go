// Package render defines the contract between renderable payloads and the
// scene pass that culls, sorts and draws them.
package render

// ItemKey classifies a renderable item for culling and sorting.
type ItemKey uint32

// ItemKey flags. Bits 8 through 15 carry caller tag bits.
const (
	ItemTypeShape ItemKey = 1 << iota
	ItemTypeLight
	ItemInvisible
	ItemLayered
	ItemShadowCaster
	ItemSubMetaCulled
	ItemDeformed
	ItemTransparent
)

const (
	itemTagShift        = 8
	itemTagMask ItemKey = 0xFF << itemTagShift
)

// IsShape reports whether the item is a shape.
func (k ItemKey) IsShape() bool { return k&ItemTypeShape != 0 }

// IsVisible reports whether the invisible flag is clear.
func (k ItemKey) IsVisible() bool { return k&ItemInvisible == 0 }

// IsLayered reports whether the item draws in a non-default layer.
func (k ItemKey) IsLayered() bool { return k&ItemLayered != 0 }

// IsShadowCaster reports whether the item casts shadows.
func (k ItemKey) IsShadowCaster() bool { return k&ItemShadowCaster != 0 }

// IsSubMetaCulled reports whether the item's group was culled.
func (k ItemKey) IsSubMetaCulled() bool { return k&ItemSubMetaCulled != 0 }

// IsDeformed reports whether the item's vertices are skinned or morphed.
func (k ItemKey) IsDeformed() bool { return k&ItemDeformed != 0 }

// IsTransparent reports whether the item needs the transparent pass.
func (k ItemKey) IsTransparent() bool { return k&ItemTransparent != 0 }

// IsOpaque is the complement of IsTransparent.
func (k ItemKey) IsOpaque() bool { return !k.IsTransparent() }

// TagBits returns the caller tag bits.
func (k ItemKey) TagBits() uint8 { return uint8((k & itemTagMask) >> itemTagShift) }

// OpaqueShape is the key of a visible opaque shape with no other flags.
func OpaqueShape() ItemKey { return NewItemKey().WithTypeShape().Build() }

// ItemKeyBuilder accumulates ItemKey flags.
type ItemKeyBuilder struct {
	key ItemKey
}

// NewItemKey starts an empty key.
func NewItemKey() ItemKeyBuilder { return ItemKeyBuilder{} }

func (b ItemKeyBuilder) with(f ItemKey) ItemKeyBuilder {
	b.key |= f
	return b
}

func (b ItemKeyBuilder) WithTypeShape() ItemKeyBuilder     { return b.with(ItemTypeShape) }
func (b ItemKeyBuilder) WithInvisible() ItemKeyBuilder     { return b.with(ItemInvisible) }
func (b ItemKeyBuilder) WithLayered() ItemKeyBuilder       { return b.with(ItemLayered) }
func (b ItemKeyBuilder) WithShadowCaster() ItemKeyBuilder  { return b.with(ItemShadowCaster) }
func (b ItemKeyBuilder) WithSubMetaCulled() ItemKeyBuilder { return b.with(ItemSubMetaCulled) }
func (b ItemKeyBuilder) WithDeformed() ItemKeyBuilder      { return b.with(ItemDeformed) }
func (b ItemKeyBuilder) WithTransparent() ItemKeyBuilder   { return b.with(ItemTransparent) }

// WithTagBits replaces the tag bits.
func (b ItemKeyBuilder) WithTagBits(tags uint8) ItemKeyBuilder {
	b.key = b.key&^itemTagMask | ItemKey(tags)<<itemTagShift
	return b
}

// Build returns the accumulated key.
func (b ItemKeyBuilder) Build() ItemKey { return b.key }
