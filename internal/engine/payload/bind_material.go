// Package payload implements the renderable mesh-part payloads handed to the
// scene pass: a static MeshPartPayload and a skinned, blend-shaped
// ModelMeshPartPayload built on top of it.
package payload

import (
	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/internal/engine/render"
)

// BindMaterial binds material's uniform buffer and texture maps. A nil
// material binds the default material. Every map slot is written so no
// texture from a previous draw stays bound; with texturing disabled all map
// slots are cleared.
func BindMaterial(material *graphics.Material, batch gpu.Batch, enableTexturing bool) {
	if material == nil {
		material = graphics.DefaultMaterial()
	}
	batch.SetUniformBuffer(render.SlotBufferMaterial, material.SchemaBuffer())

	for ch := graphics.MapChannel(0); ch < graphics.NumMapChannels; ch++ {
		var tex *gpu.Texture
		if enableTexturing {
			tex = material.TextureMap(ch)
		}
		batch.SetResourceTexture(render.SlotTextureMaps+uint32(ch), tex)
	}
}
