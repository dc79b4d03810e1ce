package gpu

import "sync/atomic"

// TextureID identifies a Texture for the lifetime of the process.
type TextureID uint64

var nextTextureID atomic.Uint64

// Texture is an opaque handle to image data owned by the asset layer.
type Texture struct {
	id     TextureID
	Name   string
	Width  int
	Height int

	// Pixels holds tightly packed RGBA8 rows when the image is resident.
	// Backends bind a white fallback while it is nil.
	Pixels []byte
}

// NewTexture allocates a texture handle.
func NewTexture(name string, width, height int) *Texture {
	return &Texture{
		id:     TextureID(nextTextureID.Add(1)),
		Name:   name,
		Width:  width,
		Height: height,
	}
}

// HasPixels reports whether Pixels covers Width*Height RGBA8 texels.
func (t *Texture) HasPixels() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) >= t.Width*t.Height*4
}

// ID returns the texture identity.
func (t *Texture) ID() TextureID { return t.id }
