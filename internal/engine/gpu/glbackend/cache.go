package glbackend

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
)

type glBuffer struct {
	handle uint32
	size   int
	stamp  uint32
	frame  uint64
}

type glTexture struct {
	handle uint32
	frame  uint64
}

// resources mirrors host buffers and textures into GL objects, keyed by
// identity. Objects not touched for a whole frame are freed by collect.
type resources struct {
	buffers  map[gpu.BufferID]*glBuffer
	textures map[gpu.TextureID]*glTexture
	white    uint32
	frame    uint64

	uploads int
}

func newResources() *resources {
	r := &resources{
		buffers:  make(map[gpu.BufferID]*glBuffer),
		textures: make(map[gpu.TextureID]*glTexture),
	}
	r.white = uploadRGBA(1, 1, []byte{255, 255, 255, 255})
	return r
}

// buffer returns the GL handle for buf, uploading content that changed since
// the last call. Storage is at least minSize bytes. The buffer is left bound
// to target.
func (r *resources) buffer(buf *gpu.Buffer, target uint32, minSize int) uint32 {
	cached := r.buffers[buf.ID()]
	action := planUpload(cached, buf)
	if cached == nil {
		cached = &glBuffer{}
		gl.GenBuffers(1, &cached.handle)
		r.buffers[buf.ID()] = cached
	}
	gl.BindBuffer(target, cached.handle)

	data := buf.Data()
	switch action {
	case uploadFull:
		size := max(len(data), minSize)
		gl.BufferData(target, size, nil, bufferHint(buf.Usage()))
		if len(data) > 0 {
			gl.BufferSubData(target, 0, len(data), ptr(data))
		}
		cached.size = size
		r.uploads++
	case uploadSub:
		gl.BufferSubData(target, 0, len(data), ptr(data))
		r.uploads++
	}
	cached.stamp = buf.Stamp()
	cached.frame = r.frame
	return cached.handle
}

// texture returns the GL handle for tex, or the white fallback when tex is
// nil or has no resident pixels.
func (r *resources) texture(tex *gpu.Texture) uint32 {
	if tex == nil || !tex.HasPixels() {
		return r.white
	}
	cached, ok := r.textures[tex.ID()]
	if !ok {
		cached = &glTexture{handle: uploadRGBA(tex.Width, tex.Height, tex.Pixels)}
		r.textures[tex.ID()] = cached
		r.uploads++
	}
	cached.frame = r.frame
	return cached.handle
}

// collect frees objects unused during the frame that just ended and starts a
// new one. It returns the number of objects freed.
func (r *resources) collect() int {
	freed := 0
	for id, b := range r.buffers {
		if b.frame != r.frame {
			gl.DeleteBuffers(1, &b.handle)
			delete(r.buffers, id)
			freed++
		}
	}
	for id, t := range r.textures {
		if t.frame != r.frame {
			gl.DeleteTextures(1, &t.handle)
			delete(r.textures, id)
			freed++
		}
	}
	r.frame++
	return freed
}

func (r *resources) release() {
	for id, b := range r.buffers {
		gl.DeleteBuffers(1, &b.handle)
		delete(r.buffers, id)
	}
	for id, t := range r.textures {
		gl.DeleteTextures(1, &t.handle)
		delete(r.textures, id)
	}
	gl.DeleteTextures(1, &r.white)
}

func uploadRGBA(width, height int, pixels []byte) uint32 {
	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	return handle
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}
