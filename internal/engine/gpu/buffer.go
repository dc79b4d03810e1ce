// Package gpu defines the draw-batch recorder contract and the CPU-side
// resources (buffers, vertex formats, streams, textures) that payloads bind
// into it. Recorded batches are replayed by a backend such as glbackend.
package gpu

import (
	"encoding/binary"
	gomath "math"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// BufferID identifies a Buffer for the lifetime of the process.
type BufferID uint64

var nextBufferID atomic.Uint64

// Buffer is a host-side copy of a GPU buffer. Backends upload it when its
// stamp changes. A Buffer keeps its identity across SetSubData calls, even
// when they grow it.
type Buffer struct {
	id    BufferID
	usage gputypes.BufferUsage
	data  []byte
	stamp uint32
}

// NewBuffer creates a buffer holding a copy of data.
func NewBuffer(usage gputypes.BufferUsage, data []byte) *Buffer {
	b := &Buffer{
		id:    BufferID(nextBufferID.Add(1)),
		usage: usage,
		data:  make([]byte, len(data)),
		stamp: 1,
	}
	copy(b.data, data)
	return b
}

// ID returns the buffer identity.
func (b *Buffer) ID() BufferID { return b.id }

// Usage returns the usage flags the buffer was created with.
func (b *Buffer) Usage() gputypes.BufferUsage { return b.usage }

// Size returns the size in bytes.
func (b *Buffer) Size() int { return len(b.data) }

// Data returns the current contents. Callers must not modify the slice.
func (b *Buffer) Data() []byte { return b.data }

// Stamp increments on every content change.
func (b *Buffer) Stamp() uint32 { return b.stamp }

// SetSubData overwrites size(data) bytes at offset, growing the buffer if the
// range extends past its end.
func (b *Buffer) SetSubData(offset int, data []byte) {
	end := offset + len(data)
	if end > len(b.data) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[offset:end], data)
	b.stamp++
}

// Float32Bytes encodes values as little-endian IEEE-754 bytes.
func Float32Bytes(values []float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, gomath.Float32bits(v))
	}
	return out
}

// Uint32Bytes encodes values as little-endian bytes.
func Uint32Bytes(values []uint32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

// Uint16Bytes encodes values as little-endian bytes.
func Uint16Bytes(values []uint16) []byte {
	out := make([]byte, 0, len(values)*2)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// Float32At decodes the little-endian float32 at byte offset off.
func Float32At(data []byte, off int) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}
