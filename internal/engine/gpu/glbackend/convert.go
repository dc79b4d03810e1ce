package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/internal/engine/shader"
)

// skinningBlockSize covers MaxClusters column-major matrices, the larger of
// the two skinning layouts.
const skinningBlockSize = shader.MaxClusters * 16 * 4

// uniformBlockSize is the minimum storage for the block bound at slot.
func uniformBlockSize(slot uint32) int {
	if slot == render.SlotBufferSkinning {
		return skinningBlockSize
	}
	return 0
}

// attribFormat describes how GL reads one vertex attribute.
type attribFormat struct {
	components int32
	xtype      uint32
	integer    bool
}

func vertexAttribFormat(vf gputypes.VertexFormat) (attribFormat, error) {
	switch vf {
	case gputypes.VertexFormatFloat32:
		return attribFormat{1, gl.FLOAT, false}, nil
	case gputypes.VertexFormatFloat32x2:
		return attribFormat{2, gl.FLOAT, false}, nil
	case gputypes.VertexFormatFloat32x3:
		return attribFormat{3, gl.FLOAT, false}, nil
	case gputypes.VertexFormatFloat32x4:
		return attribFormat{4, gl.FLOAT, false}, nil
	case gputypes.VertexFormatUint16x4:
		return attribFormat{4, gl.UNSIGNED_SHORT, true}, nil
	default:
		return attribFormat{}, fmt.Errorf("unsupported vertex format %v", vf)
	}
}

func primitiveMode(t gputypes.PrimitiveTopology) (uint32, error) {
	switch t {
	case gputypes.PrimitiveTopologyTriangleList:
		return gl.TRIANGLES, nil
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP, nil
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES, nil
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP, nil
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS, nil
	default:
		return 0, fmt.Errorf("unsupported topology %v", t)
	}
}

func indexElementType(t gpu.IndexType) uint32 {
	if t == gpu.IndexUint16 {
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}

// indexByteOffset is the element-array offset of index startIndex for an
// index buffer bound at offset.
func indexByteOffset(offset, startIndex uint32, t gpu.IndexType) uintptr {
	return uintptr(offset) + uintptr(startIndex)*uintptr(t.Size())
}

func bufferTarget(usage gputypes.BufferUsage) uint32 {
	switch {
	case usage&gputypes.BufferUsageIndex != 0:
		return gl.ELEMENT_ARRAY_BUFFER
	case usage&gputypes.BufferUsageUniform != 0:
		return gl.UNIFORM_BUFFER
	default:
		return gl.ARRAY_BUFFER
	}
}

func bufferHint(usage gputypes.BufferUsage) uint32 {
	if usage&gputypes.BufferUsageCopyDst != 0 {
		return gl.DYNAMIC_DRAW
	}
	return gl.STATIC_DRAW
}

// uploadAction is what a cached GL buffer needs to match its host copy.
type uploadAction uint8

const (
	uploadNone uploadAction = iota
	uploadSub
	uploadFull
)

func planUpload(cached *glBuffer, buf *gpu.Buffer) uploadAction {
	switch {
	case cached == nil || cached.size < buf.Size():
		return uploadFull
	case cached.stamp != buf.Stamp():
		return uploadSub
	default:
		return uploadNone
	}
}
