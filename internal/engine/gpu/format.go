package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Slot is a semantic vertex attribute location.
type Slot uint8

// Vertex attribute slots.
const (
	SlotPosition Slot = iota
	SlotNormal
	SlotColor
	SlotTexCoord0
	SlotTangent
	SlotSkinClusterIndex
	SlotSkinClusterWeight
	SlotTexCoord1
	NumSlots
)

var slotNames = [NumSlots]string{
	"position", "normal", "color", "texcoord0",
	"tangent", "skin_cluster_index", "skin_cluster_weight", "texcoord1",
}

func (s Slot) String() string {
	if s < NumSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

// Attribute places a slot inside an interleaved channel.
type Attribute struct {
	Slot    Slot
	Channel uint32
	Format  gputypes.VertexFormat
	Offset  uint32
}

// Format describes the vertex layout of a mesh: which attributes exist and
// how they are packed into channels.
type Format struct {
	attributes []Attribute
	strides    []uint32
}

// NewFormat builds a format from attributes. Channel strides are derived from
// the furthest attribute end in each channel.
func NewFormat(attrs ...Attribute) *Format {
	f := &Format{}
	for _, a := range attrs {
		f.SetAttribute(a)
	}
	return f
}

// SetAttribute adds or replaces the attribute for a.Slot.
func (f *Format) SetAttribute(a Attribute) {
	for i := range f.attributes {
		if f.attributes[i].Slot == a.Slot {
			f.attributes[i] = a
			f.updateStrides()
			return
		}
	}
	f.attributes = append(f.attributes, a)
	f.updateStrides()
}

func (f *Format) updateStrides() {
	var strides []uint32
	for _, a := range f.attributes {
		for uint32(len(strides)) <= a.Channel {
			strides = append(strides, 0)
		}
		if end := a.Offset + FormatSize(a.Format); end > strides[a.Channel] {
			strides[a.Channel] = end
		}
	}
	f.strides = strides
}

// HasAttribute reports whether the format carries slot s.
func (f *Format) HasAttribute(s Slot) bool {
	_, ok := f.Attribute(s)
	return ok
}

// Attribute returns the attribute for slot s.
func (f *Format) Attribute(s Slot) (Attribute, bool) {
	for _, a := range f.attributes {
		if a.Slot == s {
			return a, true
		}
	}
	return Attribute{}, false
}

// Attributes returns all attributes in insertion order.
func (f *Format) Attributes() []Attribute { return f.attributes }

// NumChannels returns the number of vertex buffer channels the format uses.
func (f *Format) NumChannels() int { return len(f.strides) }

// ChannelStride returns the byte stride of channel c.
func (f *Format) ChannelStride(c uint32) uint32 {
	if int(c) >= len(f.strides) {
		return 0
	}
	return f.strides[c]
}

// FormatSize returns the byte size of one element of vf.
func FormatSize(vf gputypes.VertexFormat) uint32 {
	switch vf {
	case gputypes.VertexFormatFloat32:
		return 4
	case gputypes.VertexFormatFloat32x2, gputypes.VertexFormatUint16x4:
		return 8
	case gputypes.VertexFormatFloat32x3:
		return 12
	case gputypes.VertexFormatFloat32x4:
		return 16
	default:
		return 0
	}
}
