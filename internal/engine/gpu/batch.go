package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/Faultbox/meshpart/pkg/math"
)

// IndexType is the element type of an index buffer.
type IndexType uint8

// Index element types.
const (
	IndexUint16 IndexType = iota
	IndexUint32
)

// Size returns the byte size of one index.
func (t IndexType) Size() uint32 {
	if t == IndexUint16 {
		return 2
	}
	return 4
}

// Batch records GPU state bindings and draw commands. Implementations record
// for later submission; nothing is executed synchronously.
type Batch interface {
	SetIndexBuffer(indexType IndexType, buffer *Buffer, offset uint32)
	SetInputFormat(format *Format)
	SetInputStream(channel uint32, stream BufferStream)
	SetInputBuffer(channel uint32, buffer *Buffer, offset, stride uint32)
	SetModelTransform(transform math.Mat4)
	SetUniformBuffer(slot uint32, buffer *Buffer)
	SetResourceTexture(slot uint32, texture *Texture)
	DrawIndexed(topology gputypes.PrimitiveTopology, numIndices, startIndex uint32)
}

// CommandKind tags a recorded command.
type CommandKind uint8

// Recorded command kinds.
const (
	CmdSetIndexBuffer CommandKind = iota
	CmdSetInputFormat
	CmdSetInputStream
	CmdSetInputBuffer
	CmdSetModelTransform
	CmdSetUniformBuffer
	CmdSetResourceTexture
	CmdDrawIndexed
)

func (k CommandKind) String() string {
	switch k {
	case CmdSetIndexBuffer:
		return "SetIndexBuffer"
	case CmdSetInputFormat:
		return "SetInputFormat"
	case CmdSetInputStream:
		return "SetInputStream"
	case CmdSetInputBuffer:
		return "SetInputBuffer"
	case CmdSetModelTransform:
		return "SetModelTransform"
	case CmdSetUniformBuffer:
		return "SetUniformBuffer"
	case CmdSetResourceTexture:
		return "SetResourceTexture"
	case CmdDrawIndexed:
		return "DrawIndexed"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is one recorded batch entry. Only the fields relevant to Kind are set.
type Command struct {
	Kind CommandKind

	// Slot is the channel for input commands and the binding slot for
	// uniform/texture commands.
	Slot uint32

	Buffer  *Buffer
	Offset  uint32
	Stride  uint32
	Format  *Format
	Stream  BufferStream
	Texture *Texture

	Transform math.Mat4

	IndexType  IndexType
	Topology   gputypes.PrimitiveTopology
	NumIndices uint32
	StartIndex uint32
}

// CommandBatch is a Batch that appends every call to an in-memory command list.
type CommandBatch struct {
	name     string
	commands []Command
}

// NewCommandBatch creates an empty recorder.
func NewCommandBatch(name string) *CommandBatch {
	return &CommandBatch{name: name}
}

// Name returns the label given at creation.
func (b *CommandBatch) Name() string { return b.name }

// Commands returns the recorded commands in order.
func (b *CommandBatch) Commands() []Command { return b.commands }

// Len returns the number of recorded commands.
func (b *CommandBatch) Len() int { return len(b.commands) }

// Count returns how many commands of kind k were recorded.
func (b *CommandBatch) Count(k CommandKind) int {
	n := 0
	for i := range b.commands {
		if b.commands[i].Kind == k {
			n++
		}
	}
	return n
}

// Last returns the most recent command of kind k.
func (b *CommandBatch) Last(k CommandKind) (Command, bool) {
	for i := len(b.commands) - 1; i >= 0; i-- {
		if b.commands[i].Kind == k {
			return b.commands[i], true
		}
	}
	return Command{}, false
}

// Reset clears the command list, keeping its capacity.
func (b *CommandBatch) Reset() {
	b.commands = b.commands[:0]
}

func (b *CommandBatch) SetIndexBuffer(indexType IndexType, buffer *Buffer, offset uint32) {
	b.commands = append(b.commands, Command{Kind: CmdSetIndexBuffer, IndexType: indexType, Buffer: buffer, Offset: offset})
}

func (b *CommandBatch) SetInputFormat(format *Format) {
	b.commands = append(b.commands, Command{Kind: CmdSetInputFormat, Format: format})
}

func (b *CommandBatch) SetInputStream(channel uint32, stream BufferStream) {
	b.commands = append(b.commands, Command{Kind: CmdSetInputStream, Slot: channel, Stream: stream})
}

func (b *CommandBatch) SetInputBuffer(channel uint32, buffer *Buffer, offset, stride uint32) {
	b.commands = append(b.commands, Command{Kind: CmdSetInputBuffer, Slot: channel, Buffer: buffer, Offset: offset, Stride: stride})
}

func (b *CommandBatch) SetModelTransform(transform math.Mat4) {
	b.commands = append(b.commands, Command{Kind: CmdSetModelTransform, Transform: transform})
}

func (b *CommandBatch) SetUniformBuffer(slot uint32, buffer *Buffer) {
	b.commands = append(b.commands, Command{Kind: CmdSetUniformBuffer, Slot: slot, Buffer: buffer})
}

func (b *CommandBatch) SetResourceTexture(slot uint32, texture *Texture) {
	b.commands = append(b.commands, Command{Kind: CmdSetResourceTexture, Slot: slot, Texture: texture})
}

func (b *CommandBatch) DrawIndexed(topology gputypes.PrimitiveTopology, numIndices, startIndex uint32) {
	b.commands = append(b.commands, Command{Kind: CmdDrawIndexed, Topology: topology, NumIndices: numIndices, StartIndex: startIndex})
}
