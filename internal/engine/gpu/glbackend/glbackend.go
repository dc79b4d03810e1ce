// Package glbackend replays recorded gpu batches against an OpenGL 4.1 core
// context. All calls must happen on the thread owning the context.
package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/internal/engine/shader"
	"github.com/Faultbox/meshpart/internal/logger"
	"github.com/Faultbox/meshpart/pkg/math"
)

// Stats counts backend work since the last EndFrame.
type Stats struct {
	Draws   int
	Uploads int
	Freed   int
}

type programInfo struct {
	model    int32
	viewProj int32
}

// replayState is the bound input state between draws of one batch.
type replayState struct {
	format      *gpu.Format
	channels    []gpu.BufferView
	index       *gpu.Buffer
	indexType   gpu.IndexType
	indexOffset uint32
	enabled     uint32
}

func (s *replayState) setChannel(channel uint32, view gpu.BufferView) {
	for uint32(len(s.channels)) <= channel {
		s.channels = append(s.channels, gpu.BufferView{})
	}
	s.channels[channel] = view
}

// Backend owns the GL objects mirroring host resources and one vertex array.
type Backend struct {
	programs *shader.Cache
	infos    map[uint32]programInfo
	res      *resources
	vao      uint32
	viewProj math.Mat4
	scratch  *gpu.CommandBatch
	state    replayState
	stats    Stats
	log      *zap.Logger
}

// New loads the GL entry points and creates a backend compiling mesh
// variants through programs. Must be called after the context is current.
func New(programs *shader.Cache) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	b := &Backend{
		programs: programs,
		infos:    make(map[uint32]programInfo),
		res:      newResources(),
		viewProj: math.Identity(),
		scratch:  gpu.NewCommandBatch("glbackend"),
		log:      logger.Named("glbackend"),
	}
	b.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.GenVertexArrays(1, &b.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	return b, nil
}

// BeginFrame clears the color and depth targets.
func (b *Backend) BeginFrame(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetViewProjection sets the camera matrix used by every following draw.
func (b *Backend) SetViewProjection(m math.Mat4) { b.viewProj = m }

// Draw records each payload into a scratch batch and replays it with the
// program variant for its shape key. args.Batch is restored afterwards.
func (b *Backend) Draw(items []render.Payload, args *render.Args) error {
	if args == nil {
		return nil
	}
	saved := args.Batch
	defer func() { args.Batch = saved }()

	for _, item := range items {
		key := item.ShapeKey()
		program, err := b.programs.Program(key)
		if err != nil {
			return err
		}
		b.scratch.Reset()
		args.Batch = b.scratch
		item.Render(args)
		if err := b.Replay(b.scratch, program, key.IsWireframe()); err != nil {
			return fmt.Errorf("replay %s: %w", key, err)
		}
	}
	return nil
}

// Replay executes batch with program bound.
func (b *Backend) Replay(batch *gpu.CommandBatch, program uint32, wireframe bool) error {
	info := b.programInfo(program)
	gl.UseProgram(program)
	gl.BindVertexArray(b.vao)
	gl.UniformMatrix4fv(info.viewProj, 1, false, b.viewProj.Ptr())
	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	b.state.format = nil
	b.state.index = nil
	b.state.channels = b.state.channels[:0]

	for _, cmd := range batch.Commands() {
		switch cmd.Kind {
		case gpu.CmdSetIndexBuffer:
			b.state.index = cmd.Buffer
			b.state.indexType = cmd.IndexType
			b.state.indexOffset = cmd.Offset
		case gpu.CmdSetInputFormat:
			b.state.format = cmd.Format
		case gpu.CmdSetInputStream:
			for i, view := range cmd.Stream.Views() {
				b.state.setChannel(cmd.Slot+uint32(i), view)
			}
		case gpu.CmdSetInputBuffer:
			b.state.setChannel(cmd.Slot, gpu.BufferView{Buffer: cmd.Buffer, Offset: cmd.Offset, Stride: cmd.Stride})
		case gpu.CmdSetModelTransform:
			m := cmd.Transform
			gl.UniformMatrix4fv(info.model, 1, false, m.Ptr())
		case gpu.CmdSetUniformBuffer:
			var handle uint32
			if cmd.Buffer != nil {
				handle = b.res.buffer(cmd.Buffer, gl.UNIFORM_BUFFER, uniformBlockSize(cmd.Slot))
			}
			gl.BindBufferBase(gl.UNIFORM_BUFFER, cmd.Slot, handle)
		case gpu.CmdSetResourceTexture:
			gl.ActiveTexture(gl.TEXTURE0 + cmd.Slot)
			gl.BindTexture(gl.TEXTURE_2D, b.res.texture(cmd.Texture))
		case gpu.CmdDrawIndexed:
			if err := b.drawIndexed(cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Backend) drawIndexed(cmd gpu.Command) error {
	if b.state.format == nil || b.state.index == nil {
		return fmt.Errorf("draw without input format or index buffer")
	}
	mode, err := primitiveMode(cmd.Topology)
	if err != nil {
		return err
	}
	if err := b.bindAttributes(); err != nil {
		return err
	}
	b.res.buffer(b.state.index, gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.DrawElementsWithOffset(mode, int32(cmd.NumIndices), indexElementType(b.state.indexType),
		indexByteOffset(b.state.indexOffset, cmd.StartIndex, b.state.indexType))
	b.stats.Draws++
	return nil
}

// bindAttributes points every format attribute at its channel view and
// disables the locations the previous draw used but this one does not.
func (b *Backend) bindAttributes() error {
	var mask uint32
	for _, a := range b.state.format.Attributes() {
		if int(a.Channel) >= len(b.state.channels) || b.state.channels[a.Channel].Buffer == nil {
			continue
		}
		view := b.state.channels[a.Channel]
		f, err := vertexAttribFormat(a.Format)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", a.Slot, err)
		}
		b.res.buffer(view.Buffer, gl.ARRAY_BUFFER, 0)

		loc := uint32(a.Slot)
		gl.EnableVertexAttribArray(loc)
		offset := uintptr(view.Offset + a.Offset)
		if f.integer {
			gl.VertexAttribIPointerWithOffset(loc, f.components, f.xtype, int32(view.Stride), offset)
		} else {
			gl.VertexAttribPointerWithOffset(loc, f.components, f.xtype, false, int32(view.Stride), offset)
		}
		mask |= 1 << loc
	}
	for loc := uint32(0); loc < uint32(gpu.NumSlots); loc++ {
		if b.state.enabled&(1<<loc) != 0 && mask&(1<<loc) == 0 {
			gl.DisableVertexAttribArray(loc)
		}
	}
	b.state.enabled = mask
	return nil
}

func (b *Backend) programInfo(program uint32) programInfo {
	info, ok := b.infos[program]
	if !ok {
		info = programInfo{
			model:    shader.GetUniform(program, shader.ModelUniform),
			viewProj: shader.GetUniform(program, shader.ViewProjection),
		}
		b.infos[program] = info
	}
	return info
}

// EndFrame frees GL objects unused this frame and returns the frame's stats.
func (b *Backend) EndFrame() Stats {
	b.stats.Uploads = b.res.uploads
	b.stats.Freed = b.res.collect()
	stats := b.stats
	if stats.Freed > 0 {
		b.log.Debug("released idle GL objects", zap.Int("count", stats.Freed))
	}
	b.stats = Stats{}
	b.res.uploads = 0
	return stats
}

// Release deletes every GL object the backend created, including programs.
func (b *Backend) Release() {
	b.res.release()
	b.programs.Release(func(p uint32) { gl.DeleteProgram(p) })
	gl.DeleteVertexArrays(1, &b.vao)
}
