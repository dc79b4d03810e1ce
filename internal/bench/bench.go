// Package bench drives synthetic skinned, blend-shaped models through the
// mesh part payloads and records or replays the resulting draw batches.
package bench

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/config"
	"github.com/Faultbox/meshpart/internal/engine/camera"
	"github.com/Faultbox/meshpart/internal/engine/debug"
	"github.com/Faultbox/meshpart/internal/engine/gpu"
	"github.com/Faultbox/meshpart/internal/engine/gpu/glbackend"
	"github.com/Faultbox/meshpart/internal/engine/graphics"
	"github.com/Faultbox/meshpart/internal/engine/model"
	"github.com/Faultbox/meshpart/internal/engine/payload"
	"github.com/Faultbox/meshpart/internal/engine/perf"
	"github.com/Faultbox/meshpart/internal/engine/render"
	"github.com/Faultbox/meshpart/internal/engine/shader"
	"github.com/Faultbox/meshpart/internal/engine/window"
	"github.com/Faultbox/meshpart/internal/logger"
	"github.com/Faultbox/meshpart/pkg/math"
)

const (
	frameMs         = 1000.0 / 60
	instanceSpacing = 3
	frontEvery      = 8
)

// Result summarizes a run.
type Result struct {
	Frames           int
	Drawn            int
	Triangles        int
	MaterialSwitches int
	Commands         int
	Elapsed          time.Duration
}

// instance is one placed model with its payloads and animation state.
type instance struct {
	model     *model.Model
	tracks    []model.ClusterTrack
	pose      []math.Transform
	weights   []float32
	payloads  []*payload.ModelMeshPartPayload
	bound     *debug.BoundPayload
	transform math.Mat4
	phaseMs   float32
	front     bool
	tag       uint8
}

// Bench is the benchmark instance.
type Bench struct {
	cfg       *config.Config
	instances []*instance
	list      render.DrawList
	batch     *gpu.CommandBatch
	frames    *perf.FrameCounter
	camera    *camera.OrbitCamera
	log       *zap.Logger

	window  *window.Window
	backend *glbackend.Backend
}

// New builds cfg.Bench.Models instances and, for the gl backend, a window and
// GL replay backend.
func New(cfg *config.Config) (*Bench, error) {
	mode, err := model.ParseSkinningMode(cfg.Skinning.Mode)
	if err != nil {
		return nil, err
	}

	b := &Bench{
		cfg:    cfg,
		batch:  gpu.NewCommandBatch("bench"),
		frames: perf.NewFrameCounter(time.Second),
		log:    logger.Named("bench"),
	}
	b.log.Info("initializing bench",
		zap.Int("models", cfg.Bench.Models),
		zap.Int("clusters", cfg.Bench.Clusters),
		zap.Int("blendShapes", cfg.Bench.BlendShapes),
		zap.Stringer("skinning", mode),
		zap.String("backend", cfg.Render.Backend),
	)

	materials := newMaterials()
	segments := max(cfg.Bench.Clusters, 1)
	geometry, err := buildGeometry(materials, segments, cfg.Bench.Clusters, cfg.Bench.BlendShapes)
	if err != nil {
		return nil, fmt.Errorf("build geometry: %w", err)
	}

	boundMaterial := graphics.NewMaterial("bounds")
	boundMaterial.SetAlbedo(math.Vec3{X: 1, Y: 1})
	boundMaterial.SetUnlit(true)

	for i := 0; i < cfg.Bench.Models; i++ {
		inst, err := b.newInstance(i, geometry, mode, boundMaterial)
		if err != nil {
			return nil, err
		}
		b.instances = append(b.instances, inst)
	}

	b.camera = camera.NewOrbitCamera()
	b.camera.FitToBounds(b.sceneBound())

	if cfg.Render.Backend == config.BackendGL {
		if err := b.openGL(); err != nil {
			b.Close()
			return nil, err
		}
	}

	b.log.Info("bench initialized", zap.Int("payloads", b.payloadCount()))
	return b, nil
}

func (b *Bench) newInstance(i int, geometry *model.Geometry, mode model.SkinningMode, boundMaterial *graphics.Material) (*instance, error) {
	m := model.New(geometry, mode)
	inst := &instance{
		model:     m,
		tracks:    swingTracks(b.cfg.Bench.Clusters),
		weights:   make([]float32, b.cfg.Bench.BlendShapes),
		transform: math.Translate(float32(i%8)*instanceSpacing, 0, float32(i/8)*instanceSpacing),
		phaseMs:   float32(i) * 97,
		front:     i%frontEvery == frontEvery-1,
		tag:       uint8(1 << (i % 8)),
	}

	// Pose before creating payloads so the first bounds are valid.
	inst.pose = model.SamplePose(inst.pose, inst.tracks, inst.phaseMs)
	if err := m.SetClusterTransforms(0, inst.pose); err != nil {
		return nil, err
	}

	for s, shape := range geometry.Shapes() {
		p := payload.NewModelMeshPartPayload(m, shape.MeshIndex, shape.PartIndex, s, inst.transform, math.Identity())
		inst.payloads = append(inst.payloads, p)
	}

	if b.cfg.Render.ShowBounds {
		bound, err := debug.NewBoundPayload(boundMaterial, debug.DefaultBoundPadding)
		if err != nil {
			return nil, err
		}
		inst.bound = bound
	}
	return inst, nil
}

func (b *Bench) openGL() error {
	var err error
	b.window, err = window.New("meshpart bench", b.cfg.Window)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	programs := shader.NewCache(render.SlotBufferSkinning, render.SlotBufferMaterial, int32(render.SlotTextureMaps+uint32(graphics.AlbedoMap)))
	b.backend, err = glbackend.New(programs)
	if err != nil {
		return fmt.Errorf("failed to create GL backend: %w", err)
	}
	return nil
}

// sceneBound is the union of every payload's world bound.
func (b *Bench) sceneBound() math.AABox {
	scene := math.EmptyAABox()
	for _, inst := range b.instances {
		for _, p := range inst.payloads {
			scene = scene.Union(p.Bound())
		}
	}
	return scene
}

func (b *Bench) payloadCount() int {
	n := 0
	for _, inst := range b.instances {
		n += len(inst.payloads)
	}
	return n
}

// Run renders cfg.Bench.Frames frames, or until the window is closed.
func (b *Bench) Run() (Result, error) {
	var res Result
	start := time.Now()

	b.log.Info("starting bench loop", zap.Int("frames", b.cfg.Bench.Frames))
	for frame := 0; frame < b.cfg.Bench.Frames; frame++ {
		if b.window != nil && b.window.PollQuit() {
			break
		}

		if err := b.update(float32(frame) * frameMs); err != nil {
			return res, fmt.Errorf("update error: %w", err)
		}

		details, drawn, err := b.render()
		if err != nil {
			return res, fmt.Errorf("render error: %w", err)
		}

		res.Frames++
		res.Drawn += drawn
		res.Triangles += details.TrianglesRendered
		res.MaterialSwitches += details.MaterialSwitches
		res.Commands += b.batch.Len()
		b.frames.Tick()
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// update advances every instance to timeMs and refreshes its payloads.
func (b *Bench) update(timeMs float32) error {
	defer perf.Start("Bench.update").Stop()

	b.camera.Advance(frameMs / 1000)

	for _, inst := range b.instances {
		t := timeMs + inst.phaseMs
		if model.HasAnimation(inst.tracks) {
			t = float32(int(t) % int(swingMs))
		}
		inst.pose = model.SamplePose(inst.pose, inst.tracks, t)
		if err := inst.model.SetClusterTransforms(0, inst.pose); err != nil {
			return err
		}
		if len(inst.weights) > 0 {
			if err := inst.model.SetBlendShapeCoefficients(0, blendWeights(inst.weights, t)); err != nil {
				return err
			}
		}

		bound := math.EmptyAABox()
		for _, p := range inst.payloads {
			b.updatePayload(inst, p)
			bound = bound.Union(p.Bound())
		}
		if inst.bound != nil {
			inst.bound.SetBound(bound)
		}
	}
	return nil
}

func (b *Bench) updatePayload(inst *instance, p *payload.ModelMeshPartPayload) {
	clusters := inst.model.MeshState(p.MeshIndex()).ClusterTransforms
	p.UpdateClusterBuffer(clusters)
	p.ComputeAdjustedLocalBound(clusters)

	renderTransform := inst.transform
	if len(clusters) == 1 {
		renderTransform = inst.transform.Mul(clusters[0].Matrix())
	}
	p.UpdateTransformForSkinnedMesh(renderTransform, inst.transform)
	p.UpdateKey(true, inst.front, true, inst.tag, false)
	p.SetShapeKey(false, b.cfg.Render.Wireframe)
	p.SetLayer(inst.front, false)
}

// render fills the draw list and records it, replaying through GL when a
// backend is open.
func (b *Bench) render() (render.Details, int, error) {
	defer perf.Start("Bench.render").Stop()

	b.list.Reset()
	for _, inst := range b.instances {
		for _, p := range inst.payloads {
			b.list.Add(p)
		}
		if inst.bound != nil {
			b.list.Add(inst.bound)
		}
	}

	b.batch.Reset()
	args := render.NewArgs(b.batch)
	args.EnableTexturing = b.cfg.Render.EnableTexturing

	if b.backend == nil {
		drawn := b.list.Render(args)
		return args.Details, drawn, nil
	}

	width, height := b.window.Size()
	b.backend.SetViewProjection(b.camera.ViewProjection(float32(width) / float32(max(height, 1))))
	b.backend.BeginFrame(width, height)
	drawable := b.list.Drawable()
	if err := b.backend.Draw(drawable, args); err != nil {
		return args.Details, 0, err
	}
	b.window.SwapBuffers()
	stats := b.backend.EndFrame()
	if stats.Uploads > 0 {
		b.log.Debug("frame uploads", zap.Int("uploads", stats.Uploads), zap.Int("draws", stats.Draws))
	}
	return args.Details, len(drawable), nil
}

// Close releases payload buffers and the GL resources.
func (b *Bench) Close() {
	b.log.Info("closing bench")

	for _, inst := range b.instances {
		for _, p := range inst.payloads {
			p.Release()
		}
	}
	if b.backend != nil {
		b.backend.Release()
	}
	if b.window != nil {
		b.window.Close()
	}
}
