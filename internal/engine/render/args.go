package render

import "github.com/Faultbox/meshpart/internal/engine/gpu"

// Resource slots shared by payloads and shaders.
const (
	SlotBufferSkinning uint32 = 2
	SlotBufferMaterial uint32 = 3

	// SlotTextureMaps is the first texture slot; material map channel i binds
	// at SlotTextureMaps+i.
	SlotTextureMaps uint32 = 0
)

// Layer orders items that draw outside the main 3D pass.
type Layer uint8

// Layers, in draw order.
const (
	Layer3D Layer = iota
	Layer3DFront
	Layer3DHUD
)

func (l Layer) String() string {
	switch l {
	case Layer3DFront:
		return "front"
	case Layer3DHUD:
		return "hud"
	default:
		return "3d"
	}
}

// Details accumulates per-frame counters written by payloads.
type Details struct {
	MaterialSwitches  int
	TrianglesRendered int
}

// Args is the render context handed to Payload.Render.
type Args struct {
	Batch           gpu.Batch
	EnableTexturing bool
	Details         Details
}

// NewArgs returns args recording into batch with texturing enabled.
func NewArgs(batch gpu.Batch) *Args {
	return &Args{Batch: batch, EnableTexturing: true}
}

// HasBatch reports whether args can record. A nil *gpu.CommandBatch stored in
// Batch counts as no batch.
func (a *Args) HasBatch() bool {
	if a == nil || a.Batch == nil {
		return false
	}
	if cb, ok := a.Batch.(*gpu.CommandBatch); ok && cb == nil {
		return false
	}
	return true
}
