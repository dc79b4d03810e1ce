package render

import "sort"

// DrawList collects the payloads submitted for one frame.
type DrawList struct {
	items []Payload
}

// Add appends p. Nil payloads are ignored.
func (dl *DrawList) Add(p Payload) {
	if p == nil {
		return
	}
	dl.items = append(dl.items, p)
}

// Len returns the number of submitted payloads.
func (dl *DrawList) Len() int { return len(dl.items) }

// Reset empties the list, keeping its storage.
func (dl *DrawList) Reset() { dl.items = dl.items[:0] }

// Drawable returns the payloads that would be drawn, in draw order: invisible
// items and items with an invalid shape key are skipped, the rest are ordered
// by layer and then opaque before transparent. Submission order is kept
// otherwise.
func (dl *DrawList) Drawable() []Payload {
	out := make([]Payload, 0, len(dl.items))
	for _, p := range dl.items {
		if !p.Key().IsVisible() || !p.ShapeKey().IsValid() {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := PayloadLayer(out[i]), PayloadLayer(out[j])
		if li != lj {
			return li < lj
		}
		return out[i].Key().IsOpaque() && !out[j].Key().IsOpaque()
	})
	return out
}

// Render draws every drawable payload into args and returns how many were drawn.
func (dl *DrawList) Render(args *Args) int {
	if !args.HasBatch() {
		return 0
	}
	drawn := dl.Drawable()
	for _, p := range drawn {
		p.Render(args)
	}
	return len(drawn)
}
