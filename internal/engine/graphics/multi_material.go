package graphics

// MaterialLayer pairs a material with its layer priority.
type MaterialLayer struct {
	Material *Material
	Priority uint16
}

// MultiMaterial is an ordered stack of material layers, unique by material
// identity. The top layer is the one with the highest priority; among equal
// priorities the most recently inserted wins.
type MultiMaterial struct {
	layers []MaterialLayer
}

// Push inserts layer. A material already in the stack keeps its position and
// takes the new priority. Layers with a nil material are ignored.
func (mm *MultiMaterial) Push(layer MaterialLayer) {
	if layer.Material == nil {
		return
	}
	for i := range mm.layers {
		if mm.layers[i].Material == layer.Material {
			mm.layers[i].Priority = layer.Priority
			return
		}
	}
	mm.layers = append(mm.layers, layer)
}

// Remove drops material from the stack. Removing an absent material does nothing.
func (mm *MultiMaterial) Remove(material *Material) {
	for i := range mm.layers {
		if mm.layers[i].Material == material {
			mm.layers = append(mm.layers[:i], mm.layers[i+1:]...)
			return
		}
	}
}

// Top returns the highest-priority layer, or a zero layer when the stack is empty.
func (mm *MultiMaterial) Top() MaterialLayer {
	var top MaterialLayer
	found := false
	for _, l := range mm.layers {
		if !found || l.Priority >= top.Priority {
			top = l
			found = true
		}
	}
	return top
}

// Len returns the number of layers.
func (mm *MultiMaterial) Len() int { return len(mm.layers) }

// Empty reports whether the stack has no layers.
func (mm *MultiMaterial) Empty() bool { return len(mm.layers) == 0 }

// Layers returns a copy of the layers in insertion order.
func (mm *MultiMaterial) Layers() []MaterialLayer {
	return append([]MaterialLayer(nil), mm.layers...)
}
