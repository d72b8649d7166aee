package remap

import "capsnav/internal/inputevent"

// Mapping is one entry of the Caps Lock layer.
type Mapping struct {
	From uint16
	To   uint16
}

// layer is the fixed navigation layer active while Caps Lock is held.
var layer = [...]Mapping{
	{From: inputevent.KeyL, To: inputevent.KeyRight},
	{From: inputevent.KeyJ, To: inputevent.KeyLeft},
	{From: inputevent.KeyI, To: inputevent.KeyUp},
	{From: inputevent.KeyK, To: inputevent.KeyDown},
}

// Layer returns the code that replaces code while Caps Lock is held.
func Layer(code uint16) (uint16, bool) {
	for _, m := range layer {
		if m.From == code {
			return m.To, true
		}
	}
	return 0, false
}

// LayerTable returns a copy of the layer in table order.
func LayerTable() []Mapping {
	out := make([]Mapping, len(layer))
	copy(out, layer[:])
	return out
}
