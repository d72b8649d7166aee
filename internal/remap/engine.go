// Package remap implements the Caps Lock navigation layer.
//
// The engine tracks Left Ctrl and Caps Lock. Caps Lock is swallowed and acts
// as a momentary layer key: while it is held, I, J, K and L are replaced by
// the arrow keys. Left Ctrl is tracked and always passed through.
package remap

import (
	"fmt"

	"capsnav/internal/inputevent"
)

// KeyState is the state of a tracked modifier.
type KeyState int

const (
	Released KeyState = iota
	Pressed
)

func (s KeyState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

func stateOf(v inputevent.KeyValue) KeyState {
	if v.Down() {
		return Pressed
	}
	return Released
}

// Modifiers is the modifier state owned by an Engine.
type Modifiers struct {
	LeftCtrl KeyState
	CapsLock KeyState
}

// Engine applies the layer to a stream of key events. It is not safe for
// concurrent use; one goroutine feeds it one event at a time.
type Engine struct {
	mods Modifiers
	sink Sink
}

// New returns an engine with both modifiers released. Synthesized events
// are written to sink.
func New(sink Sink) *Engine {
	if sink == nil {
		sink = Discard
	}
	return &Engine{sink: sink}
}

// Modifiers returns the current modifier state.
func (e *Engine) Modifiers() Modifiers {
	return e.mods
}

// Handle updates the modifier state from ev, then applies the layer. On
// return ev.Forward tells whether the original event should be written.
// The only error is one returned by the sink.
func (e *Engine) Handle(ev *inputevent.KeyEvent) error {
	e.updateModifiers(ev)

	if e.mods.CapsLock != Pressed {
		return nil
	}
	to, ok := Layer(ev.Code)
	if !ok {
		return nil
	}

	out := inputevent.KeyEvent{Code: to, Value: ev.Value, Forward: true}
	if err := e.sink.Emit(out); err != nil {
		return fmt.Errorf("emit %s: %w", out, err)
	}
	ev.Forward = false
	return nil
}

func (e *Engine) updateModifiers(ev *inputevent.KeyEvent) {
	switch ev.Code {
	case inputevent.KeyLeftCtrl:
		e.mods.LeftCtrl = stateOf(ev.Value)
		ev.Forward = true
	case inputevent.KeyCapsLock:
		e.mods.CapsLock = stateOf(ev.Value)
		ev.Forward = false
	default:
		ev.Forward = true
	}
}
