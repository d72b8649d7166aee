package remap

import "capsnav/internal/inputevent"

// Sink receives key events synthesized by the engine. Emit is called
// synchronously; the event must reach the output before Emit returns.
type Sink interface {
	Emit(ev inputevent.KeyEvent) error
}

// SinkFunc adapts a function literal to the Sink interface.
type SinkFunc func(ev inputevent.KeyEvent) error

// Emit calls the underlying function.
func (f SinkFunc) Emit(ev inputevent.KeyEvent) error {
	return f(ev)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(inputevent.KeyEvent) error { return nil })
