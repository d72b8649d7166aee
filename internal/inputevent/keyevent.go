package inputevent

import "fmt"

// KeyEvent is a decoded key transition.
//
// Forward tells the caller whether the original record should still be
// written to the output stream after the engine has seen it.
type KeyEvent struct {
	Code    uint16
	Value   KeyValue
	Forward bool
}

// NewKeyEvent builds a key event from an EvKey record. Callers check
// Record.IsKey first; ErrNotKeyEvent means that check was skipped.
func NewKeyEvent(r Record) (KeyEvent, error) {
	if !r.IsKey() {
		return KeyEvent{}, fmt.Errorf("%w: type %s", ErrNotKeyEvent, TypeName(r.Type))
	}
	v, err := ParseKeyValue(r.Value)
	if err != nil {
		return KeyEvent{}, fmt.Errorf("%s: %w", KeyName(r.Code), err)
	}
	return KeyEvent{Code: r.Code, Value: v, Forward: true}, nil
}

// Encode returns the wire record for the event with a zero timestamp.
func (e KeyEvent) Encode() [Size]byte {
	return EncodeKey(e.Code, e.Value)
}

// EncodeKey returns the wire record for a synthesized key event. The
// timestamp is left zero.
func EncodeKey(code uint16, v KeyValue) [Size]byte {
	return Record{Type: EvKey, Code: code, Value: v.Int32()}.Bytes()
}

func (e KeyEvent) String() string {
	return fmt.Sprintf("%s %s", KeyName(e.Code), e.Value)
}
