package inputevent

import "fmt"

// KeyValue is the value field of an EvKey record.
type KeyValue int32

const (
	Release KeyValue = 0
	Press   KeyValue = 1
	Repeat  KeyValue = 2
)

// ParseKeyValue maps a raw record value onto a KeyValue.
func ParseKeyValue(v int32) (KeyValue, error) {
	switch KeyValue(v) {
	case Release, Press, Repeat:
		return KeyValue(v), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidKeyValue, v)
	}
}

// Int32 returns the raw record value.
func (v KeyValue) Int32() int32 {
	return int32(v)
}

// Down reports whether the key is held, either freshly pressed or repeating.
func (v KeyValue) Down() bool {
	return v == Press || v == Repeat
}

func (v KeyValue) String() string {
	switch v {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	default:
		return fmt.Sprintf("KeyValue(%d)", int32(v))
	}
}
