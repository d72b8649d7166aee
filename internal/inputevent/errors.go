package inputevent

import "errors"

var (
	// ErrShortRecord is returned when a buffer does not hold exactly one record.
	ErrShortRecord = errors.New("inputevent: short record")

	// ErrInvalidKeyValue is returned for a key record whose value is not 0, 1 or 2.
	ErrInvalidKeyValue = errors.New("inputevent: invalid key value")

	// ErrNotKeyEvent is returned when a key event is built from a non-key record.
	ErrNotKeyEvent = errors.New("inputevent: not a key event")
)
