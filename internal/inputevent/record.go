package inputevent

import (
	"encoding/binary"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Record matches the kernel's struct input_event on the host platform.
type Record struct {
	Time  unix.Timeval // opaque to the filter
	Type  uint16       // one of the Ev* constants
	Code  uint16       // for EvKey, the key code
	Value int32        // for EvKey, a KeyValue
}

// Size is the length of one encoded record in bytes.
const Size = int(unsafe.Sizeof(Record{}))

// DecodeRecord decodes exactly one record from buf.
func DecodeRecord(buf []byte) (Record, error) {
	var r Record
	if len(buf) != Size {
		return r, fmt.Errorf("%w: got %d bytes, want %d", ErrShortRecord, len(buf), Size)
	}
	if _, err := binary.Decode(buf, binary.NativeEndian, &r); err != nil {
		return r, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// Bytes encodes the record in the host's native layout.
func (r Record) Bytes() [Size]byte {
	var buf [Size]byte
	// Cannot fail: buf is exactly binary.Size(r).
	_, _ = binary.Encode(buf[:], binary.NativeEndian, r)
	return buf
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r Record) MarshalBinary() ([]byte, error) {
	buf := r.Bytes()
	return buf[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *Record) UnmarshalBinary(data []byte) error {
	dec, err := DecodeRecord(data)
	if err != nil {
		return err
	}
	*r = dec
	return nil
}

// IsKey reports whether the record carries a key event.
func (r Record) IsKey() bool {
	return r.Type == EvKey
}

// Timestamp returns the kernel timestamp as a time.Time.
func (r Record) Timestamp() time.Time {
	return time.Unix(r.Time.Unix())
}

func (r Record) String() string {
	if r.IsKey() {
		return fmt.Sprintf("%s %s value=%d", TypeName(r.Type), KeyName(r.Code), r.Value)
	}
	return fmt.Sprintf("%s code=%d value=%d", TypeName(r.Type), r.Code, r.Value)
}
