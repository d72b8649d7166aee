// Package inputevent converts between the Linux input_event wire record and
// the key events the remap engine works on.
//
// A record is the host's native struct input_event:
//
//	struct input_event {
//		struct timeval time;
//		__u16 type;
//		__u16 code;
//		__s32 value;
//	};
//
// Records are read and written in native byte order with no padding, so a
// decoded record re-encodes to the same bytes. Key events carry only the
// code and value; encoding a key event zeroes the timestamp.
package inputevent
