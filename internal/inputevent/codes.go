package inputevent

import "fmt"

// Event types, from linux/input-event-codes.h.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
	EvAbs uint16 = 0x03
	EvMsc uint16 = 0x04
	EvLed uint16 = 0x11
	EvRep uint16 = 0x14
)

// Key codes, from linux/input-event-codes.h. Only the keys named by the
// layer and the ones that commonly show up in traces are listed.
const (
	KeyEsc        uint16 = 1
	KeyBackspace  uint16 = 14
	KeyTab        uint16 = 15
	KeyQ          uint16 = 16
	KeyW          uint16 = 17
	KeyE          uint16 = 18
	KeyR          uint16 = 19
	KeyT          uint16 = 20
	KeyY          uint16 = 21
	KeyU          uint16 = 22
	KeyI          uint16 = 23
	KeyO          uint16 = 24
	KeyP          uint16 = 25
	KeyEnter      uint16 = 28
	KeyLeftCtrl   uint16 = 29
	KeyA          uint16 = 30
	KeyS          uint16 = 31
	KeyD          uint16 = 32
	KeyF          uint16 = 33
	KeyG          uint16 = 34
	KeyH          uint16 = 35
	KeyJ          uint16 = 36
	KeyK          uint16 = 37
	KeyL          uint16 = 38
	KeyLeftShift  uint16 = 42
	KeyZ          uint16 = 44
	KeyX          uint16 = 45
	KeyC          uint16 = 46
	KeyV          uint16 = 47
	KeyB          uint16 = 48
	KeyN          uint16 = 49
	KeyM          uint16 = 50
	KeyRightShift uint16 = 54
	KeyLeftAlt    uint16 = 56
	KeySpace      uint16 = 57
	KeyCapsLock   uint16 = 58
	KeyRightCtrl  uint16 = 97
	KeyRightAlt   uint16 = 100
	KeyHome       uint16 = 102
	KeyUp         uint16 = 103
	KeyPageUp     uint16 = 104
	KeyLeft       uint16 = 105
	KeyRight      uint16 = 106
	KeyEnd        uint16 = 107
	KeyDown       uint16 = 108
	KeyPageDown   uint16 = 109
	KeyDelete     uint16 = 111
	KeyLeftMeta   uint16 = 125
	KeyRightMeta  uint16 = 126
)

var typeNames = map[uint16]string{
	EvSyn: "EV_SYN",
	EvKey: "EV_KEY",
	EvRel: "EV_REL",
	EvAbs: "EV_ABS",
	EvMsc: "EV_MSC",
	EvLed: "EV_LED",
	EvRep: "EV_REP",
}

var keyNames = map[uint16]string{
	KeyEsc:        "KEY_ESC",
	KeyBackspace:  "KEY_BACKSPACE",
	KeyTab:        "KEY_TAB",
	KeyQ:          "KEY_Q",
	KeyW:          "KEY_W",
	KeyE:          "KEY_E",
	KeyR:          "KEY_R",
	KeyT:          "KEY_T",
	KeyY:          "KEY_Y",
	KeyU:          "KEY_U",
	KeyI:          "KEY_I",
	KeyO:          "KEY_O",
	KeyP:          "KEY_P",
	KeyEnter:      "KEY_ENTER",
	KeyLeftCtrl:   "KEY_LEFTCTRL",
	KeyA:          "KEY_A",
	KeyS:          "KEY_S",
	KeyD:          "KEY_D",
	KeyF:          "KEY_F",
	KeyG:          "KEY_G",
	KeyH:          "KEY_H",
	KeyJ:          "KEY_J",
	KeyK:          "KEY_K",
	KeyL:          "KEY_L",
	KeyLeftShift:  "KEY_LEFTSHIFT",
	KeyZ:          "KEY_Z",
	KeyX:          "KEY_X",
	KeyC:          "KEY_C",
	KeyV:          "KEY_V",
	KeyB:          "KEY_B",
	KeyN:          "KEY_N",
	KeyM:          "KEY_M",
	KeyRightShift: "KEY_RIGHTSHIFT",
	KeyLeftAlt:    "KEY_LEFTALT",
	KeySpace:      "KEY_SPACE",
	KeyCapsLock:   "KEY_CAPSLOCK",
	KeyRightCtrl:  "KEY_RIGHTCTRL",
	KeyRightAlt:   "KEY_RIGHTALT",
	KeyHome:       "KEY_HOME",
	KeyUp:         "KEY_UP",
	KeyPageUp:     "KEY_PAGEUP",
	KeyLeft:       "KEY_LEFT",
	KeyRight:      "KEY_RIGHT",
	KeyEnd:        "KEY_END",
	KeyDown:       "KEY_DOWN",
	KeyPageDown:   "KEY_PAGEDOWN",
	KeyDelete:     "KEY_DELETE",
	KeyLeftMeta:   "KEY_LEFTMETA",
	KeyRightMeta:  "KEY_RIGHTMETA",
}

// TypeName returns the symbolic name of an event type.
func TypeName(t uint16) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EV_0x%02x", t)
}

// KeyName returns the symbolic name of a key code, or KEY_<n> for codes
// without one.
func KeyName(code uint16) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", code)
}
