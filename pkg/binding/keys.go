package binding

import (
	"fmt"
	"strings"

	"github.com/perceptia/perceptia/pkg/core"
)

// Evdev key codes used by bindings. Only the keys addressable from the
// configuration are listed.
const (
	KeyEsc        uint16 = 1
	Key1          uint16 = 2
	Key2          uint16 = 3
	Key3          uint16 = 4
	Key4          uint16 = 5
	Key5          uint16 = 6
	Key6          uint16 = 7
	Key7          uint16 = 8
	Key8          uint16 = 9
	Key9          uint16 = 10
	Key0          uint16 = 11
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
	KeyLeftMeta   uint16 = 125
	KeyRightMeta  uint16 = 126
)

// keyNames maps configuration key names to evdev codes.
var keyNames = map[string]uint16{
	"escape": KeyEsc, "esc": KeyEsc,
	"1": Key1, "2": Key2, "3": Key3, "4": Key4, "5": Key5,
	"6": Key6, "7": Key7, "8": Key8, "9": Key9, "0": Key0,
	"tab": KeyTab, "enter": KeyEnter, "space": KeySpace,
	"q": KeyQ, "w": KeyW, "e": KeyE, "r": KeyR, "t": KeyT,
	"y": KeyY, "u": KeyU, "i": KeyI, "o": KeyO, "p": KeyP,
	"a": KeyA, "s": KeyS, "d": KeyD, "f": KeyF, "g": KeyG,
	"h": KeyH, "j": KeyJ, "k": KeyK, "l": KeyL,
	"z": KeyZ, "x": KeyX, "c": KeyC, "v": KeyV, "b": KeyB,
	"n": KeyN, "m": KeyM,
	"up": KeyUp, "down": KeyDown, "left": KeyLeft, "right": KeyRight,
	"home": KeyHome, "end": KeyEnd, "pageup": KeyPageUp, "pagedown": KeyPageDown,
}

// modifierNames maps configuration modifier names to modifier bits.
var modifierNames = map[string]core.Modifier{
	"lctl": core.ModLCtl, "rctl": core.ModRCtl, "ctrl": core.ModCtrl,
	"lshf": core.ModLShf, "rshf": core.ModRShf, "shift": core.ModShift,
	"lalt": core.ModLAlt, "ralt": core.ModRAlt, "alt": core.ModAlt,
	"lmta": core.ModLMta, "rmta": core.ModRMta, "meta": core.ModMeta,
}

// modifierForCode returns the modifier bit of a modifier key, if it is one.
func modifierForCode(code uint16) (core.Modifier, bool) {
	switch code {
	case KeyLeftCtrl:
		return core.ModLCtl, true
	case KeyRightCtrl:
		return core.ModRCtl, true
	case KeyLeftShift:
		return core.ModLShf, true
	case KeyRightShift:
		return core.ModRShf, true
	case KeyLeftAlt:
		return core.ModLAlt, true
	case KeyRightAlt:
		return core.ModRAlt, true
	case KeyLeftMeta:
		return core.ModLMta, true
	case KeyRightMeta:
		return core.ModRMta, true
	default:
		return core.ModNone, false
	}
}

// Parse resolves a configured key name and modifier list into a binding.
func Parse(key string, mods []string) (Binding, error) {
	code, ok := keyNames[strings.ToLower(key)]
	if !ok {
		return Binding{}, fmt.Errorf("unknown key %q", key)
	}
	var modifiers core.Modifier
	for _, name := range mods {
		bit, ok := modifierNames[strings.ToLower(name)]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q", name)
		}
		modifiers |= bit
	}
	return Binding{Code: code, Modifiers: modifiers}, nil
}

// codeAsNumber returns the digit of a number-row key.
func codeAsNumber(code uint16) (int, bool) {
	switch {
	case code >= Key1 && code <= Key9:
		return int(code-Key1) + 1, true
	case code == Key0:
		return 0, true
	default:
		return 0, false
	}
}
