package core

import "github.com/perceptia/perceptia/pkg/geom"

// Modifier is a bitmask of pressed modifier keys.
type Modifier uint16

const (
	ModNone Modifier = 0x00
	ModLCtl Modifier = 0x01
	ModRCtl Modifier = 0x02
	ModLShf Modifier = 0x04
	ModRShf Modifier = 0x08
	ModLAlt Modifier = 0x10
	ModRAlt Modifier = 0x20
	ModLMta Modifier = 0x40
	ModRMta Modifier = 0x80

	ModCtrl  = ModLCtl | ModRCtl
	ModShift = ModLShf | ModRShf
	ModAlt   = ModLAlt | ModRAlt
	ModMeta  = ModLMta | ModRMta
)

// KeyState values follow evdev conventions.
const (
	KeyReleased = 0
	KeyPressed  = 1
)

// Key is a keyboard event. Codes use the platform's evdev numbering.
type Key struct {
	Code   uint16
	Value  int32
	TimeMs uint64
}

// Button is a pointer button event.
type Button struct {
	Code   uint16
	Value  int32
	TimeMs uint64
}

// Motion is a pointer motion event in global coordinates.
type Motion struct {
	Position geom.Position
	TimeMs   uint64
}

// Axis is a scroll event with discrete and continuous components.
type Axis struct {
	Discrete   geom.Vector
	Horizontal float64
	Vertical   float64
	TimeMs     uint64
}

// OutputInfo describes a display output.
type OutputInfo struct {
	ID           OutputID
	Area         geom.Area
	PhysicalSize geom.Size
	RefreshRate  uint
	Make         string
	Model        string
}
