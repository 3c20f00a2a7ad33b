package core

import "github.com/perceptia/perceptia/pkg/geom"

// SignalID names a kind of event travelling on the signal bus. The set is
// closed: receivers subscribe by ID and switch on the payload type.
type SignalID int

const (
	SignalNotify SignalID = iota
	SignalSurfaceReady
	SignalSurfaceDestroyed
	SignalSurfaceReconfigured
	SignalKeyboardFocusChanged
	SignalPointerFocusChanged
	SignalCursorSurfaceChange
	SignalBackgroundSurfaceChange
	SignalDockSurface
	SignalSuspend
	SignalWakeup
	SignalInputsChanged
	SignalOutputsChanged
	SignalOutputFound
	SignalVerticalBlank
	SignalPageFlip
	SignalTransferOffered
	SignalTransferRequested
	SignalTakeScreenshot
	SignalScreenshotDone
	SignalWorkspaceStateChanged
	SignalTimer500
	SignalCommand
	SignalInputKey
	SignalInputPointerMotion
	SignalInputPointerButton
	SignalInputPointerAxis
	SignalConfigChanged
)

func (id SignalID) String() string {
	switch id {
	case SignalNotify:
		return "NOTIFY"
	case SignalSurfaceReady:
		return "SURFACE_READY"
	case SignalSurfaceDestroyed:
		return "SURFACE_DESTROYED"
	case SignalSurfaceReconfigured:
		return "SURFACE_RECONFIGURED"
	case SignalKeyboardFocusChanged:
		return "KEYBOARD_FOCUS_CHANGED"
	case SignalPointerFocusChanged:
		return "POINTER_FOCUS_CHANGED"
	case SignalCursorSurfaceChange:
		return "CURSOR_SURFACE_CHANGE"
	case SignalBackgroundSurfaceChange:
		return "BACKGROUND_SURFACE_CHANGE"
	case SignalDockSurface:
		return "DOCK_SURFACE"
	case SignalSuspend:
		return "SUSPEND"
	case SignalWakeup:
		return "WAKEUP"
	case SignalInputsChanged:
		return "INPUTS_CHANGED"
	case SignalOutputsChanged:
		return "OUTPUTS_CHANGED"
	case SignalOutputFound:
		return "OUTPUT_FOUND"
	case SignalVerticalBlank:
		return "VERTICAL_BLANK"
	case SignalPageFlip:
		return "PAGE_FLIP"
	case SignalTransferOffered:
		return "TRANSFER_OFFERED"
	case SignalTransferRequested:
		return "TRANSFER_REQUESTED"
	case SignalTakeScreenshot:
		return "TAKE_SCREENSHOT"
	case SignalScreenshotDone:
		return "SCREENSHOT_DONE"
	case SignalWorkspaceStateChanged:
		return "WORKSPACE_STATE_CHANGED"
	case SignalTimer500:
		return "TIMER_500"
	case SignalCommand:
		return "COMMAND"
	case SignalInputKey:
		return "INPUT_KEY"
	case SignalInputPointerMotion:
		return "INPUT_POINTER_MOTION"
	case SignalInputPointerButton:
		return "INPUT_POINTER_BUTTON"
	case SignalInputPointerAxis:
		return "INPUT_POINTER_AXIS"
	case SignalConfigChanged:
		return "CONFIG_CHANGED"
	default:
		return "UNKNOWN"
	}
}

// Payload types carried with the signals above. Signals without a payload
// type travel with a nil payload.

// KeyboardFocusChanged carries both ends of a keyboard focus move so
// front-ends can send enter/leave pairs.
type KeyboardFocusChanged struct {
	Old SurfaceID
	New SurfaceID
}

// PointerFocusChanged carries both ends of a pointer focus move plus the
// surface-local pointer position.
type PointerFocusChanged struct {
	Old      SurfaceID
	New      SurfaceID
	Position geom.Position
}

// WorkspaceState announces activation or deactivation of a workspace.
type WorkspaceState struct {
	DisplayID OutputID
	Title     string
	Active    bool
}

// DockRequest asks the compositor to dock a surface on a display.
type DockRequest struct {
	SID       SurfaceID
	Size      geom.Size
	DisplayID OutputID
}

// SurfaceContext is what the renderer needs to draw one surface.
type SurfaceContext struct {
	ID       SurfaceID
	Position geom.Position
}

// Transfer is an offered data-transfer payload (selection/clipboard).
type Transfer struct {
	MimeTypes []string
}

// TransferRequest asks the current offerer to write data for one mime type
// into the passed descriptor.
type TransferRequest struct {
	MimeType string
	Fd       int
}
