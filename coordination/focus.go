package coordination

import (
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

// GetKeyboardFocus returns the surface holding keyboard focus.
func (c *Coordinator) GetKeyboardFocus() core.SurfaceID {
	c.focusMu.Lock()
	defer c.focusMu.Unlock()
	return c.keyboardFocus
}

// SetKeyboardFocus moves keyboard focus. A change signal carrying both the
// old and the new id is emitted only when the target actually differs.
func (c *Coordinator) SetKeyboardFocus(sid core.SurfaceID) {
	c.focusMu.Lock()
	old := c.keyboardFocus
	changed := old != sid
	if changed {
		c.keyboardFocus = sid
	}
	c.focusMu.Unlock()

	if changed {
		c.signaler.Emit(core.SignalKeyboardFocusChanged,
			core.KeyboardFocusChanged{Old: old, New: sid})
	}
}

// GetPointerFocus returns the surface holding pointer focus.
func (c *Coordinator) GetPointerFocus() core.SurfaceID {
	c.focusMu.Lock()
	defer c.focusMu.Unlock()
	return c.pointerFocus
}

// SetPointerFocus moves pointer focus. A change signal carrying both ends
// and the surface-local position is emitted only on an actual change.
func (c *Coordinator) SetPointerFocus(sid core.SurfaceID, position geom.Position) {
	c.focusMu.Lock()
	old := c.pointerFocus
	changed := old != sid
	if changed {
		c.pointerFocus = sid
	}
	c.focusMu.Unlock()

	if changed {
		c.signaler.Emit(core.SignalPointerFocusChanged,
			core.PointerFocusChanged{Old: old, New: sid, Position: position})
	}
}

// SetSurfaceAsCursor announces a client request to use the surface as the
// pointer cursor.
func (c *Coordinator) SetSurfaceAsCursor(sid core.SurfaceID) {
	c.signaler.Emit(core.SignalCursorSurfaceChange, sid)
	c.Notify()
}

// SetSurfaceAsBackground announces a client request to use the surface as
// the display background.
func (c *Coordinator) SetSurfaceAsBackground(sid core.SurfaceID) {
	c.signaler.Emit(core.SignalBackgroundSurfaceChange, sid)
	c.Notify()
}

// SetTransfer stores the offered data transfer and announces it. Passing
// nil withdraws the offer.
func (c *Coordinator) SetTransfer(transfer *core.Transfer) {
	c.focusMu.Lock()
	c.transfer = transfer
	c.focusMu.Unlock()
	c.signaler.Emit(core.SignalTransferOffered, transfer)
}

// GetTransfer returns the currently offered transfer, if any.
func (c *Coordinator) GetTransfer() *core.Transfer {
	c.focusMu.Lock()
	defer c.focusMu.Unlock()
	return c.transfer
}

// RequestTransfer asks the current offerer to write data of the given mime
// type into the descriptor.
func (c *Coordinator) RequestTransfer(mimeType string, fd int) {
	c.signaler.Emit(core.SignalTransferRequested,
		core.TransferRequest{MimeType: mimeType, Fd: fd})
}
