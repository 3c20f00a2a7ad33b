// Package history keeps the order in which surfaces were focused, most
// recent first. The compositor uses it for focus cycling and for choosing
// a new selection when the focused surface goes away.
package history

import "github.com/perceptia/perceptia/pkg/core"

// SurfaceHistory is an ordered sequence of surface IDs, most recent first.
// The zero value is ready to use.
type SurfaceHistory struct {
	sids []core.SurfaceID
}

// New constructs an empty history.
func New() *SurfaceHistory {
	return &SurfaceHistory{}
}

// Len returns the number of remembered surfaces.
func (h *SurfaceHistory) Len() int {
	return len(h.sids)
}

// Add puts the surface at the front, removing any previous occurrence.
func (h *SurfaceHistory) Add(sid core.SurfaceID) {
	h.Remove(sid)
	h.sids = append([]core.SurfaceID{sid}, h.sids...)
}

// Remove forgets the surface.
func (h *SurfaceHistory) Remove(sid core.SurfaceID) {
	for i, s := range h.sids {
		if s == sid {
			h.sids = append(h.sids[:i], h.sids[i+1:]...)
			return
		}
	}
}

// Pop moves an already remembered surface to the front.
func (h *SurfaceHistory) Pop(sid core.SurfaceID) {
	for _, s := range h.sids {
		if s == sid {
			h.Add(sid)
			return
		}
	}
}

// GetNth returns the n-th entry counted from the front. Negative indices
// count from the back, so cycling forward uses negative steps. The second
// result is false when the history is empty or n is out of range.
func (h *SurfaceHistory) GetNth(n int) (core.SurfaceID, bool) {
	if len(h.sids) == 0 {
		return core.InvalidSurfaceID, false
	}
	if n < 0 {
		n = len(h.sids) + n
	}
	if n < 0 || n >= len(h.sids) {
		return core.InvalidSurfaceID, false
	}
	return h.sids[n], true
}

// Each calls the function for every surface from most to least recent,
// stopping early when it returns false.
func (h *SurfaceHistory) Each(fn func(sid core.SurfaceID) bool) {
	for _, sid := range h.sids {
		if !fn(sid) {
			return
		}
	}
}
