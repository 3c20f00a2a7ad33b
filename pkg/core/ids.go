package core

import "fmt"

// SurfaceID is an opaque handle of a surface. Value 0 is reserved as
// invalid. IDs are assigned monotonically by the coordinator.
type SurfaceID uint64

// InvalidSurfaceID is the reserved invalid surface handle.
const InvalidSurfaceID SurfaceID = 0

// IsValid reports whether the ID denotes an existing surface.
func (sid SurfaceID) IsValid() bool {
	return sid != InvalidSurfaceID
}

func (sid SurfaceID) String() string {
	if !sid.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("SID(%d)", uint64(sid))
}

// MemoryPoolID identifies a memory pool.
type MemoryPoolID uint64

// MemoryViewID identifies a view into a memory pool.
type MemoryViewID uint64

// EglImageID identifies stored EGL image attributes.
type EglImageID uint64

// DmabufID identifies stored dmabuf attributes.
type DmabufID uint64

// OutputID identifies a display output.
type OutputID int32
