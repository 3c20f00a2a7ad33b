package core

// ShowReason is a bitmask of conditions for drawing a surface on screen.
// Only the bits in ShowReady are required.
type ShowReason uint8

const (
	// ShowDrawable is set when the surface has committed its first buffer.
	ShowDrawable ShowReason = 1 << iota

	// ShowInShell is set when the shell assigned a role to the surface.
	ShowInShell

	// ShowInCompositor is set when the compositor placed the surface in the
	// frame tree. Informational: readiness is announced before placement,
	// so this bit is not part of the required mask.
	ShowInCompositor
)

// ShowReady is the mask of required bits a surface must reach to be drawn.
const ShowReady = ShowDrawable | ShowInShell

// Has reports whether all given reasons are set.
func (r ShowReason) Has(reason ShowReason) bool {
	return r&reason == reason
}

// With returns the mask with the given reason set.
func (r ShowReason) With(reason ShowReason) ShowReason {
	return r | reason
}

// Without returns the mask with the given reason cleared.
func (r ShowReason) Without(reason ShowReason) ShowReason {
	return r &^ reason
}

// IsReady reports whether all reasons needed for drawing are set.
func (r ShowReason) IsReady() bool {
	return r&ShowReady == ShowReady
}

// SurfaceState is a bitmask of window states requested for a surface.
type SurfaceState uint8

const (
	// StateMaximized marks the surface as filling its whole workspace.
	StateMaximized SurfaceState = 1 << iota

	// StateTiled marks the surface as managed by tiling layout.
	StateTiled

	// StateResizing marks an interactive resize in progress.
	StateResizing

	// StateActivated marks the surface as holding keyboard focus.
	StateActivated
)

// Has reports whether all given flags are set.
func (s SurfaceState) Has(flags SurfaceState) bool {
	return s&flags == flags
}

// With returns the state with the given flags set.
func (s SurfaceState) With(flags SurfaceState) SurfaceState {
	return s | flags
}

// Without returns the state with the given flags cleared.
func (s SurfaceState) Without(flags SurfaceState) SurfaceState {
	return s &^ flags
}
