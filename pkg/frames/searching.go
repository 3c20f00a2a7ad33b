package frames

import (
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

// FindBuildable returns the frame new frames should be settled in when f is
// selected: the parent for a leaf, the frame itself otherwise.
func (f *Frame) FindBuildable() *Frame {
	if f.mode == Leaf {
		return f.parent
	}
	return f
}

// FindTop returns the first frame on the path to the root that is outside
// normal surface management (workspace, display, root or docked frame). For
// such frames it returns the frame itself.
func (f *Frame) FindTop() *Frame {
	frame := f
	for frame != nil && !frame.IsTop() {
		frame = frame.parent
	}
	return frame
}

// FindWithSID searches the subtree for the leaf holding the given surface.
func (f *Frame) FindWithSID(sid core.SurfaceID) *Frame {
	if f.mode == Leaf && f.sid == sid {
		return f
	}
	for c := f.FirstTime(); c != nil; c = c.NextTime() {
		if found := c.FindWithSID(sid); found != nil {
			return found
		}
	}
	return nil
}

// FindWorkspace searches the subtree for a workspace with the given title.
func (f *Frame) FindWorkspace(title string) *Frame {
	if f.mode == Workspace && f.title == title {
		return f
	}
	for c := f.FirstTime(); c != nil; c = c.NextTime() {
		if found := c.FindWorkspace(title); found != nil {
			return found
		}
	}
	return nil
}

// FindPointed descends to the frame under the given point. The point is
// expressed in the same coordinate space as f's own position. For a
// stacked container the temporal head is entered, so the visually topmost
// child is hit. If no child contains the point the current frame is
// returned, even when the point lies outside its rectangle.
func (f *Frame) FindPointed(point geom.Position) *Frame {
	if f.mode == Leaf {
		return f
	}
	if f.geometry == Stacked {
		head := f.FirstTime()
		if head != nil && f.Area().Contains(point) {
			return head.FindPointed(point.Sub(f.pos))
		}
		return f
	}
	local := point.Sub(f.pos)
	for c := f.FirstSpace(); c != nil; c = c.NextSpace() {
		if c.Area().Contains(local) {
			return c.FindPointed(local)
		}
	}
	return f
}

// FindAdjacent returns the distance-th frame in the given planar direction,
// treating the tree as a 2D grid. Crossing one frame boundary is one step.
func (f *Frame) FindAdjacent(direction core.Direction, distance uint) *Frame {
	if distance == 0 {
		return f
	}
	top := f.FindTop()
	if top == nil || top == f {
		return nil
	}

	// Walk a probe point across frame edges, re-resolving the pointed
	// frame after each crossing. The perpendicular coordinate stays at
	// the center of the original frame.
	point := f.GlobalArea().Center()
	frame := f
	for i := uint(0); i < distance; i++ {
		area := frame.GlobalArea()
		switch direction {
		case core.DirNorth:
			point.Y = area.Pos.Y - 1
		case core.DirSouth:
			point.Y = area.Pos.Y + int(area.Size.Height)
		case core.DirWest:
			point.X = area.Pos.X - 1
		case core.DirEast:
			point.X = area.Pos.X + int(area.Size.Width)
		default:
			return nil
		}
		if !top.GlobalArea().Contains(point) {
			return nil
		}
		local := point.Sub(top.GlobalPosition()).Add(top.pos)
		frame = top.FindPointed(local)
	}
	return frame
}

// FindContiguous returns the distance-th sibling in the given direction
// along one spatial axis. When siblings run out on a level the walk
// continues from the parent. Direction Up climbs parents instead.
func (f *Frame) FindContiguous(direction core.Direction, distance uint) *Frame {
	if distance == 0 {
		return f
	}
	if direction == core.DirUp {
		frame := f
		for i := uint(0); i < distance && frame != nil; i++ {
			frame = frame.parent
		}
		return frame
	}

	axis, backwards := directionAxis(direction)
	if axis == axisNone {
		return nil
	}

	frame := f
	remaining := distance
	for {
		parent := frame.parent
		if parent == nil || frame.IsTop() {
			return nil
		}
		if geometryAxis(parent.geometry) == axis {
			for remaining > 0 {
				var sibling *Frame
				if backwards {
					sibling = frame.PrevSpace()
				} else {
					sibling = frame.NextSpace()
				}
				if sibling == nil {
					break
				}
				frame = sibling
				remaining--
			}
			if remaining == 0 {
				return frame
			}
		}
		frame = parent
	}
}

type axis int

const (
	axisNone axis = iota
	axisVertical
	axisHorizontal
)

func directionAxis(direction core.Direction) (axis, bool) {
	switch direction {
	case core.DirNorth:
		return axisVertical, true
	case core.DirSouth:
		return axisVertical, false
	case core.DirWest:
		return axisHorizontal, true
	case core.DirEast:
		return axisHorizontal, false
	default:
		return axisNone, false
	}
}

func geometryAxis(geometry Geometry) axis {
	switch geometry {
	case Vertical:
		return axisVertical
	case Horizontal:
		return axisHorizontal
	default:
		return axisNone
	}
}
