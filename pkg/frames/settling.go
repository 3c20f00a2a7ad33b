package frames

import (
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

// SurfaceAccess lets the tree push new sizes to the owner of surfaces
// without depending on it.
type SurfaceAccess interface {
	Reconfigure(sid core.SurfaceID, size geom.Size, state core.SurfaceState)
}

// reconfigure informs the surface owner about the frame's current size.
func (f *Frame) reconfigure(sa SurfaceAccess) {
	if !f.sid.IsValid() {
		return
	}
	var state core.SurfaceState
	if !f.mobility.IsFloating() {
		state = core.StateTiled
	}
	sa.Reconfigure(f.sid, f.size, state)
}

// setArea assigns a new rectangle to the frame and propagates the change:
// leaves get reconfigured, containers rebalance their children.
func (f *Frame) setArea(pos geom.Position, size geom.Size, sa SurfaceAccess) {
	resized := f.size != size
	f.pos = pos
	f.size = size
	if f.mode == Leaf {
		f.reconfigure(sa)
	} else if resized {
		f.Homogenize(sa)
	}
}

// Settle places the frame in the target. With a nil area the frame is
// anchored and the target rebalanced; with an area it floats there.
func (f *Frame) Settle(target *Frame, area *geom.Area, sa SurfaceAccess) {
	if target == nil {
		return
	}
	target.Append(f)
	if area != nil {
		f.mobility = Floating
		f.pos = area.Pos
		f.size = area.Size
		f.reconfigure(sa)
		return
	}
	if f.mode != Display {
		f.mobility = Anchored
	}
	target.Homogenize(sa)
}

// Resettle moves the frame from its current place into the target,
// rebalancing both ends.
func (f *Frame) Resettle(target *Frame, sa SurfaceAccess) {
	if target == nil || f == target || f.isAncestorOf(target) {
		return
	}
	oldParent := f.parent
	f.Remove()
	f.Settle(target, nil, sa)
	if oldParent != nil {
		oldParent.Homogenize(sa)
	}
}

// Homogenize redistributes the frame's rectangle among its anchored
// children according to the frame's geometry. Docked children keep their
// sizes and are subtracted from the available space; floating children are
// not touched.
func (f *Frame) Homogenize(sa SurfaceAccess) {
	anchored := f.CountAnchoredChildren()
	if anchored == 0 {
		return
	}

	switch f.geometry {
	case Stacked:
		for c := f.FirstTime(); c != nil; c = c.NextTime() {
			if c.mobility.IsAnchored() {
				c.setArea(geom.Position{}, f.size, sa)
			}
		}

	case Vertical:
		available := int(f.size.Height)
		for c := f.FirstSpace(); c != nil; c = c.NextSpace() {
			if c.mobility.IsDocked() {
				available -= int(c.size.Height)
			}
		}
		if available < 0 {
			available = 0
		}
		share := available / anchored
		cursor := 0
		left := anchored
		for c := f.FirstSpace(); c != nil; c = c.NextSpace() {
			switch {
			case c.mobility.IsDocked():
				cursor += int(c.size.Height)
			case c.mobility.IsAnchored():
				height := share
				left--
				if left == 0 {
					height = available - share*(anchored-1)
				}
				c.setArea(geom.NewPosition(0, cursor), geom.NewSize(f.size.Width, uint(height)), sa)
				cursor += height
			}
		}

	case Horizontal:
		available := int(f.size.Width)
		for c := f.FirstSpace(); c != nil; c = c.NextSpace() {
			if c.mobility.IsDocked() {
				available -= int(c.size.Width)
			}
		}
		if available < 0 {
			available = 0
		}
		share := available / anchored
		cursor := 0
		left := anchored
		for c := f.FirstSpace(); c != nil; c = c.NextSpace() {
			switch {
			case c.mobility.IsDocked():
				cursor += int(c.size.Width)
			case c.mobility.IsAnchored():
				width := share
				left--
				if left == 0 {
					width = available - share*(anchored-1)
				}
				c.setArea(geom.NewPosition(cursor, 0), geom.NewSize(uint(width), f.size.Height), sa)
				cursor += width
			}
		}
	}
}

// Ramify guarantees a container wrapping the frame: when the frame's
// parent already holds it alone (or the frame is itself a single-child
// container) that container is reused with the requested geometry,
// otherwise a new container is synthesized in the frame's place.
func (f *Frame) Ramify(geometry Geometry) *Frame {
	if p := f.parent; p != nil && p.mode == Container && p.CountChildren() == 1 {
		p.geometry = geometry
		return p
	}
	if f.mode == Container && f.CountChildren() == 1 {
		f.geometry = geometry
		return f
	}
	if f.parent == nil && f.mode == Root {
		return f
	}

	container := NewContainer(geometry)
	container.pos = f.pos
	container.size = f.size
	container.mobility = f.mobility
	if f.parent != nil {
		f.Adjoin(container)
		f.Remove()
	}
	container.Append(f)
	f.pos = geom.Position{}
	f.mobility = Anchored
	return container
}

// Deramify collapses an unnecessary indirection around the frame's single
// child: a single non-leaf child is dissolved into the frame, a container
// holding just one leaf is replaced by that leaf. Frames with zero or many
// children, and leaves themselves, are left alone.
func (f *Frame) Deramify() {
	if f.mode == Leaf || f.CountChildren() != 1 {
		return
	}
	child := f.FirstTime()

	if child.mode != Leaf {
		child.Remove()
		f.geometry = child.geometry
		f.space.first, f.space.last = child.space.first, child.space.last
		f.time.first, f.time.last = child.time.first, child.time.last
		for gc := f.time.first; gc != nil; gc = gc.time.next {
			gc.parent = f
		}
		child.space = links{}
		child.time = links{}
		return
	}

	// A lone leaf takes the container's place; workspaces and other tops
	// keep wrapping their single leaf.
	if f.mode != Container || f.parent == nil {
		return
	}
	child.Remove()
	child.pos = f.pos
	child.size = f.size
	child.mobility = f.mobility
	f.Adjoin(child)
	f.Remove()
}

// Jumpin inserts the frame before, after or on the reference. Inserting on
// a leaf synthesizes a stacked container around it first.
func (f *Frame) Jumpin(side Side, ref *Frame, sa SurfaceAccess) {
	if ref == nil || f == ref || f.isAncestorOf(ref) {
		return
	}
	switch side {
	case SideBefore:
		ref.Prejoin(f)
		f.mobility = Anchored
		if ref.parent != nil {
			ref.parent.Homogenize(sa)
		}
	case SideAfter:
		ref.Adjoin(f)
		f.mobility = Anchored
		if ref.parent != nil {
			ref.parent.Homogenize(sa)
		}
	case SideOn:
		target := ref
		if ref.mode == Leaf {
			target = ref.Ramify(Stacked)
		}
		target.Prepend(f)
		f.mobility = Anchored
		target.Homogenize(sa)
	}
}

// Jump moves the frame out of its current place and inserts it relative to
// the target. Jumping into the own subtree is a no-op.
func (f *Frame) Jump(side Side, target *Frame, sa SurfaceAccess) {
	if target == nil || f == target || f.isAncestorOf(target) {
		return
	}
	oldParent := f.parent
	f.Remove()
	f.Jumpin(side, target, sa)
	if oldParent != nil {
		oldParent.Homogenize(sa)
	}
}

// Dock attaches the frame to the target as a docked child with an explicit
// size, shrinking the space left for anchored children.
func (f *Frame) Dock(target *Frame, size geom.Size, sa SurfaceAccess) {
	f.mobility = Docked
	f.pos = geom.Position{}
	f.size = size
	target.Prepend(f)
	f.reconfigure(sa)
	target.Homogenize(sa)
}

// ChangeGeometry reorients the frame's contents and rebalances them.
func (f *Frame) ChangeGeometry(geometry Geometry, sa SurfaceAccess) {
	f.geometry = geometry
	f.Homogenize(sa)
}

// MoveWithContents translates a frame together with its subtree. Children
// hold parent-relative positions, so only the frame itself moves.
func (f *Frame) MoveWithContents(vector geom.Vector) {
	f.pos = f.pos.Add(vector)
}

// Anchorize puts a floating frame back under layout control.
func (f *Frame) Anchorize(sa SurfaceAccess) {
	if !f.IsReanchorizable() || !f.mobility.IsFloating() {
		return
	}
	f.mobility = Anchored
	if f.parent != nil {
		f.parent.Homogenize(sa)
	}
}

// Deanchorize releases an anchored frame to float in the given area.
func (f *Frame) Deanchorize(area geom.Area, sa SurfaceAccess) {
	if !f.IsReanchorizable() || !f.mobility.IsAnchored() {
		return
	}
	f.mobility = Floating
	f.setArea(area.Pos, area.Size, sa)
	if f.parent != nil {
		f.parent.Homogenize(sa)
	}
}

// Resize changes the frame's extent in the given direction by the given
// magnitude (positive inflates). For anchored frames the inverse magnitude
// is applied to the spatial neighbour on that side; the container boundary
// never moves. Docked frames cannot be resized.
func (f *Frame) Resize(direction core.Direction, magnitude int, sa SurfaceAccess) {
	if f.mobility.IsDocked() {
		return
	}

	if f.mobility.IsFloating() {
		f.resizeFloating(direction, magnitude, sa)
		return
	}

	ax, backwards := directionAxis(direction)
	if ax == axisNone {
		return
	}

	// Climb until the parent's geometry matches the requested axis.
	frame := f
	for {
		parent := frame.parent
		if parent == nil || frame.IsTop() || frame.mobility.IsDocked() {
			return
		}
		if geometryAxis(parent.geometry) == ax {
			break
		}
		frame = parent
	}

	var neighbour *Frame
	if backwards {
		neighbour = frame.PrevSpace()
	} else {
		neighbour = frame.NextSpace()
	}
	if neighbour == nil || !neighbour.mobility.IsAnchored() {
		return
	}

	if ax == axisVertical {
		newSelf := int(frame.size.Height) + magnitude
		newOther := int(neighbour.size.Height) - magnitude
		if newSelf < 0 || newOther < 0 {
			return
		}
		if backwards {
			frame.pos.Y -= magnitude
		} else {
			neighbour.pos.Y += magnitude
		}
		frame.applyResize(geom.NewSize(frame.size.Width, uint(newSelf)), sa)
		neighbour.applyResize(geom.NewSize(neighbour.size.Width, uint(newOther)), sa)
	} else {
		newSelf := int(frame.size.Width) + magnitude
		newOther := int(neighbour.size.Width) - magnitude
		if newSelf < 0 || newOther < 0 {
			return
		}
		if backwards {
			frame.pos.X -= magnitude
		} else {
			neighbour.pos.X += magnitude
		}
		frame.applyResize(geom.NewSize(uint(newSelf), frame.size.Height), sa)
		neighbour.applyResize(geom.NewSize(uint(newOther), neighbour.size.Height), sa)
	}
}

func (f *Frame) resizeFloating(direction core.Direction, magnitude int, sa SurfaceAccess) {
	width := int(f.size.Width)
	height := int(f.size.Height)
	switch direction {
	case core.DirNorth:
		f.pos.Y -= magnitude
		height += magnitude
	case core.DirSouth:
		height += magnitude
	case core.DirWest:
		f.pos.X -= magnitude
		width += magnitude
	case core.DirEast:
		width += magnitude
	default:
		return
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f.applyResize(geom.NewSize(uint(width), uint(height)), sa)
}

func (f *Frame) applyResize(size geom.Size, sa SurfaceAccess) {
	f.size = size
	if f.mode == Leaf {
		f.reconfigure(sa)
	} else {
		f.Homogenize(sa)
	}
}

// DestroySelf removes the frame from its parent, destroys its subtree and
// rebalances the space it occupied.
func (f *Frame) DestroySelf(sa SurfaceAccess) {
	parent := f.parent
	f.Remove()
	f.Destroy()
	if parent != nil {
		parent.Homogenize(sa)
	}
}

// isAncestorOf reports whether other lies in f's subtree.
func (f *Frame) isAncestorOf(other *Frame) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == f {
			return true
		}
	}
	return false
}
