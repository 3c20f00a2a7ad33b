// Package exhibitor owns the frame tree and everything that decides what
// the screen looks like: the compositor policy, the placement strategist
// and the event loop that drives them. The whole package runs on a single
// goroutine; other threads talk to it only through the signal bus.
package exhibitor

import (
	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/coordination"
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/frames"
	"github.com/perceptia/perceptia/pkg/geom"
	"github.com/perceptia/perceptia/pkg/history"
)

// MaxWorkspaces bounds automatic workspace title generation.
const MaxWorkspaces = 1000

// Coordination is the slice of the coordinator the compositor consumes.
type Coordination interface {
	frames.SurfaceAccess
	Notify()
	Emit(id core.SignalID, payload any)
	SetKeyboardFocus(sid core.SurfaceID)
	SetPointerFocus(sid core.SurfaceID, position geom.Position)
	GetSurface(sid core.SurfaceID) (coordination.SurfaceInfo, bool)
	Show(sid core.SurfaceID, reason core.ShowReason)
	Hide(sid core.SurfaceID, reason core.ShowReason)
}

// CompositorConfig carries the tunables of the compositor.
type CompositorConfig struct {
	MoveStep   uint
	ResizeStep uint
}

// commandResult tells how executing a command went.
type commandResult int

const (
	resultOk commandResult = iota
	resultNotHandled
	resultWrongFrame
)

func (r commandResult) String() string {
	switch r {
	case resultOk:
		return "ok"
	case resultNotHandled:
		return "not handled"
	default:
		return "wrong frame"
	}
}

// Compositor is the manager of surfaces: it places them in the frame tree
// and manipulates the tree according to user commands.
type Compositor struct {
	coordinator Coordination
	strategist  *Strategist
	config      CompositorConfig
	history     *history.SurfaceHistory
	root        *frames.Frame
	selection   *frames.Frame
	log         *logging.Entry
}

// NewCompositor constructs a compositor with an empty tree.
func NewCompositor(coordinator Coordination, strategist *Strategist, config CompositorConfig) *Compositor {
	root := frames.NewRoot()
	return &Compositor{
		coordinator: coordinator,
		strategist:  strategist,
		config:      config,
		history:     history.New(),
		root:        root,
		selection:   root,
		log:         logging.WithField("component", "compositor"),
	}
}

// Root returns the root frame.
func (c *Compositor) Root() *frames.Frame { return c.root }

// Selection returns the currently selected frame.
func (c *Compositor) Selection() *frames.Frame { return c.selection }

// CreateDisplay adds a display frame with a fresh workspace and selects
// the workspace.
func (c *Compositor) CreateDisplay(info core.OutputInfo) *frames.Frame {
	display := frames.NewDisplay(info.ID, info.Area, info.Make+" "+info.Model)
	c.root.Append(display)

	workspace := c.createNextWorkspace()
	if workspace == nil {
		return display
	}
	workspace.Settle(display, nil, c.coordinator)
	c.activateWorkspace(workspace)
	c.selectFrame(workspace)
	return display
}

// ExecuteCommand interprets one command against the current selection.
func (c *Compositor) ExecuteCommand(cmd core.Command) {
	frame := c.selection
	var result commandResult

	switch cmd.Action {
	case core.ActionConfigure:
		result = c.configure(frame, cmd.Direction)
	case core.ActionFocus:
		if cmd.Direction == core.DirWorkspace {
			c.focusWorkspace(cmd.String)
		} else {
			result = c.focus(frame, cmd.Direction, cmd.Magnitude)
		}
	case core.ActionJump:
		switch cmd.Direction {
		case core.DirWorkspace:
			c.jumpToWorkspace(frame, cmd.String)
		case core.DirEnd:
			c.ramify(frame)
		case core.DirBegin:
			c.exalt(frame)
		default:
			result = c.jump(frame, cmd.Direction, cmd.Magnitude)
		}
	case core.ActionDive:
		switch cmd.Direction {
		case core.DirWorkspace:
			c.diveToWorkspace(frame, cmd.String)
		case core.DirBegin:
			c.exalt(frame)
		default:
			result = c.dive(frame, cmd.Direction, cmd.Magnitude)
		}
	case core.ActionMove:
		result = c.move(frame, cmd.Direction, cmd.Magnitude)
	case core.ActionResize:
		result = c.resize(frame, cmd.Direction, cmd.Magnitude)
	case core.ActionAnchor:
		result = c.anchorize(frame)
	default:
		result = resultNotHandled
	}

	if result == resultOk {
		c.ensureSelection()
		c.coordinator.Notify()
	} else {
		c.log.Errorf("command failed: %s (%s %s %d %q)",
			result, cmd.Action, cmd.Direction, cmd.Magnitude, cmd.String)
	}
}

// ManageSurface settles a new surface into the tree, updates the history
// and announces the change.
func (c *Compositor) ManageSurface(sid core.SurfaceID) {
	if c.root.FindWithSID(sid) != nil {
		return
	}
	info, ok := c.coordinator.GetSurface(sid)
	if !ok {
		c.log.Warnf("surface %s not found", sid)
		return
	}

	decision := c.strategist.ChooseTarget(c.selection, info)
	if decision.Target == nil {
		decision.Target = c.root
	}

	frame := frames.NewLeaf(sid, decision.Geometry)
	frame.Settle(decision.Target, decision.FloatingArea, c.coordinator)
	if decision.Selection {
		c.selectFrame(frame)
	}

	c.history.Add(sid)
	c.coordinator.Show(sid, core.ShowInCompositor)
	c.coordinator.Notify()
}

// DockSurface attaches the surface as a docked bar on the given display
// frame. The display is rearranged vertically so the workspace area
// shrinks; the returned frame is the one tracking the display from now on.
func (c *Compositor) DockSurface(sid core.SurfaceID, size geom.Size, display *frames.Frame) *frames.Frame {
	if c.root.FindWithSID(sid) != nil {
		return display
	}
	dock := frames.NewLeaf(sid, frames.Stacked)
	newDisplay := display.Ramify(frames.Vertical)
	dock.Dock(newDisplay, size, c.coordinator)

	c.coordinator.Show(sid, core.ShowInCompositor)
	c.coordinator.Notify()
	return newDisplay
}

// UnmanageSurface removes a destroyed surface's frame, fixing up the
// selection from history.
func (c *Compositor) UnmanageSurface(sid core.SurfaceID) {
	frame := c.root.FindWithSID(sid)
	if frame == nil {
		return
	}
	c.history.Remove(sid)
	if c.selection.SID() == sid {
		var newSelection *frames.Frame
		if previous, ok := c.history.GetNth(0); ok {
			newSelection = c.root.FindWithSID(previous)
		}
		if newSelection == nil {
			newSelection = c.selection.FindBuildable()
		}
		if newSelection == nil {
			newSelection = c.root
		}
		c.selectFrame(newSelection)
	}

	frame.DestroySelf(c.coordinator)
	c.ensureSelection()
	c.coordinator.Notify()
}

// PopSurface raises the surface's whole frame path and history entry.
func (c *Compositor) PopSurface(sid core.SurfaceID) {
	if !sid.IsValid() {
		return
	}
	if frame := c.root.FindWithSID(sid); frame != nil {
		c.root.PopRecursively(frame)
		c.selectFrame(frame)
	}
	c.history.Pop(sid)
}

// configure changes the geometry of the selection (or its parent when the
// selection has no children of its own).
func (c *Compositor) configure(frame *frames.Frame, direction core.Direction) commandResult {
	if !frame.IsReorientable() {
		c.log.Warnf("cannot change geometry of %s", frame)
		return resultWrongFrame
	}
	parent := frame.Parent()
	if parent == nil {
		return resultWrongFrame
	}

	var geometry frames.Geometry
	switch direction {
	case core.DirNorth, core.DirSouth:
		geometry = frames.Vertical
	case core.DirEast, core.DirWest:
		geometry = frames.Horizontal
	case core.DirBegin, core.DirEnd:
		geometry = frames.Stacked
	case core.DirUp:
		geometry = parent.Geometry()
	default:
		return resultNotHandled
	}

	c.log.Debugf("change frame geometry to %s", geometry)
	if frame.HasChildren() {
		frame.ChangeGeometry(geometry, c.coordinator)
	} else {
		parent.ChangeGeometry(geometry, c.coordinator)
	}
	return resultOk
}

// focus moves the selection: cycling through history or to an adjacent
// frame.
func (c *Compositor) focus(frame *frames.Frame, direction core.Direction, magnitude int) commandResult {
	switch direction {
	case core.DirForward, core.DirBackward:
		if direction == core.DirForward {
			magnitude = -magnitude
		}
		if sid, ok := c.history.GetNth(magnitude); ok {
			c.PopSurface(sid)
		}
		return resultOk
	case core.DirNorth, core.DirEast, core.DirSouth, core.DirWest:
		if magnitude < 0 {
			direction = direction.Reversed()
			magnitude = -magnitude
		}
		if found := frame.FindAdjacent(direction, uint(magnitude)); found != nil {
			c.selectFrame(found)
		}
		return resultOk
	default:
		return resultNotHandled
	}
}

// jump moves the selection over adjacent frames.
func (c *Compositor) jump(frame *frames.Frame, direction core.Direction, magnitude int) commandResult {
	if magnitude < 0 {
		direction = direction.Reversed()
		magnitude = -magnitude
	}

	var side frames.Side
	switch direction {
	case core.DirNorth, core.DirWest:
		side = frames.SideBefore
	case core.DirSouth, core.DirEast:
		side = frames.SideAfter
	default:
		return resultNotHandled
	}

	if target := frame.FindAdjacent(direction, uint(magnitude)); target != nil {
		source := frame.Parent()
		frame.Jump(side, target, c.coordinator)
		if source != nil {
			source.Deramify()
		}
	}
	return resultOk
}

// dive moves the selection into an adjacent frame.
func (c *Compositor) dive(frame *frames.Frame, direction core.Direction, magnitude int) commandResult {
	if magnitude < 0 {
		direction = direction.Reversed()
		magnitude = -magnitude
	}
	switch direction {
	case core.DirNorth, core.DirEast, core.DirSouth, core.DirWest:
	default:
		return resultNotHandled
	}

	if target := frame.FindAdjacent(direction, uint(magnitude)); target != nil {
		source := frame.Parent()
		frame.Jump(frames.SideOn, target, c.coordinator)
		if source != nil {
			source.Deramify()
		}
	}
	return resultOk
}

// move translates a floating frame by the configured step.
func (c *Compositor) move(frame *frames.Frame, direction core.Direction, magnitude int) commandResult {
	if !frame.Mobility().IsFloating() {
		return resultOk
	}
	step := magnitude * int(c.config.MoveStep)
	var vector geom.Vector
	switch direction {
	case core.DirNorth:
		vector = geom.NewPosition(0, -step)
	case core.DirEast:
		vector = geom.NewPosition(step, 0)
	case core.DirSouth:
		vector = geom.NewPosition(0, step)
	case core.DirWest:
		vector = geom.NewPosition(-step, 0)
	}
	if !vector.IsZero() {
		frame.MoveWithContents(vector)
	}
	return resultOk
}

// resize changes the selection's extent by the configured step.
func (c *Compositor) resize(frame *frames.Frame, direction core.Direction, magnitude int) commandResult {
	if frame.Mobility().IsDocked() {
		c.log.Warnf("cannot resize docked frame %s", frame)
		return resultWrongFrame
	}
	switch direction {
	case core.DirNorth, core.DirEast, core.DirSouth, core.DirWest:
	default:
		return resultNotHandled
	}
	frame.Resize(direction, magnitude*int(c.config.ResizeStep), c.coordinator)
	return resultOk
}

// anchorize toggles the selection between anchored and floating.
func (c *Compositor) anchorize(frame *frames.Frame) commandResult {
	if !frame.IsReanchorizable() {
		return resultWrongFrame
	}
	if frame.Mobility().IsAnchored() {
		workspace := c.currentWorkspace()
		var wsSize geom.Size
		if workspace != nil {
			wsSize = workspace.Size()
		}
		decision := c.strategist.ChooseFloating(wsSize, nil)
		frame.Deanchorize(decision.Area, c.coordinator)
	} else {
		frame.Anchorize(c.coordinator)
	}
	return resultOk
}

// ramify wraps the selection in a new stacked container.
func (c *Compositor) ramify(frame *frames.Frame) {
	frame.Ramify(frames.Stacked)
	c.selectFrame(frame)
}

// exalt moves the selection one stacked level outward.
func (c *Compositor) exalt(frame *frames.Frame) {
	above := frame.Parent()
	if above == nil || !above.IsReanchorizable() {
		return
	}
	var target *frames.Frame
	if above.Geometry() == frames.Stacked {
		grand := above.Parent()
		if grand == nil {
			return
		}
		if grand.Geometry() == frames.Stacked || grand.IsTop() {
			target = grand
		} else {
			target = grand.Ramify(frames.Stacked)
		}
	} else {
		target = above.Ramify(frames.Stacked)
	}
	frame.Resettle(target, c.coordinator)
}
