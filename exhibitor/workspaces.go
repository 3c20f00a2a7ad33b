package exhibitor

import (
	"strconv"

	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/frames"
)

// currentWorkspace returns the workspace (or other top) the selection
// lives in.
func (c *Compositor) currentWorkspace() *frames.Frame {
	return c.selection.FindTop()
}

// displayOf climbs to the display frame owning the given frame.
func displayOf(frame *frames.Frame) *frames.Frame {
	for f := frame; f != nil; f = f.Parent() {
		if f.Mode() == frames.Display {
			return f
		}
	}
	return nil
}

// activateWorkspace makes the workspace the active one on its display,
// deactivating the previous one, and announces the transition.
func (c *Compositor) activateWorkspace(workspace *frames.Frame) {
	display := displayOf(workspace)
	if display == nil {
		return
	}
	var transitions []core.WorkspaceState
	for child := range workspaceIter(display) {
		if child != workspace && child.IsActive() {
			child.MakeActive(false)
			transitions = append(transitions, core.WorkspaceState{
				DisplayID: display.DisplayID(),
				Title:     child.Title(),
			})
		}
	}
	if !workspace.IsActive() {
		workspace.MakeActive(true)
		transitions = append(transitions, core.WorkspaceState{
			DisplayID: display.DisplayID(),
			Title:     workspace.Title(),
			Active:    true,
		})
	}
	for _, t := range transitions {
		c.coordinator.Emit(core.SignalWorkspaceStateChanged, t)
	}
}

// workspaceIter yields the workspaces under a display frame.
func workspaceIter(display *frames.Frame) map[*frames.Frame]struct{} {
	out := make(map[*frames.Frame]struct{})
	var walk func(f *frames.Frame)
	walk = func(f *frames.Frame) {
		for child := f.FirstTime(); child != nil; child = child.NextTime() {
			if child.Mode() == frames.Workspace {
				out[child] = struct{}{}
			} else if child.Mode() == frames.Container {
				walk(child)
			}
		}
	}
	walk(display)
	return out
}

// findWorkspace searches the whole tree for a workspace with the title.
func (c *Compositor) findWorkspace(title string) *frames.Frame {
	return c.root.FindWorkspace(title)
}

// createNewWorkspace makes a workspace under the given display, optionally
// focusing it.
func (c *Compositor) createNewWorkspace(display *frames.Frame, title string, focus bool) *frames.Frame {
	c.log.Debugf("create new workspace (title: %s, focus: %v)", title, focus)
	workspace := frames.NewWorkspace(title, frames.Stacked, false)
	workspace.Settle(display, nil, c.coordinator)
	if focus {
		c.activateWorkspace(workspace)
		c.selectFrame(workspace)
	} else {
		c.root.PopRecursively(c.selection)
	}
	return workspace
}

// createNextWorkspace creates a workspace with the first free title from
// "1" up to the workspace limit.
func (c *Compositor) createNextWorkspace() *frames.Frame {
	for i := 1; i <= MaxWorkspaces; i++ {
		title := strconv.Itoa(i)
		if c.findWorkspace(title) == nil {
			return frames.NewWorkspace(title, frames.Stacked, false)
		}
	}
	c.log.Errorf("all %d workspace titles taken", MaxWorkspaces)
	return nil
}

// bringWorkspace returns the workspace with the given title, creating it
// under the current display when missing.
func (c *Compositor) bringWorkspace(title string, focus bool) *frames.Frame {
	if workspace := c.findWorkspace(title); workspace != nil {
		return workspace
	}
	// New workspaces land on the display owning the current selection.
	display := displayOf(c.currentWorkspace())
	if display == nil {
		c.log.Warnf("no display to create workspace %q on", title)
		return nil
	}
	return c.createNewWorkspace(display, title, focus)
}

// focusWorkspace switches to the workspace with the given title, selecting
// its most recently used frame.
func (c *Compositor) focusWorkspace(title string) {
	c.log.Debugf("focus workspace %q", title)
	workspace := c.bringWorkspace(title, true)
	if workspace == nil {
		return
	}
	c.activateWorkspace(workspace)
	mostRecent := c.findMostRecent(workspace)
	c.selectFrame(mostRecent)
	c.root.PopRecursively(mostRecent)
}

// jumpToWorkspace moves the frame to the workspace with the given title
// while focus stays on the current workspace.
func (c *Compositor) jumpToWorkspace(frame *frames.Frame, title string) {
	c.log.Debugf("jump to workspace %q", title)
	oldWorkspace := c.currentWorkspace()
	newWorkspace := c.bringWorkspace(title, false)
	if newWorkspace == nil || newWorkspace == oldWorkspace {
		return
	}
	frame.Resettle(newWorkspace, c.coordinator)
	c.selectFrame(c.findMostRecent(oldWorkspace))
}

// diveToWorkspace moves the frame to the workspace with the given title
// and follows it with the focus.
func (c *Compositor) diveToWorkspace(frame *frames.Frame, title string) {
	c.log.Debugf("dive to workspace %q", title)
	oldWorkspace := c.currentWorkspace()
	newWorkspace := c.bringWorkspace(title, false)
	if newWorkspace == nil || newWorkspace == oldWorkspace {
		return
	}
	frame.Jump(frames.SideOn, newWorkspace, c.coordinator)
	c.activateWorkspace(newWorkspace)
	c.selectFrame(frame)
}

// findMostRecent returns the most recently focused frame inside the
// reference, falling back to the reference itself.
func (c *Compositor) findMostRecent(reference *frames.Frame) *frames.Frame {
	var found *frames.Frame
	c.history.Each(func(sid core.SurfaceID) bool {
		if frame := reference.FindWithSID(sid); frame != nil {
			found = frame
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	return reference
}

// selectFrame makes the frame the selection, raises its path and syncs
// keyboard focus.
func (c *Compositor) selectFrame(frame *frames.Frame) {
	if frame == nil {
		frame = c.root
	}
	c.root.PopRecursively(frame)
	c.selection = frame
	if sid := frame.SID(); sid.IsValid() {
		c.coordinator.SetKeyboardFocus(sid)
	} else {
		c.coordinator.SetKeyboardFocus(core.InvalidSurfaceID)
	}
}

// ensureSelection re-establishes the selection invariant: the selection is
// always a frame present in the tree.
func (c *Compositor) ensureSelection() {
	for f := c.selection; f != nil; f = f.Parent() {
		if f == c.root {
			return
		}
	}
	c.selectFrame(c.root)
}
