package exhibitor

import (
	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/coordination"
	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/frames"
	"github.com/perceptia/perceptia/pkg/geom"
)

// Renderer is the boundary to the drawing back-end. For every output it
// receives the visible surfaces back-to-front plus the layers drawn under
// and above them (backgrounds; docks and cursor).
type Renderer interface {
	Draw(output core.OutputInfo, contexts, under, over []core.SurfaceContext)
}

// Exhibitor owns the compositor and reacts to everything that changes the
// screen: new outputs, ready surfaces, input, commands and frame timing.
// It runs entirely on one event loop goroutine.
type Exhibitor struct {
	coordinator *coordination.Coordinator
	compositor  *Compositor
	renderer    Renderer
	loop        *bus.EventLoop
	log         *logging.Entry

	displays   map[core.OutputID]displayState
	pointer    geom.Position
	cursorSID  core.SurfaceID
	background core.SurfaceID
	docks      map[core.SurfaceID]core.OutputID
	dirty      bool
}

type displayState struct {
	info  core.OutputInfo
	frame *frames.Frame
}

// New constructs an exhibitor and registers its handlers on the signaler.
func New(signaler *bus.Signaler, coordinator *coordination.Coordinator,
	compositor *Compositor, renderer Renderer) *Exhibitor {
	e := &Exhibitor{
		coordinator: coordinator,
		compositor:  compositor,
		renderer:    renderer,
		loop:        bus.NewEventLoop("exhibitor", signaler),
		log:         logging.WithField("component", "exhibitor"),
		displays:    make(map[core.OutputID]displayState),
		docks:       make(map[core.SurfaceID]core.OutputID),
	}

	e.loop.Handle(core.SignalNotify, func(bus.Package) { e.dirty = true })
	e.loop.Handle(core.SignalOutputFound, e.handleOutputFound)
	e.loop.Handle(core.SignalSurfaceReady, e.handleSurfaceReady)
	e.loop.Handle(core.SignalSurfaceDestroyed, e.handleSurfaceDestroyed)
	e.loop.Handle(core.SignalDockSurface, e.handleDockSurface)
	e.loop.Handle(core.SignalCursorSurfaceChange, e.handleCursorChange)
	e.loop.Handle(core.SignalBackgroundSurfaceChange, e.handleBackgroundChange)
	e.loop.Handle(core.SignalCommand, e.handleCommand)
	e.loop.Handle(core.SignalInputPointerMotion, e.handlePointerMotion)
	e.loop.Handle(core.SignalInputPointerButton, e.handlePointerButton)
	e.loop.Handle(core.SignalVerticalBlank, func(bus.Package) { e.redraw() })
	e.loop.Handle(core.SignalPageFlip, func(bus.Package) { e.redraw() })
	e.loop.Handle(core.SignalTimer500, func(bus.Package) { e.redraw() })
	return e
}

// Start runs the exhibitor thread.
func (e *Exhibitor) Start() {
	e.loop.Start()
}

// Join waits for the exhibitor thread to exit.
func (e *Exhibitor) Join() {
	e.loop.Join()
}

func (e *Exhibitor) handleOutputFound(pkg bus.Package) {
	info, ok := pkg.Payload.(core.OutputInfo)
	if !ok {
		return
	}
	e.log.Infof("output found: %s %s (%s)", info.Make, info.Model, info.Area)
	frame := e.compositor.CreateDisplay(info)
	e.displays[info.ID] = displayState{info: info, frame: frame}
	e.coordinator.Emit(core.SignalOutputsChanged, info.ID)
	e.dirty = true
}

func (e *Exhibitor) handleSurfaceReady(pkg bus.Package) {
	if sid, ok := pkg.Payload.(core.SurfaceID); ok {
		e.compositor.ManageSurface(sid)
		e.dirty = true
	}
}

func (e *Exhibitor) handleSurfaceDestroyed(pkg bus.Package) {
	sid, ok := pkg.Payload.(core.SurfaceID)
	if !ok {
		return
	}
	delete(e.docks, sid)
	if e.cursorSID == sid {
		e.cursorSID = core.InvalidSurfaceID
	}
	if e.background == sid {
		e.background = core.InvalidSurfaceID
	}
	e.compositor.UnmanageSurface(sid)
	e.dirty = true
}

func (e *Exhibitor) handleDockSurface(pkg bus.Package) {
	req, ok := pkg.Payload.(core.DockRequest)
	if !ok {
		return
	}
	display, ok := e.displays[req.DisplayID]
	if !ok {
		e.log.Warnf("dock request for unknown display %d", req.DisplayID)
		return
	}
	newFrame := e.compositor.DockSurface(req.SID, req.Size, display.frame)
	e.displays[req.DisplayID] = displayState{info: display.info, frame: newFrame}
	e.docks[req.SID] = req.DisplayID
	e.dirty = true
}

func (e *Exhibitor) handleCursorChange(pkg bus.Package) {
	if sid, ok := pkg.Payload.(core.SurfaceID); ok {
		e.cursorSID = sid
	}
}

func (e *Exhibitor) handleBackgroundChange(pkg bus.Package) {
	if sid, ok := pkg.Payload.(core.SurfaceID); ok {
		e.background = sid
	}
}

func (e *Exhibitor) handleCommand(pkg bus.Package) {
	if cmd, ok := pkg.Payload.(core.Command); ok {
		e.compositor.ExecuteCommand(cmd)
	}
}

// handlePointerMotion routes the pointer to the surface under it.
func (e *Exhibitor) handlePointerMotion(pkg bus.Package) {
	motion, ok := pkg.Payload.(core.Motion)
	if !ok {
		return
	}
	e.pointer = motion.Position

	frame := e.pointedFrame()
	if frame != nil && frame.Mode() == frames.Leaf && frame.SID().IsValid() {
		local := e.pointer.Casted(frame.GlobalArea()).Sub(frame.GlobalPosition())
		e.coordinator.SetPointerFocus(frame.SID(), local)
	} else {
		e.coordinator.SetPointerFocus(core.InvalidSurfaceID, geom.Position{})
	}
	e.dirty = true
}

// handlePointerButton raises and focuses the surface under the pointer on
// a press.
func (e *Exhibitor) handlePointerButton(pkg bus.Package) {
	button, ok := pkg.Payload.(core.Button)
	if !ok || button.Value != core.KeyPressed {
		return
	}
	frame := e.pointedFrame()
	if frame != nil && frame.Mode() == frames.Leaf && frame.SID().IsValid() {
		e.compositor.PopSurface(frame.SID())
		e.dirty = true
	}
}

// pointedFrame resolves the frame under the current pointer position by
// finding the display containing it first.
func (e *Exhibitor) pointedFrame() *frames.Frame {
	for _, display := range e.displays {
		if display.info.Area.Contains(e.pointer) {
			return display.frame.FindPointed(e.pointer)
		}
	}
	return nil
}

// redraw hands the renderer one context list per display when something
// changed since the last draw.
func (e *Exhibitor) redraw() {
	if !e.dirty || e.renderer == nil {
		return
	}
	e.dirty = false
	for _, display := range e.displays {
		contexts := e.displayContexts(display.frame)
		under := e.underLayer()
		over := e.overLayer(display.info.ID)
		e.renderer.Draw(display.info, contexts, under, over)
	}
}

// displayContexts collects the visible surfaces of a display back to
// front: children are walked in reverse temporal order so the most
// recently used frame is drawn last, and only the temporal head of a
// stacked container (the active workspace included) is visible.
func (e *Exhibitor) displayContexts(frame *frames.Frame) []core.SurfaceContext {
	var out []core.SurfaceContext
	e.collectContexts(frame, &out)
	return out
}

func (e *Exhibitor) collectContexts(frame *frames.Frame, out *[]core.SurfaceContext) {
	if frame.Mode() == frames.Leaf {
		if frame.Mobility().IsDocked() {
			return
		}
		base := frame.GlobalPosition()
		for _, ctx := range e.coordinator.GetRendererContext(frame.SID()) {
			*out = append(*out, core.SurfaceContext{
				ID:       ctx.ID,
				Position: base.Add(ctx.Position),
			})
		}
		return
	}
	if frame.Geometry() == frames.Stacked {
		if head := frame.FirstTime(); head != nil {
			if head.Mode() == frames.Workspace && !head.IsActive() {
				return
			}
			e.collectContexts(head, out)
		}
		return
	}
	for child := frame.LastTime(); child != nil; child = child.PrevTime() {
		e.collectContexts(child, out)
	}
}

// underLayer lists the surfaces drawn below every window.
func (e *Exhibitor) underLayer() []core.SurfaceContext {
	if !e.background.IsValid() {
		return nil
	}
	return []core.SurfaceContext{{ID: e.background}}
}

// overLayer lists the surfaces drawn above every window: the display's
// docks and the cursor.
func (e *Exhibitor) overLayer(displayID core.OutputID) []core.SurfaceContext {
	var out []core.SurfaceContext
	for sid, id := range e.docks {
		if id != displayID {
			continue
		}
		if frame := e.compositor.Root().FindWithSID(sid); frame != nil {
			out = append(out, core.SurfaceContext{ID: sid, Position: frame.GlobalPosition()})
		}
	}
	if e.cursorSID.IsValid() {
		out = append(out, core.SurfaceContext{ID: e.cursorSID, Position: e.pointer})
	}
	return out
}
