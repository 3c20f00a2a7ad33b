package exhibitor

import (
	"testing"

	"github.com/perceptia/perceptia/coordination"
	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

type rendererStub struct {
	draws []drawCall
}

type drawCall struct {
	output   core.OutputInfo
	contexts []core.SurfaceContext
	under    []core.SurfaceContext
	over     []core.SurfaceContext
}

func (r *rendererStub) Draw(output core.OutputInfo, contexts, under, over []core.SurfaceContext) {
	r.draws = append(r.draws, drawCall{output, contexts, under, over})
}

// runExhibitor drives the exhibitor loop over everything already emitted plus the
// given body, then terminates it.
func runExhibitor(t *testing.T, body func(signaler *bus.Signaler, c *coordination.Coordinator)) *rendererStub {
	t.Helper()
	signaler := bus.NewSignaler()
	coordinator := coordination.New(signaler)
	compositor := NewCompositor(coordinator, NewStrategist("", ""),
		CompositorConfig{MoveStep: 10, ResizeStep: 10})
	renderer := &rendererStub{}
	e := New(signaler, coordinator, compositor, renderer)

	body(signaler, coordinator)
	signaler.Emit(core.SignalVerticalBlank, nil)

	e.Start()
	signaler.TerminateAll()
	e.Join()
	return renderer
}

func TestExhibitorComposesVisibleSurfaces(t *testing.T) {
	var sid core.SurfaceID
	renderer := runExhibitor(t, func(signaler *bus.Signaler, c *coordination.Coordinator) {
		signaler.Emit(core.SignalOutputFound, core.OutputInfo{
			ID:   1,
			Area: geom.MakeArea(0, 0, 100, 100),
			Make: "stub",
		})
		sid = c.CreateSurface()
		signaler.Emit(core.SignalSurfaceReady, sid)
	})

	if len(renderer.draws) == 0 {
		t.Fatal("expected at least one draw")
	}
	last := renderer.draws[len(renderer.draws)-1]
	if len(last.contexts) != 1 || last.contexts[0].ID != sid {
		t.Fatalf("expected surface %s on screen, got %+v", sid, last.contexts)
	}
}

func TestExhibitorPointerFocusFollowsMotion(t *testing.T) {
	signaler := bus.NewSignaler()
	coordinator := coordination.New(signaler)
	compositor := NewCompositor(coordinator, NewStrategist("", ""),
		CompositorConfig{MoveStep: 10, ResizeStep: 10})
	e := New(signaler, coordinator, compositor, nil)

	e.handleOutputFound(bus.Package{Payload: core.OutputInfo{
		ID: 1, Area: geom.MakeArea(0, 0, 100, 100),
	}})
	sid := coordinator.CreateSurface()
	compositor.ManageSurface(sid)

	e.handlePointerMotion(bus.Package{
		ID:      core.SignalInputPointerMotion,
		Payload: core.Motion{Position: geom.NewPosition(40, 40)},
	})
	if got := coordinator.GetPointerFocus(); got != sid {
		t.Errorf("expected pointer focus %s, got %s", sid, got)
	}

	// Pointing at empty space clears the focus.
	e.handlePointerMotion(bus.Package{
		ID:      core.SignalInputPointerMotion,
		Payload: core.Motion{Position: geom.NewPosition(500, 500)},
	})
	if got := coordinator.GetPointerFocus(); got != core.InvalidSurfaceID {
		t.Errorf("expected cleared pointer focus, got %s", got)
	}
}

func TestExhibitorLayers(t *testing.T) {
	signaler := bus.NewSignaler()
	coordinator := coordination.New(signaler)
	compositor := NewCompositor(coordinator, NewStrategist("", ""),
		CompositorConfig{MoveStep: 10, ResizeStep: 10})
	renderer := &rendererStub{}
	e := New(signaler, coordinator, compositor, renderer)

	e.handleOutputFound(bus.Package{Payload: core.OutputInfo{
		ID: 1, Area: geom.MakeArea(0, 0, 100, 100),
	}})

	background := coordinator.CreateSurface()
	e.handleBackgroundChange(bus.Package{Payload: background})
	cursor := coordinator.CreateSurface()
	e.handleCursorChange(bus.Package{Payload: cursor})
	dock := coordinator.CreateSurface()
	e.handleDockSurface(bus.Package{Payload: core.DockRequest{
		SID:       dock,
		Size:      geom.NewSize(100, 8),
		DisplayID: 1,
	}})

	e.dirty = true
	e.redraw()

	if len(renderer.draws) != 1 {
		t.Fatalf("expected one draw, got %d", len(renderer.draws))
	}
	call := renderer.draws[0]
	if len(call.under) != 1 || call.under[0].ID != background {
		t.Errorf("background missing from the under layer: %+v", call.under)
	}
	ids := make(map[core.SurfaceID]bool)
	for _, ctx := range call.over {
		ids[ctx.ID] = true
	}
	if !ids[cursor] || !ids[dock] {
		t.Errorf("cursor and dock should be in the over layer: %+v", call.over)
	}
	for _, ctx := range call.contexts {
		if ctx.ID == dock {
			t.Error("docked surfaces must not appear in the window list")
		}
	}
}
