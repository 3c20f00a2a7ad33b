// Package coordination is the single source of truth for surfaces,
// attached buffers, memory pools, focus, data transfers and screenshots.
// Every mutation goes through the Coordinator, which updates the state and
// emits a signal when other parts of the application need to know.
package coordination

import (
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
	"github.com/perceptia/perceptia/pkg/graphics"
	"github.com/perceptia/perceptia/pkg/memory"
)

// DataSourceKind tells what kind of pixel source a surface carries.
type DataSourceKind int

const (
	DataSourceNone DataSourceKind = iota
	DataSourceShm
	DataSourceEglImage
	DataSourceDmabuf
)

// DataSource is the pixel source attached to a surface: a shared-memory
// view, stored EGL image attributes, stored dmabuf attributes, or nothing.
type DataSource struct {
	Kind   DataSourceKind
	View   *memory.View
	Egl    *graphics.EglAttributes
	Dmabuf *graphics.DmabufAttributes
}

// Size returns the pixel dimensions of the source, if it has any.
func (d DataSource) Size() geom.Size {
	switch d.Kind {
	case DataSourceShm:
		return geom.NewSize(uint(d.View.Width), uint(d.View.Height))
	case DataSourceEglImage:
		return geom.NewSize(uint(d.Egl.Width), uint(d.Egl.Height))
	case DataSourceDmabuf:
		return geom.NewSize(uint(d.Dmabuf.Width), uint(d.Dmabuf.Height))
	default:
		return geom.Size{}
	}
}

// surface is the per-client drawable tracked by the coordinator.
type surface struct {
	id               core.SurfaceID
	pending          DataSource
	current          DataSource
	offset           geom.Vector
	requestedSize    geom.Size
	desiredSize      geom.Size
	relativePosition geom.Position
	parentSID        core.SurfaceID
	satellites       []core.SurfaceID
	showReason       core.ShowReason
	state            core.SurfaceState
}

func newSurface(id core.SurfaceID) *surface {
	s := &surface{id: id}
	// A surface is its own first satellite so traversal yields it among
	// its children in order.
	s.satellites = []core.SurfaceID{id}
	return s
}

// attach stages a data source to become current on the next commit.
func (s *surface) attach(source DataSource) {
	s.pending = source
}

// commit promotes the pending source. It reports whether the surface just
// became drawable.
func (s *surface) commit() bool {
	hadData := s.current.Kind != DataSourceNone
	if s.pending.Kind != DataSourceNone {
		s.current = s.pending
	}
	if size := s.current.Size(); !size.IsZero() && s.requestedSize.IsZero() {
		s.requestedSize = size
	}
	return !hadData && s.current.Kind != DataSourceNone
}

// show adds a show reason and returns the new mask.
func (s *surface) show(reason core.ShowReason) core.ShowReason {
	s.showReason = s.showReason.With(reason)
	return s.showReason
}

// hide removes a show reason and returns the new mask.
func (s *surface) hide(reason core.ShowReason) core.ShowReason {
	s.showReason = s.showReason.Without(reason)
	return s.showReason
}

func (s *surface) addSatellite(sid core.SurfaceID) {
	for _, existing := range s.satellites {
		if existing == sid {
			return
		}
	}
	s.satellites = append(s.satellites, sid)
}

func (s *surface) removeSatellite(sid core.SurfaceID) {
	for i, existing := range s.satellites {
		if existing == sid {
			s.satellites = append(s.satellites[:i], s.satellites[i+1:]...)
			return
		}
	}
}

// SurfaceInfo is the public snapshot of a surface.
type SurfaceInfo struct {
	ID               core.SurfaceID
	OffsetPos        geom.Vector
	RequestedSize    geom.Size
	DesiredSize      geom.Size
	RelativePosition geom.Position
	ParentSID        core.SurfaceID
	ShowReason       core.ShowReason
	State            core.SurfaceState
	DataSource       DataSource
}

func (s *surface) info() SurfaceInfo {
	return SurfaceInfo{
		ID:               s.id,
		OffsetPos:        s.offset,
		RequestedSize:    s.requestedSize,
		DesiredSize:      s.desiredSize,
		RelativePosition: s.relativePosition,
		ParentSID:        s.parentSID,
		ShowReason:       s.showReason,
		State:            s.state,
		DataSource:       s.current,
	}
}
