package coordination

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
	"github.com/perceptia/perceptia/pkg/graphics"
	"github.com/perceptia/perceptia/pkg/memory"
)

var (
	surfacesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perceptia_surfaces_created_total",
		Help: "Number of surfaces created by clients.",
	})
	surfacesDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perceptia_surfaces_destroyed_total",
		Help: "Number of surfaces destroyed.",
	})
)

// poolBundle pairs a pool with its live views so destroying the pool can
// cascade to them.
type poolBundle struct {
	pool  *memory.Pool
	views map[core.MemoryViewID]struct{}
}

// viewBundle pairs a view with its owning pool so destroying the view can
// unregister it there.
type viewBundle struct {
	view *memory.View
	pool core.MemoryPoolID
}

// Coordinator is the thread-safe authority over surface identity, attached
// buffers, memory pools, focus and data-transfer state. Mutating methods
// hold a short internal lock and emit signals only after releasing it, so
// receivers may re-enter the coordinator freely.
type Coordinator struct {
	signaler *bus.Signaler
	log      *logging.Entry

	// mu protects the resource registry below.
	mu         sync.Mutex
	surfaces   map[core.SurfaceID]*surface
	pools      map[core.MemoryPoolID]*poolBundle
	views      map[core.MemoryViewID]*viewBundle
	eglImages  map[core.EglImageID]graphics.EglAttributes
	dmabufs    map[core.DmabufID]graphics.DmabufAttributes
	manager    graphics.Manager
	screenshot *memory.Buffer

	lastSurfaceID core.SurfaceID
	lastPoolID    core.MemoryPoolID
	lastViewID    core.MemoryViewID
	lastEglID     core.EglImageID
	lastDmabufID  core.DmabufID

	// focusMu protects focus and transfer state. It is never taken while
	// mu is held, so there is no lock order to get wrong.
	focusMu       sync.Mutex
	keyboardFocus core.SurfaceID
	pointerFocus  core.SurfaceID
	transfer      *core.Transfer
}

// New constructs a coordinator emitting on the given signaler.
func New(signaler *bus.Signaler) *Coordinator {
	return &Coordinator{
		signaler:  signaler,
		log:       logging.WithField("component", "coordinator"),
		surfaces:  make(map[core.SurfaceID]*surface),
		pools:     make(map[core.MemoryPoolID]*poolBundle),
		views:     make(map[core.MemoryViewID]*viewBundle),
		eglImages: make(map[core.EglImageID]graphics.EglAttributes),
		dmabufs:   make(map[core.DmabufID]graphics.DmabufAttributes),
	}
}

// Emit forwards a signal to the bus.
func (c *Coordinator) Emit(id core.SignalID, payload any) {
	c.signaler.Emit(id, payload)
}

// Notify asks the exhibitor to refresh the screen.
func (c *Coordinator) Notify() {
	c.signaler.Emit(core.SignalNotify, nil)
}

// CreateSurface registers a new surface and returns its ID.
func (c *Coordinator) CreateSurface() core.SurfaceID {
	c.mu.Lock()
	c.lastSurfaceID++
	id := c.lastSurfaceID
	c.surfaces[id] = newSurface(id)
	c.mu.Unlock()

	surfacesCreated.Inc()
	c.log.Debugf("created surface %s", id)
	return id
}

// AttachShm stages a memory view as the surface's pending data source.
func (c *Coordinator) AttachShm(mvid core.MemoryViewID, sid core.SurfaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	v, ok := c.views[mvid]
	if !ok {
		c.log.Warnf("memory view %d: %s", mvid, core.ErrNotFound)
		return
	}
	s.attach(DataSource{Kind: DataSourceShm, View: v.view})
}

// AttachEglImage stages stored EGL attributes as the pending data source.
func (c *Coordinator) AttachEglImage(ebid core.EglImageID, sid core.SurfaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	attrs, ok := c.eglImages[ebid]
	if !ok {
		c.log.Warnf("EGL image %d: %s", ebid, core.ErrNotFound)
		return
	}
	s.attach(DataSource{Kind: DataSourceEglImage, Egl: &attrs})
}

// AttachDmabuf stages stored dmabuf attributes as the pending data source.
func (c *Coordinator) AttachDmabuf(dbid core.DmabufID, sid core.SurfaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	attrs, ok := c.dmabufs[dbid]
	if !ok {
		c.log.Warnf("dmabuf %d: %s", dbid, core.ErrNotFound)
		return
	}
	s.attach(DataSource{Kind: DataSourceDmabuf, Dmabuf: &attrs})
}

// Commit promotes the surface's pending data source to current. The first
// commit makes the surface drawable.
func (c *Coordinator) Commit(sid core.SurfaceID) {
	c.mu.Lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.mu.Unlock()
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	becameDrawable := s.commit()
	c.mu.Unlock()

	if becameDrawable {
		c.Show(sid, core.ShowDrawable)
	}
	c.Notify()
}

// Show adds a show reason. When the mask first reaches the ready state a
// SURFACE_READY signal is emitted.
func (c *Coordinator) Show(sid core.SurfaceID, reason core.ShowReason) {
	c.mu.Lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.mu.Unlock()
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	old := s.showReason
	now := s.show(reason)
	c.mu.Unlock()

	if now.IsReady() && !old.IsReady() {
		c.signaler.Emit(core.SignalSurfaceReady, sid)
	}
}

// Hide removes a show reason. When the mask first falls below ready a
// SURFACE_DESTROYED signal is emitted.
func (c *Coordinator) Hide(sid core.SurfaceID, reason core.ShowReason) {
	c.mu.Lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.mu.Unlock()
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	old := s.showReason
	now := s.hide(reason)
	c.mu.Unlock()

	if !now.IsReady() && old.IsReady() {
		c.signaler.Emit(core.SignalSurfaceDestroyed, sid)
	}
}

// Destroy detaches and forgets the surface.
func (c *Coordinator) Destroy(sid core.SurfaceID) {
	c.mu.Lock()
	_, ok := c.surfaces[sid]
	delete(c.surfaces, sid)
	c.mu.Unlock()

	if !ok {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	surfacesDestroyed.Inc()
	c.signaler.Emit(core.SignalSurfaceDestroyed, sid)
}

// SetOffset sets the surface's position offset.
func (c *Coordinator) SetOffset(sid core.SurfaceID, offset geom.Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[sid]; ok {
		s.offset = offset
	} else {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
	}
}

// SetRequestedSize sets the size the client asked for.
func (c *Coordinator) SetRequestedSize(sid core.SurfaceID, size geom.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[sid]; ok {
		s.requestedSize = size
	} else {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
	}
}

// SetRelativePosition positions a satellite relative to its parent.
func (c *Coordinator) SetRelativePosition(sid core.SurfaceID, position geom.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[sid]; ok {
		s.relativePosition = position
	} else {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
	}
}

// Relate makes sid a satellite of parent and clears its in-shell show
// reason. Unrelate does not set that reason again.
func (c *Coordinator) Relate(sid, parentSID core.SurfaceID) {
	c.mu.Lock()
	s, sok := c.surfaces[sid]
	p, pok := c.surfaces[parentSID]
	if !sok || !pok {
		c.mu.Unlock()
		c.log.Warnf("cannot relate %s to %s: %s", sid, parentSID, core.ErrNotFound)
		return
	}
	s.parentSID = parentSID
	s.relativePosition = geom.Position{}
	old := s.showReason
	now := s.hide(core.ShowInShell)
	p.addSatellite(sid)
	c.mu.Unlock()

	if !now.IsReady() && old.IsReady() {
		c.signaler.Emit(core.SignalSurfaceDestroyed, sid)
	}
}

// Unrelate detaches the surface from its parent.
func (c *Coordinator) Unrelate(sid core.SurfaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	if p, ok := c.surfaces[s.parentSID]; ok {
		p.removeSatellite(sid)
	}
	s.parentSID = core.InvalidSurfaceID
}

// Reconfigure updates the desired size and state flags, emitting
// SURFACE_RECONFIGURED only when something actually changed. It satisfies
// the frame tree's SurfaceAccess interface.
func (c *Coordinator) Reconfigure(sid core.SurfaceID, size geom.Size, state core.SurfaceState) {
	c.mu.Lock()
	s, ok := c.surfaces[sid]
	if !ok {
		c.mu.Unlock()
		c.log.Warnf("surface %s: %s", sid, core.ErrNotFound)
		return
	}
	changed := s.desiredSize != size || s.state != state
	if changed {
		s.desiredSize = size
		s.state = state
	}
	c.mu.Unlock()

	if changed {
		c.signaler.Emit(core.SignalSurfaceReconfigured, sid)
	}
}

// GetSurface returns a snapshot of the surface.
func (c *Coordinator) GetSurface(sid core.SurfaceID) (SurfaceInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[sid]
	if !ok {
		return SurfaceInfo{}, false
	}
	return s.info(), true
}

// GetRendererContext returns drawing contexts for the surface and its
// satellites in depth-first order.
func (c *Coordinator) GetRendererContext(sid core.SurfaceID) []core.SurfaceContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendererContextLocked(sid, make(map[core.SurfaceID]bool))
}

func (c *Coordinator) rendererContextLocked(sid core.SurfaceID, seen map[core.SurfaceID]bool) []core.SurfaceContext {
	s, ok := c.surfaces[sid]
	if !ok || seen[sid] {
		return nil
	}
	seen[sid] = true
	var result []core.SurfaceContext
	for _, child := range s.satellites {
		if child == sid {
			result = append(result, core.SurfaceContext{
				ID:       sid,
				Position: s.relativePosition,
			})
		} else {
			result = append(result, c.rendererContextLocked(child, seen)...)
		}
	}
	return result
}
