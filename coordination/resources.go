package coordination

import (
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/graphics"
	"github.com/perceptia/perceptia/pkg/memory"
)

// CreatePoolFromMemory registers a pool over mapped memory.
func (c *Coordinator) CreatePoolFromMemory(mem *memory.MappedMemory) core.MemoryPoolID {
	return c.createPool(memory.NewPoolFromMemory(mem))
}

// CreatePoolFromBuffer registers a pool over an owned buffer.
func (c *Coordinator) CreatePoolFromBuffer(buffer *memory.Buffer) core.MemoryPoolID {
	return c.createPool(memory.NewPoolFromBuffer(buffer))
}

func (c *Coordinator) createPool(pool *memory.Pool) core.MemoryPoolID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastPoolID++
	id := c.lastPoolID
	c.pools[id] = &poolBundle{pool: pool, views: make(map[core.MemoryViewID]struct{})}
	return id
}

// DestroyPool unregisters the pool and eagerly removes all its views. If
// the pool was created from mapped memory that memory is handed back so
// the caller can unmap it.
func (c *Coordinator) DestroyPool(mpid core.MemoryPoolID) *memory.MappedMemory {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.pools[mpid]
	if !ok {
		c.log.Warnf("memory pool %d: %s", mpid, core.ErrNotFound)
		return nil
	}
	for mvid := range bundle.views {
		delete(c.views, mvid)
	}
	delete(c.pools, mpid)
	return bundle.pool.TakeMappedMemory()
}

// ReplacePool swaps the memory behind a pool id, e.g. after a client
// resized its memory map. Views into the old memory are dropped.
func (c *Coordinator) ReplacePool(mpid core.MemoryPoolID, mem *memory.MappedMemory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bundle, ok := c.pools[mpid]; ok {
		for mvid := range bundle.views {
			delete(c.views, mvid)
		}
	}
	c.pools[mpid] = &poolBundle{
		pool:  memory.NewPoolFromMemory(mem),
		views: make(map[core.MemoryViewID]struct{}),
	}
}

// CreateView carves a view out of a pool.
func (c *Coordinator) CreateView(mpid core.MemoryPoolID, format memory.PixelFormat,
	offset, width, height, stride int) (core.MemoryViewID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.pools[mpid]
	if !ok {
		c.log.Errorf("no memory pool with ID %d", mpid)
		return 0, false
	}
	view, err := bundle.pool.View(format, offset, width, height, stride)
	if err != nil {
		c.log.Errorf("cannot create memory view: %s", err)
		return 0, false
	}
	c.lastViewID++
	id := c.lastViewID
	c.views[id] = &viewBundle{view: view, pool: mpid}
	bundle.views[id] = struct{}{}
	return id, true
}

// DestroyView unregisters a view and unlinks it from its pool.
func (c *Coordinator) DestroyView(mvid core.MemoryViewID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.views[mvid]
	if !ok {
		c.log.Warnf("memory view %d: %s", mvid, core.ErrNotFound)
		return
	}
	if pool, ok := c.pools[bundle.pool]; ok {
		delete(pool.views, mvid)
	}
	delete(c.views, mvid)
}

// GetView returns the view registered under the id.
func (c *Coordinator) GetView(mvid core.MemoryViewID) (*memory.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bundle, ok := c.views[mvid]
	if !ok {
		return nil, false
	}
	return bundle.view, true
}

// SetGraphicsManager registers the GPU back-end. Expected to be called
// once during device discovery.
func (c *Coordinator) SetGraphicsManager(manager graphics.Manager) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manager = manager
}

// HasHardwareAcceleration reports whether a GPU back-end is registered.
func (c *Coordinator) HasHardwareAcceleration() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manager != nil
}

// CreateEglImage validates the attributes against the graphics manager by
// round-tripping a test image and stores them on success.
func (c *Coordinator) CreateEglImage(attrs graphics.EglAttributes) (core.EglImageID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manager == nil {
		c.log.Warn("no graphics manager to validate EGL image against")
		return 0, false
	}
	if err := graphics.Validate(c.manager, attrs); err != nil {
		c.log.Errorf("EGL image rejected: %s", err)
		return 0, false
	}
	c.lastEglID++
	id := c.lastEglID
	c.eglImages[id] = attrs
	return id, true
}

// DestroyEglImage forgets stored EGL attributes.
func (c *Coordinator) DestroyEglImage(ebid core.EglImageID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.eglImages[ebid]; !ok {
		c.log.Warnf("EGL image %d: %s", ebid, core.ErrNotFound)
		return
	}
	delete(c.eglImages, ebid)
}

// ImportDmabuf validates the dmabuf against the graphics manager and
// stores the attributes on success.
func (c *Coordinator) ImportDmabuf(attrs graphics.DmabufAttributes) (core.DmabufID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manager == nil {
		c.log.Warn("no graphics manager to validate dmabuf against")
		return 0, false
	}
	if err := graphics.ValidateDmabuf(c.manager, attrs); err != nil {
		c.log.Errorf("dmabuf rejected: %s", err)
		return 0, false
	}
	c.lastDmabufID++
	id := c.lastDmabufID
	c.dmabufs[id] = attrs
	return id, true
}

// DestroyDmabuf forgets stored dmabuf attributes.
func (c *Coordinator) DestroyDmabuf(dbid core.DmabufID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dmabufs[dbid]; !ok {
		c.log.Warnf("dmabuf %d: %s", dbid, core.ErrNotFound)
		return
	}
	delete(c.dmabufs, dbid)
}

// TakeScreenshot asks the exhibitor to capture the given display.
func (c *Coordinator) TakeScreenshot(id core.OutputID) {
	c.signaler.Emit(core.SignalTakeScreenshot, id)
}

// SetScreenshotBuffer stores the capture result and announces it.
func (c *Coordinator) SetScreenshotBuffer(buffer *memory.Buffer) {
	c.mu.Lock()
	c.screenshot = buffer
	c.mu.Unlock()
	c.signaler.Emit(core.SignalScreenshotDone, nil)
}

// TakeScreenshotBuffer consumes and returns the stored capture result.
func (c *Coordinator) TakeScreenshotBuffer() *memory.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	buffer := c.screenshot
	c.screenshot = nil
	return buffer
}
