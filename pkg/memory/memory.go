// Package memory manages pixel storage shared with clients: mapped memory
// regions, pools carved out of them and read-only views with a pixel
// format. Pools and views are registered and garbage collected by the
// coordinator; this package only holds the data.
package memory

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PixelFormat enumerates the supported buffer formats.
type PixelFormat int

const (
	FormatXRGB8888 PixelFormat = iota
	FormatARGB8888
	FormatXBGR8888
	FormatABGR8888
	FormatRGB888
)

// BytesPerPixel returns the pixel stride of the format.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGB888 {
		return 3
	}
	return 4
}

func (f PixelFormat) String() string {
	switch f {
	case FormatXRGB8888:
		return "xrgb8888"
	case FormatARGB8888:
		return "argb8888"
	case FormatXBGR8888:
		return "xbgr8888"
	case FormatABGR8888:
		return "abgr8888"
	default:
		return "rgb888"
	}
}

// Buffer is an owned block of pixel data.
type Buffer struct {
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Data   []byte
}

// NewBuffer constructs a buffer taking ownership of the data.
func NewBuffer(format PixelFormat, width, height, stride int, data []byte) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		Data:   data,
	}
}

// IsEmpty reports whether the buffer holds no pixels.
func (b *Buffer) IsEmpty() bool {
	return b == nil || b.Width == 0 || b.Height == 0 || len(b.Data) == 0
}

// MappedMemory is a memory region shared with a client, usually backed by
// a file descriptor passed over the socket.
type MappedMemory struct {
	data   []byte
	mapped bool
}

// Map maps size bytes of the descriptor into the address space.
func Map(fd int, size int) (*MappedMemory, error) {
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap of %d bytes failed: %w", size, err)
	}
	return &MappedMemory{data: data, mapped: true}, nil
}

// MapAnonymous creates a private region not backed by any descriptor.
func MapAnonymous(size int) (*MappedMemory, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("anonymous mmap of %d bytes failed: %w", size, err)
	}
	return &MappedMemory{data: data, mapped: true}, nil
}

// FromBytes wraps an existing byte slice. Used by tests and by buffers
// already owned by the process.
func FromBytes(data []byte) *MappedMemory {
	return &MappedMemory{data: data}
}

// Size returns the length of the region in bytes.
func (m *MappedMemory) Size() int {
	return len(m.data)
}

// Bytes exposes the underlying region.
func (m *MappedMemory) Bytes() []byte {
	return m.data
}

// Unmap releases the region. Safe to call on non-mapped memory.
func (m *MappedMemory) Unmap() error {
	if !m.mapped || m.data == nil {
		m.data = nil
		return nil
	}
	data := m.data
	m.data = nil
	m.mapped = false
	return unix.Munmap(data)
}

// Pool owns one region of memory that views are carved out of. A pool is
// created either over mapped memory or over an owned buffer.
type Pool struct {
	memory *MappedMemory
	buffer *Buffer
}

// NewPoolFromMemory constructs a pool over mapped memory.
func NewPoolFromMemory(memory *MappedMemory) *Pool {
	return &Pool{memory: memory}
}

// NewPoolFromBuffer constructs a pool over an owned buffer.
func NewPoolFromBuffer(buffer *Buffer) *Pool {
	return &Pool{buffer: buffer}
}

// Size returns the pool's capacity in bytes.
func (p *Pool) Size() int {
	if p.memory != nil {
		return p.memory.Size()
	}
	if p.buffer != nil {
		return len(p.buffer.Data)
	}
	return 0
}

func (p *Pool) bytes() []byte {
	if p.memory != nil {
		return p.memory.Bytes()
	}
	if p.buffer != nil {
		return p.buffer.Data
	}
	return nil
}

// TakeMappedMemory returns the mapped memory backing the pool, if any,
// leaving the pool empty. Used when a destroyed pool's mapping should be
// handed back for unmapping.
func (p *Pool) TakeMappedMemory() *MappedMemory {
	memory := p.memory
	p.memory = nil
	return memory
}

// View returns a read-only window into the pool.
func (p *Pool) View(format PixelFormat, offset, width, height, stride int) (*View, error) {
	end := offset + stride*height
	if offset < 0 || stride < 0 || end > p.Size() {
		return nil, fmt.Errorf("view %dx%d stride %d at offset %d exceeds pool of %d bytes",
			width, height, stride, offset, p.Size())
	}
	return &View{
		pool:   p,
		Format: format,
		Offset: offset,
		Width:  width,
		Height: height,
		Stride: stride,
	}, nil
}

// View is a read-only window into a pool.
type View struct {
	pool   *Pool
	Format PixelFormat
	Offset int
	Width  int
	Height int
	Stride int
}

// Bytes returns the view's pixels.
func (v *View) Bytes() []byte {
	data := v.pool.bytes()
	if data == nil {
		return nil
	}
	end := v.Offset + v.Stride*v.Height
	if end > len(data) {
		return nil
	}
	return data[v.Offset:end]
}

// ToBuffer copies the view's pixels into an owned buffer.
func (v *View) ToBuffer() *Buffer {
	src := v.Bytes()
	data := make([]byte, len(src))
	copy(data, src)
	return NewBuffer(v.Format, v.Width, v.Height, v.Stride, data)
}
