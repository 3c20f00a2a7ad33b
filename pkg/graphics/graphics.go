// Package graphics defines the attribute records for hardware-accelerated
// buffers and the interface of the GPU back-end the coordinator validates
// them against. Only the attributes are stored; images are re-imported
// lazily at draw time.
package graphics

import "fmt"

// EglAttributes describe an EGL image to be created from a client buffer.
type EglAttributes struct {
	Name   uint32
	Width  int
	Height int
	Stride int
	Format uint32
}

// DmabufPlane describes one plane of a dmabuf.
type DmabufPlane struct {
	Fd       int
	Offset   uint32
	Stride   uint32
	Modifier uint64
}

// DmabufAttributes describe a dmabuf to be imported.
type DmabufAttributes struct {
	Width  int
	Height int
	Format uint32
	Planes []DmabufPlane
}

// HwImage is an opaque handle of an imported image owned by the manager.
type HwImage struct {
	Handle uintptr
}

// Manager is implemented by the GPU back-end. It is registered once with
// the coordinator during device discovery.
type Manager interface {
	// CreateEglImage creates an image from EGL attributes.
	CreateEglImage(attrs EglAttributes) (HwImage, error)

	// ImportDmabuf imports a dmabuf.
	ImportDmabuf(attrs DmabufAttributes) (HwImage, error)

	// DestroyImage releases an image obtained from the two calls above.
	DestroyImage(image HwImage) error
}

// Validate checks that the manager accepts the EGL attributes by
// round-tripping a test image through it.
func Validate(manager Manager, attrs EglAttributes) error {
	image, err := manager.CreateEglImage(attrs)
	if err != nil {
		return fmt.Errorf("EGL image validation failed: %w", err)
	}
	return manager.DestroyImage(image)
}

// ValidateDmabuf checks that the manager can import the dmabuf by
// round-tripping a test image through it.
func ValidateDmabuf(manager Manager, attrs DmabufAttributes) error {
	image, err := manager.ImportDmabuf(attrs)
	if err != nil {
		return fmt.Errorf("dmabuf validation failed: %w", err)
	}
	return manager.DestroyImage(image)
}
