package viewer

import "github.com/taigrr/meshview/pkg/render"

// Backend is the rendering device the loop draws with. render.Context is the
// terminal implementation.
type Backend interface {
	CreateBuffer(label string, usage render.BufferUsage, data []byte) (render.BufferID, error)
	WriteBuffer(id render.BufferID, offset int, data []byte) error
	// Configure sizes the surface. It is called again after ErrSurfaceLost.
	Configure(width, height int) error
	// Size returns the surface's current size in pixels.
	Size() (width, height int)
	AcquireFrame() (render.Frame, error)
}

var _ Backend = (*render.Context)(nil)
