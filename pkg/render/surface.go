package render

import "sync"

// Surface is where presented frames end up.
type Surface interface {
	// Size reports the current size of the surface in pixels.
	Size() (width, height int, err error)
	// Configure prepares the surface for frames of the given size.
	Configure(width, height int) error
	// Present shows a finished frame.
	Present(fb *Framebuffer) error
}

// OffscreenSurface keeps presented frames in memory. Its size changes only
// through SetSize, which lets tests simulate a window resize.
type OffscreenSurface struct {
	mu       sync.Mutex
	width    int
	height   int
	last     *Framebuffer
	presents int
}

// NewOffscreenSurface creates an in-memory surface of the given size.
func NewOffscreenSurface(width, height int) *OffscreenSurface {
	return &OffscreenSurface{width: width, height: height}
}

// SetSize changes the reported size, as a window resize would.
func (s *OffscreenSurface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *OffscreenSurface) Size() (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height, nil
}

func (s *OffscreenSurface) Configure(width, height int) error {
	return nil
}

// Present keeps a copy of the frame.
func (s *OffscreenSurface) Present(fb *Framebuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := NewFramebuffer(fb.Width, fb.Height)
	copy(cp.Pixels, fb.Pixels)
	s.last = cp
	s.presents++
	return nil
}

// Last returns the most recently presented frame, or nil.
func (s *OffscreenSurface) Last() *Framebuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Presents returns how many frames were presented.
func (s *OffscreenSurface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}
