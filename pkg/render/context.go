package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

var (
	// ErrSurfaceLost means the surface no longer matches the configured
	// size; call Configure with the current size.
	ErrSurfaceLost = errors.New("surface lost")
	// ErrOutOfMemory means the surface needs more pixels than the context
	// may allocate.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrFrameExpired is returned when a frame is used after it was
	// presented or after a newer frame was acquired.
	ErrFrameExpired = errors.New("frame expired")
	// ErrNoPipeline is returned by draws before a pipeline is set.
	ErrNoPipeline = errors.New("no pipeline set")
	// ErrNoUniforms is returned by draws before uniforms are bound.
	ErrNoUniforms = errors.New("no uniforms bound")
)

// DefaultMaxPixels bounds the framebuffer allocation.
const DefaultMaxPixels = 4096 * 4096

// ContextOptions configures a Context.
type ContextOptions struct {
	MaxPixels  int   // Largest framebuffer, in pixels
	Background Color // Clear color
	SolidColor Color // Base color of solid shading
	WireColor  Color // Line color in wireframe mode
}

// DefaultContextOptions returns the colors the viewer uses out of the box.
func DefaultContextOptions() ContextOptions {
	return ContextOptions{
		MaxPixels:  DefaultMaxPixels,
		Background: RGB(30, 30, 40),
		SolidColor: RGB(200, 200, 200),
		WireColor:  RGB(0, 255, 128),
	}
}

// Frame is one acquired frame. Commands are executed as they are issued;
// Present hands the result to the surface.
type Frame interface {
	SetPipeline(id PipelineID) error
	SetUniforms(id BufferID) error
	DrawIndexed(vertices, indices BufferID, count int) error
	Present() error
}

// FrameStats describes the last presented frame.
type FrameStats struct {
	Draws       int // DrawIndexed calls that reached the rasterizer
	CulledDraws int // DrawIndexed calls rejected by the frustum test
	Raster      RasterStats
}

// Context owns buffers, the framebuffer, and the surface they are presented
// to. It is not safe for concurrent use.
type Context struct {
	surface Surface
	opts    ContextOptions

	buffers []*buffer

	fb     *Framebuffer
	raster *Rasterizer
	width  int
	height int

	generation int
	stats      FrameStats
}

// NewContext creates a context presenting to surface. Configure must be
// called before the first frame.
func NewContext(surface Surface, opts ContextOptions) *Context {
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	return &Context{surface: surface, opts: opts}
}

// CreateBuffer allocates a buffer initialized with data.
func (c *Context) CreateBuffer(label string, usage BufferUsage, data []byte) (BufferID, error) {
	if usage == 0 {
		return 0, fmt.Errorf("%w: %q has no usage", ErrInvalidBuffer, label)
	}
	if usage&UsageVertex != 0 && len(data)%VertexStride != 0 {
		return 0, fmt.Errorf("%w: vertex buffer %q is %d bytes, not a multiple of %d", ErrInvalidBuffer, label, len(data), VertexStride)
	}
	if usage&UsageIndex != 0 && len(data)%IndexSize != 0 {
		return 0, fmt.Errorf("%w: index buffer %q is %d bytes, not a multiple of %d", ErrInvalidBuffer, label, len(data), IndexSize)
	}
	b := &buffer{label: label, usage: usage, data: make([]byte, len(data))}
	copy(b.data, data)
	c.buffers = append(c.buffers, b)
	return BufferID(len(c.buffers) - 1), nil
}

// WriteBuffer copies data into a buffer created with UsageCopyDst.
func (c *Context) WriteBuffer(id BufferID, offset int, data []byte) error {
	b, err := c.lookup(id, UsageCopyDst)
	if err != nil {
		return err
	}
	return b.write(offset, data)
}

func (c *Context) lookup(id BufferID, usage BufferUsage) (*buffer, error) {
	if id < 0 || int(id) >= len(c.buffers) {
		return nil, fmt.Errorf("%w: no buffer %d", ErrInvalidBuffer, id)
	}
	b := c.buffers[id]
	if b.usage&usage != usage {
		return nil, fmt.Errorf("%w: buffer %q has usage %s, need %s", ErrInvalidBuffer, b.label, b.usage, usage)
	}
	return b, nil
}

// Configure sizes the framebuffer and the surface.
func (c *Context) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("configure %dx%d: size must be positive", width, height)
	}
	if width*height > c.opts.MaxPixels {
		return fmt.Errorf("configure %dx%d: %w (limit %d pixels)", width, height, ErrOutOfMemory, c.opts.MaxPixels)
	}
	if err := c.surface.Configure(width, height); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	if c.fb == nil || c.fb.Width != width || c.fb.Height != height {
		c.fb = NewFramebuffer(width, height)
		c.raster = NewRasterizer(c.fb)
	}
	c.width, c.height = width, height
	// Frames acquired before the resize are stale.
	c.generation++
	return nil
}

// Size returns the surface's current size, falling back to the configured
// size when the surface cannot be queried.
func (c *Context) Size() (int, int) {
	w, h, err := c.surface.Size()
	if err != nil {
		return c.width, c.height
	}
	return w, h
}

// Stats returns statistics of the last presented frame.
func (c *Context) Stats() FrameStats {
	return c.stats
}

// Framebuffer returns the framebuffer frames are drawn into, or nil before
// Configure.
func (c *Context) Framebuffer() *Framebuffer {
	return c.fb
}

// AcquireFrame clears the framebuffer and returns a frame to record into.
// Any frame acquired earlier and not yet presented is discarded.
func (c *Context) AcquireFrame() (Frame, error) {
	w, h, err := c.surface.Size()
	if err != nil {
		return nil, fmt.Errorf("acquire frame: %w", err)
	}
	if w*h > c.opts.MaxPixels {
		return nil, fmt.Errorf("acquire frame %dx%d: %w", w, h, ErrOutOfMemory)
	}
	if c.fb == nil || w != c.width || h != c.height {
		return nil, fmt.Errorf("acquire frame: %w (surface %dx%d, configured %dx%d)", ErrSurfaceLost, w, h, c.width, c.height)
	}

	c.generation++
	c.fb.Clear(c.opts.Background)
	c.raster.ClearDepth()
	return &pass{ctx: c, generation: c.generation, pipeline: numPipelines, uniforms: -1}, nil
}

// pass records one frame's commands against its context.
type pass struct {
	ctx        *Context
	generation int
	pipeline   PipelineID
	uniforms   BufferID
	stats      FrameStats
	clip       []ClipVertex
}

func (p *pass) check() error {
	if p.generation != p.ctx.generation {
		return ErrFrameExpired
	}
	return nil
}

func (p *pass) SetPipeline(id PipelineID) error {
	if err := p.check(); err != nil {
		return err
	}
	if _, ok := PipelineFor(id); !ok {
		return fmt.Errorf("set pipeline: unknown pipeline %d", id)
	}
	p.pipeline = id
	return nil
}

func (p *pass) SetUniforms(id BufferID) error {
	if err := p.check(); err != nil {
		return err
	}
	if _, err := p.ctx.lookup(id, UsageUniform); err != nil {
		return fmt.Errorf("set uniforms: %w", err)
	}
	p.uniforms = id
	return nil
}

// DrawIndexed draws count indices as a triangle list.
func (p *pass) DrawIndexed(vertices, indices BufferID, count int) error {
	if err := p.check(); err != nil {
		return err
	}
	pl, ok := PipelineFor(p.pipeline)
	if !ok {
		return ErrNoPipeline
	}
	if p.uniforms < 0 {
		return ErrNoUniforms
	}
	ub, err := p.ctx.lookup(p.uniforms, UsageUniform)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	u, err := ub.uniformView()
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	vb, err := p.ctx.lookup(vertices, UsageVertex)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	ib, err := p.ctx.lookup(indices, UsageIndex)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	verts, bounds := vb.vertexView()
	idx := ib.indexView()
	if count < 0 || count > len(idx) {
		return fmt.Errorf("draw %d indices from %q (%d): %w", count, ib.label, len(idx), ErrOutOfRange)
	}
	idx = idx[:count-count%3]
	for _, i := range idx {
		if int(i) >= len(verts) {
			return fmt.Errorf("draw: index %d past %d vertices in %q: %w", i, len(verts), vb.label, ErrOutOfRange)
		}
	}
	if len(idx) == 0 {
		return nil
	}

	if !NewFrustumFromMatrix(u.viewProj).IntersectAABB(bounds) {
		p.stats.CulledDraws++
		return nil
	}
	p.stats.Draws++

	p.clip = p.shade(p.clip[:0], verts, u)
	r := p.ctx.raster
	for t := 0; t < len(idx); t += 3 {
		tri := [3]ClipVertex{p.clip[idx[t]], p.clip[idx[t+1]], p.clip[idx[t+2]]}
		switch pl.Topology {
		case TopologyLines:
			r.DrawLine(tri[0], tri[1])
			r.DrawLine(tri[1], tri[2])
			r.DrawLine(tri[2], tri[0])
		default:
			r.DrawTriangle(tri, pl.CullBack, pl.DepthTest)
		}
	}
	return nil
}

// shade is the vertex stage. Solid mode lights each vertex with a headlight
// along the camera's view direction; wireframe uses a flat line color.
func (p *pass) shade(dst []ClipVertex, verts []shadedVertex, u uniforms) []ClipVertex {
	m := u.viewProj
	// Row 3 of a perspective view-projection is the negated view axis.
	toEye := math3d.V3(-m[3], -m[7], -m[11]).Normalize()
	opts := p.ctx.opts

	for _, v := range verts {
		cv := ClipVertex{Pos: m.MulVec4(math3d.V4FromV3(v.Position, 1))}
		if u.mode == uint32(PipelineWireframe) {
			cv.Color = opts.WireColor
		} else {
			// Meshes may be inside out; light both sides.
			d := math.Abs(v.Normal.Normalize().Dot(toEye))
			cv.Color = Scale(opts.SolidColor, 0.3+0.7*d)
		}
		dst = append(dst, cv)
	}
	return dst
}

// Present shows the frame on the surface.
func (p *pass) Present() error {
	if err := p.check(); err != nil {
		return err
	}
	c := p.ctx
	c.generation++
	p.stats.Raster = c.raster.Stats
	c.stats = p.stats
	if err := c.surface.Present(c.fb); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}
