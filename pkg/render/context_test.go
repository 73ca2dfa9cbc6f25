package render

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

func putVertex(dst []byte, pos, normal math3d.Vec3) []byte {
	for _, f := range []float64{pos.X, pos.Y, pos.Z, normal.X, normal.Y, normal.Z} {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(f)))
	}
	return dst
}

func putUniforms(viewProj math3d.Mat4, mode PipelineID) []byte {
	b := make([]byte, UniformSize)
	for i, f := range viewProj.Float32() {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(b[UniformModeOffset:], uint32(mode))
	return b
}

// quadScene is a unit quad facing +Z seen from z=3.
type quadScene struct {
	ctx      *Context
	surface  *OffscreenSurface
	vb, ib   BufferID
	uniforms BufferID
	viewProj math3d.Mat4
}

func newQuadScene(t testing.TB, opts ContextOptions) *quadScene {
	t.Helper()
	s := &quadScene{surface: NewOffscreenSurface(40, 40)}
	s.ctx = NewContext(s.surface, opts)
	if err := s.ctx.Configure(40, 40); err != nil {
		t.Fatal(err)
	}

	n := math3d.V3(0, 0, 1)
	var verts []byte
	for _, p := range []math3d.Vec3{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}} {
		verts = putVertex(verts, p, n)
	}
	var idx []byte
	for _, i := range []uint32{0, 1, 2, 0, 2, 3} {
		idx = binary.LittleEndian.AppendUint32(idx, i)
	}

	var err error
	if s.vb, err = s.ctx.CreateBuffer("quad vertices", UsageVertex, verts); err != nil {
		t.Fatal(err)
	}
	if s.ib, err = s.ctx.CreateBuffer("quad indices", UsageIndex, idx); err != nil {
		t.Fatal(err)
	}
	if s.uniforms, err = s.ctx.CreateBuffer("uniforms", UsageUniform|UsageCopyDst, make([]byte, UniformSize)); err != nil {
		t.Fatal(err)
	}
	s.viewProj = math3d.Perspective(math.Pi/3, 1, 0.1, 100).Mul(math3d.Translate(math3d.V3(0, 0, -3)))
	return s
}

func (s *quadScene) draw(t *testing.T, viewProj math3d.Mat4, mode PipelineID) {
	t.Helper()
	if err := s.ctx.WriteBuffer(s.uniforms, 0, putUniforms(viewProj, mode)); err != nil {
		t.Fatal(err)
	}
	frame, err := s.ctx.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if err := frame.SetPipeline(mode); err != nil {
		t.Fatal(err)
	}
	if err := frame.SetUniforms(s.uniforms); err != nil {
		t.Fatal(err)
	}
	if err := frame.DrawIndexed(s.vb, s.ib, 6); err != nil {
		t.Fatal(err)
	}
	if err := frame.Present(); err != nil {
		t.Fatal(err)
	}
}

func TestContextConfigure(t *testing.T) {
	ctx := NewContext(NewOffscreenSurface(10, 10), ContextOptions{MaxPixels: 100})

	if err := ctx.Configure(0, 10); err == nil {
		t.Error("zero width accepted")
	}
	if err := ctx.Configure(11, 10); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("oversized configure error = %v, want ErrOutOfMemory", err)
	}
	if err := ctx.Configure(10, 10); err != nil {
		t.Fatal(err)
	}
	if fb := ctx.Framebuffer(); fb == nil || fb.Width != 10 || fb.Height != 10 {
		t.Errorf("framebuffer = %+v", fb)
	}
}

func TestAcquireFrameSurfaceLost(t *testing.T) {
	surface := NewOffscreenSurface(20, 10)
	ctx := NewContext(surface, DefaultContextOptions())

	if _, err := ctx.AcquireFrame(); !errors.Is(err, ErrSurfaceLost) {
		t.Fatalf("unconfigured acquire error = %v, want ErrSurfaceLost", err)
	}
	if err := ctx.Configure(20, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.AcquireFrame(); err != nil {
		t.Fatal(err)
	}

	surface.SetSize(30, 12)
	if _, err := ctx.AcquireFrame(); !errors.Is(err, ErrSurfaceLost) {
		t.Fatalf("resized acquire error = %v, want ErrSurfaceLost", err)
	}
	w, h := ctx.Size()
	if w != 30 || h != 12 {
		t.Fatalf("Size() = %dx%d, want 30x12", w, h)
	}
	if err := ctx.Configure(w, h); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.AcquireFrame(); err != nil {
		t.Errorf("acquire after reconfigure: %v", err)
	}
}

func TestAcquireFrameOutOfMemory(t *testing.T) {
	surface := NewOffscreenSurface(10, 10)
	ctx := NewContext(surface, ContextOptions{MaxPixels: 200})
	if err := ctx.Configure(10, 10); err != nil {
		t.Fatal(err)
	}
	surface.SetSize(100, 100)
	if _, err := ctx.AcquireFrame(); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("error = %v, want ErrOutOfMemory", err)
	}
}

func TestContextBuffers(t *testing.T) {
	ctx := NewContext(NewOffscreenSurface(1, 1), DefaultContextOptions())

	if _, err := ctx.CreateBuffer("none", 0, nil); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("no usage: %v", err)
	}
	if _, err := ctx.CreateBuffer("short", UsageVertex, make([]byte, 10)); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("partial vertex: %v", err)
	}

	ro, err := ctx.CreateBuffer("read-only", UsageUniform, make([]byte, UniformSize))
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.WriteBuffer(ro, 0, []byte{1}); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("write without copy-dst: %v", err)
	}

	rw, err := ctx.CreateBuffer("writable", UsageUniform|UsageCopyDst, make([]byte, UniformSize))
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.WriteBuffer(rw, UniformSize-2, []byte{1, 2, 3}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("overflowing write: %v", err)
	}
	if err := ctx.WriteBuffer(BufferID(99), 0, nil); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("unknown id: %v", err)
	}

	if got := (UsageVertex | UsageCopyDst).String(); got != "vertex|copy-dst" {
		t.Errorf("usage string = %q", got)
	}
}

func TestDrawSolid(t *testing.T) {
	opts := DefaultContextOptions()
	s := newQuadScene(t, opts)
	s.draw(t, s.viewProj, PipelineSolid)

	if s.surface.Presents() != 1 {
		t.Fatalf("Presents = %d, want 1", s.surface.Presents())
	}
	fb := s.surface.Last()
	c := fb.GetPixel(20, 20)
	if c == opts.Background || c.R < 190 {
		t.Errorf("center = %v, want lit solid color", c)
	}
	if got := fb.GetPixel(0, 0); got != opts.Background {
		t.Errorf("corner = %v, want background", got)
	}
	stats := s.ctx.Stats()
	if stats.Draws != 1 || stats.Raster.Triangles != 2 || stats.Raster.Culled != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDrawSolidCullsBackFaces(t *testing.T) {
	opts := DefaultContextOptions()
	s := newQuadScene(t, opts)
	// Look at the quad from behind.
	behind := math3d.Translate(math3d.V3(0, 0, -3)).Mul(math3d.RotateY(math.Pi))
	view, _ := behind.Invert()
	s.draw(t, math3d.Perspective(math.Pi/3, 1, 0.1, 100).Mul(view), PipelineSolid)

	if n := s.surface.Last().Count(opts.Background); n != 0 {
		t.Errorf("%d pixels drawn for a back face", n)
	}
	if got := s.ctx.Stats().Raster.Culled; got != 2 {
		t.Errorf("Culled = %d, want 2", got)
	}
}

func TestDrawWireframe(t *testing.T) {
	opts := DefaultContextOptions()
	s := newQuadScene(t, opts)
	s.draw(t, s.viewProj, PipelineWireframe)

	fb := s.surface.Last()
	drawn := 0
	for _, p := range fb.Pixels {
		if p == opts.Background {
			continue
		}
		drawn++
		if p != opts.WireColor {
			t.Fatalf("pixel %v is not the wire color", p)
		}
	}
	if drawn == 0 {
		t.Error("wireframe drew nothing")
	}
	if got := s.ctx.Stats().Raster.Lines; got != 6 {
		t.Errorf("Lines = %d, want 6", got)
	}
}

func TestDrawOutsideFrustum(t *testing.T) {
	s := newQuadScene(t, DefaultContextOptions())
	// Camera pointing away from the quad.
	away := math3d.Translate(math3d.V3(0, 0, 3)).Mul(math3d.RotateY(math.Pi))
	view, _ := away.Invert()
	s.draw(t, math3d.Perspective(math.Pi/3, 1, 0.1, 100).Mul(view), PipelineSolid)

	stats := s.ctx.Stats()
	if stats.CulledDraws != 1 || stats.Draws != 0 {
		t.Errorf("stats = %+v, want one culled draw", stats)
	}
}

func TestDrawIndexedErrors(t *testing.T) {
	s := newQuadScene(t, DefaultContextOptions())
	if err := s.ctx.WriteBuffer(s.uniforms, 0, putUniforms(s.viewProj, PipelineSolid)); err != nil {
		t.Fatal(err)
	}

	frame, err := s.ctx.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if err := frame.DrawIndexed(s.vb, s.ib, 6); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("no pipeline: %v", err)
	}
	if err := frame.SetPipeline(PipelineID(7)); err == nil {
		t.Error("unknown pipeline accepted")
	}
	if err := frame.SetPipeline(PipelineSolid); err != nil {
		t.Fatal(err)
	}
	if err := frame.DrawIndexed(s.vb, s.ib, 6); !errors.Is(err, ErrNoUniforms) {
		t.Errorf("no uniforms: %v", err)
	}
	if err := frame.SetUniforms(s.vb); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("vertex buffer as uniforms: %v", err)
	}
	if err := frame.SetUniforms(s.uniforms); err != nil {
		t.Fatal(err)
	}
	if err := frame.DrawIndexed(s.vb, s.ib, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("count past end: %v", err)
	}
	if err := frame.DrawIndexed(s.ib, s.vb, 6); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("swapped buffers: %v", err)
	}

	bad, err := s.ctx.CreateBuffer("bad indices", UsageIndex, binary.LittleEndian.AppendUint32(make([]byte, 8), 42))
	if err != nil {
		t.Fatal(err)
	}
	if err := frame.DrawIndexed(s.vb, bad, 3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("index past vertices: %v", err)
	}

	if err := frame.Present(); err != nil {
		t.Fatal(err)
	}
	if err := frame.DrawIndexed(s.vb, s.ib, 6); !errors.Is(err, ErrFrameExpired) {
		t.Errorf("draw after present: %v", err)
	}
}

func TestAcquireFrameExpiresPrevious(t *testing.T) {
	s := newQuadScene(t, DefaultContextOptions())
	first, err := s.ctx.AcquireFrame()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ctx.AcquireFrame(); err != nil {
		t.Fatal(err)
	}
	if err := first.Present(); !errors.Is(err, ErrFrameExpired) {
		t.Errorf("present of discarded frame: %v", err)
	}
}

func BenchmarkDrawSolid(b *testing.B) {
	s := newQuadScene(b, DefaultContextOptions())
	if err := s.ctx.WriteBuffer(s.uniforms, 0, putUniforms(s.viewProj, PipelineSolid)); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		frame, err := s.ctx.AcquireFrame()
		if err != nil {
			b.Fatal(err)
		}
		_ = frame.SetPipeline(PipelineSolid)
		_ = frame.SetUniforms(s.uniforms)
		_ = frame.DrawIndexed(s.vb, s.ib, 6)
		_ = frame.Present()
	}
}
