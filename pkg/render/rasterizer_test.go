package render

import (
	"math"
	"testing"

	"github.com/taigrr/meshview/pkg/math3d"
)

var (
	red   = RGB(255, 0, 0)
	green = RGB(0, 255, 0)
	blue  = RGB(0, 0, 255)
	black = RGB(0, 0, 0)
)

func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	fb.Clear(black)
	r := NewRasterizer(fb)
	r.ClearDepth()
	return r, fb
}

func cv(x, y, z float64, c Color) ClipVertex {
	return ClipVertex{Pos: math3d.V4(x, y, z, 1), Color: c}
}

// ccw is counter-clockwise in NDC and covers the screen center.
func ccw(z float64, c Color) [3]ClipVertex {
	return [3]ClipVertex{cv(-0.8, -0.8, z, c), cv(0.8, -0.8, z, c), cv(0, 0.8, z, c)}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(4, 4)
	r.DrawTriangle(ccw(0, red), true, true)
	if r.Stats.Triangles != 1 {
		t.Fatalf("Triangles = %d, want 1", r.Stats.Triangles)
	}

	r.ClearDepth()
	if r.Stats != (RasterStats{}) {
		t.Errorf("stats not reset: %+v", r.Stats)
	}
	for y := range 4 {
		for x := range 4 {
			if d := r.Depth(x, y); d != math.MaxFloat64 {
				t.Fatalf("Depth(%d, %d) = %v after clear", x, y, d)
			}
		}
	}
}

func TestRasterizerDepthBoundsCheck(t *testing.T) {
	r, _ := createTestRasterizer(8, 8)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if d := r.Depth(p[0], p[1]); d != math.MaxFloat64 {
			t.Errorf("Depth(%d, %d) = %v, want MaxFloat64", p[0], p[1], d)
		}
	}
}

func TestDrawTriangleFill(t *testing.T) {
	r, fb := createTestRasterizer(20, 20)
	r.DrawTriangle(ccw(0.5, red), true, true)

	if got := fb.GetPixel(10, 10); got != red {
		t.Errorf("center pixel = %v, want red", got)
	}
	if got := fb.GetPixel(0, 0); got != black {
		t.Errorf("corner pixel = %v, want background", got)
	}
	if d := r.Depth(10, 10); math.Abs(d-0.5) > 1e-9 {
		t.Errorf("depth = %v, want 0.5", d)
	}
}

func TestDrawTriangleBackfaceCulling(t *testing.T) {
	front := ccw(0, red)
	back := [3]ClipVertex{front[0], front[2], front[1]}

	tests := []struct {
		name     string
		tri      [3]ClipVertex
		cull     bool
		wantDraw bool
	}{
		{"front face culled pipeline", front, true, true},
		{"back face culled pipeline", back, true, false},
		{"back face without culling", back, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			r.DrawTriangle(tc.tri, tc.cull, true)
			drawn := fb.GetPixel(10, 10) == red
			if drawn != tc.wantDraw {
				t.Errorf("drawn = %v, want %v", drawn, tc.wantDraw)
			}
			if !tc.wantDraw && r.Stats.Culled != 1 {
				t.Errorf("Culled = %d, want 1", r.Stats.Culled)
			}
		})
	}
}

func TestDrawTriangleDepthTest(t *testing.T) {
	for _, order := range []string{"near first", "far first"} {
		t.Run(order, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			near, far := ccw(0.2, green), ccw(0.8, blue)
			if order == "near first" {
				r.DrawTriangle(near, true, true)
				r.DrawTriangle(far, true, true)
			} else {
				r.DrawTriangle(far, true, true)
				r.DrawTriangle(near, true, true)
			}
			if got := fb.GetPixel(10, 10); got != green {
				t.Errorf("center = %v, want the nearer green", got)
			}
		})
	}

	r, fb := createTestRasterizer(20, 20)
	r.DrawTriangle(ccw(0.2, green), true, false)
	r.DrawTriangle(ccw(0.8, blue), true, false)
	if got := fb.GetPixel(10, 10); got != blue {
		t.Errorf("without depth test center = %v, want the last drawn blue", got)
	}
}

func TestDrawTriangleGouraud(t *testing.T) {
	r, fb := createTestRasterizer(40, 40)
	tri := [3]ClipVertex{cv(-1, -1, 0, red), cv(1, -1, 0, green), cv(0, 1, 0, blue)}
	r.DrawTriangle(tri, true, true)

	// Near the bottom-left vertex red dominates.
	c := fb.GetPixel(2, 38)
	if c.R < 150 || c.G > 100 || c.B > 100 {
		t.Errorf("pixel near red vertex = %v", c)
	}
	// Near the top vertex blue dominates.
	c = fb.GetPixel(20, 2)
	if c.B < 150 || c.R > 100 {
		t.Errorf("pixel near blue vertex = %v", c)
	}
}

func TestDrawTriangleNearClipping(t *testing.T) {
	t.Run("entirely behind", func(t *testing.T) {
		r, fb := createTestRasterizer(20, 20)
		r.DrawTriangle(ccw(-3, red), false, true)
		if r.Stats.Clipped != 1 {
			t.Errorf("Clipped = %d, want 1", r.Stats.Clipped)
		}
		if n := fb.Count(black); n != 0 {
			t.Errorf("%d pixels drawn", n)
		}
	})

	t.Run("crossing near plane", func(t *testing.T) {
		r, fb := createTestRasterizer(20, 20)
		tri := ccw(0.5, red)
		tri[2].Pos.Z = -3 // z + w < 0
		r.DrawTriangle(tri, false, true)
		if r.Stats.Clipped != 0 {
			t.Errorf("Clipped = %d, want 0", r.Stats.Clipped)
		}
		if n := fb.Count(black); n == 0 {
			t.Error("clipped triangle drew nothing")
		}
	})
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name      string
		a, b      ClipVertex
		wantLines int
		pixel     [2]int
	}{
		{"inside", cv(-0.9, 0, 0, red), cv(0.9, 0, 0, red), 1, [2]int{10, 10}},
		{"leaves the right edge", cv(0, 0, 0, red), cv(3, 0, 0, red), 1, [2]int{19, 10}},
		{"outside", cv(2, 0, 0, red), cv(3, 0, 0, red), 0, [2]int{-1, -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, fb := createTestRasterizer(20, 20)
			r.DrawLine(tc.a, tc.b)
			if r.Stats.Lines != tc.wantLines {
				t.Errorf("Lines = %d, want %d", r.Stats.Lines, tc.wantLines)
			}
			if tc.wantLines == 0 {
				if n := fb.Count(black); n != 0 {
					t.Errorf("%d pixels drawn", n)
				}
				return
			}
			if got := fb.GetPixel(tc.pixel[0], tc.pixel[1]); got != red {
				t.Errorf("pixel %v = %v, want red", tc.pixel, got)
			}
		})
	}
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("30, 30,40")
	if err != nil {
		t.Fatal(err)
	}
	if c != RGB(30, 30, 40) {
		t.Errorf("got %v", c)
	}
	for _, bad := range []string{"", "1,2", "1,2,300", "a,b,c"} {
		if _, err := ParseRGB(bad); err == nil {
			t.Errorf("ParseRGB(%q) succeeded", bad)
		}
	}
}

func BenchmarkDrawTriangle(b *testing.B) {
	r, _ := createTestRasterizer(200, 100)
	tri := [3]ClipVertex{cv(-1, -1, 0, red), cv(1, -1, 0, green), cv(0, 1, 0, blue)}

	for b.Loop() {
		r.ClearDepth()
		r.DrawTriangle(tri, true, true)
	}
}
