// Package render implements meshview's rendering backend: GPU-style buffers
// and pipelines executed by a software rasterizer that presents into a
// terminal.
package render

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// ClipVertex is a vertex after the vertex stage: a clip-space position and
// a shaded color.
type ClipVertex struct {
	Pos   math3d.Vec4
	Color Color
}

// RasterStats counts the work done since the last ClearDepth.
type RasterStats struct {
	Triangles int // Triangles submitted
	Culled    int // Back faces and zero-area triangles
	Clipped   int // Triangles entirely outside the near plane
	Lines     int // Line segments drawn
}

// Rasterizer handles software triangle and line rasterization into a
// Framebuffer with a depth buffer.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (1D array, row-major)
	Stats   RasterStats
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer and the stats (call before each frame).
func (r *Rasterizer) ClearDepth() {
	r.Stats = RasterStats{}
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// Depth returns the depth at (x, y), or MaxFloat64 outside the buffer.
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates, y down
	Z     float64 // NDC depth
	Color Color
}

func (r *Rasterizer) toScreen(v ClipVertex) screenVertex {
	invW := 1.0 / v.Pos.W
	return screenVertex{
		X:     (v.Pos.X*invW + 1) * 0.5 * float64(r.Width()),
		Y:     (1 - v.Pos.Y*invW) * 0.5 * float64(r.Height()),
		Z:     v.Pos.Z * invW,
		Color: v.Color,
	}
}

// DrawTriangle clips a triangle against the near plane and fills it with
// Gouraud-interpolated color. Front faces are counter-clockwise in NDC; with
// cullBack set, clockwise triangles are skipped.
func (r *Rasterizer) DrawTriangle(tri [3]ClipVertex, cullBack, depthTest bool) {
	r.Stats.Triangles++

	poly := clipPolygon(tri[:], nearPlane)
	if len(poly) < 3 {
		r.Stats.Clipped++
		return
	}

	sv := make([]screenVertex, len(poly))
	for i, v := range poly {
		sv[i] = r.toScreen(v)
	}

	// Screen y points down, so a CCW triangle has a negative cross product.
	cross := signedArea2(sv[0], sv[1], sv[2])
	if cross == 0 || (cullBack && cross > 0) {
		r.Stats.Culled++
		return
	}

	for i := 1; i+1 < len(sv); i++ {
		a, b, c := sv[0], sv[i], sv[i+1]
		if cross < 0 {
			b, c = c, b
		}
		r.fillTriangle(a, b, c, depthTest)
	}
}

func signedArea2(a, b, c screenVertex) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// edgeCoeffs returns A, B, C for edge(x,y) = A*x + B*y + C.
// Positive = left of edge, negative = right of edge, zero = on edge.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// fillTriangle rasterizes a triangle with positive screen-space area using
// incremental edge functions.
func (r *Rasterizer) fillTriangle(v0, v1, v2 screenVertex, depthTest bool) {
	area2 := signedArea2(v0, v1, v2)
	if area2 <= 0 {
		return
	}
	invArea := 1.0 / area2

	// Bounding box (clamped to screen)
	minX := int(math.Max(0, math.Floor(min(v0.X, v1.X, v2.X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max(v0.X, v1.X, v2.X))))
	minY := int(math.Max(0, math.Floor(min(v0.Y, v1.Y, v2.Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max(v0.Y, v1.Y, v2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(v1.X, v1.Y, v2.X, v2.Y)
	A1, B1, C1 := edgeCoeffs(v2.X, v2.Y, v0.X, v0.Y)
	A2, B2, C2 := edgeCoeffs(v0.X, v0.Y, v1.X, v1.Y)

	r0, g0, b0 := float64(v0.Color.R), float64(v0.Color.G), float64(v0.Color.B)
	r1, g1, b1 := float64(v1.Color.R), float64(v1.Color.G), float64(v1.Color.B)
	r2, g2, b2 := float64(v2.Color.R), float64(v2.Color.G), float64(v2.Color.B)

	// Evaluate edge functions at the first pixel center
	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	width := r.Width()
	zbuffer := r.zbuffer
	pixels := r.fb.Pixels

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		rowOffset := y * width

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				bc0 := w0 * invArea
				bc1 := w1 * invArea
				bc2 := w2 * invArea

				z := bc0*v0.Z + bc1*v1.Z + bc2*v2.Z
				idx := rowOffset + x
				if !depthTest || z < zbuffer[idx] {
					zbuffer[idx] = z
					pixels[idx] = RGB(
						uint8(r0*bc0+r1*bc1+r2*bc2),
						uint8(g0*bc0+g1*bc1+g2*bc2),
						uint8(b0*bc0+b1*bc1+b2*bc2),
					)
				}
			}

			// Step in X direction
			w0 += A0
			w1 += A1
			w2 += A2
		}

		// Step in Y direction
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// DrawLine clips a segment to the view volume (except the far plane) and
// draws it in the color of its first vertex. Lines do not test depth.
func (r *Rasterizer) DrawLine(a, b ClipVertex) {
	seg := []ClipVertex{a, b}
	for _, plane := range linePlanes {
		seg = clipSegment(seg, plane)
		if seg == nil {
			return
		}
	}
	r.Stats.Lines++

	sa, sb := r.toScreen(seg[0]), r.toScreen(seg[1])
	x0 := clampPixel(sa.X, r.Width())
	y0 := clampPixel(sa.Y, r.Height())
	x1 := clampPixel(sb.X, r.Width())
	y1 := clampPixel(sb.Y, r.Height())
	r.fb.DrawLine(x0, y0, x1, y1, a.Color)
}

func clampPixel(v float64, size int) int {
	return max(0, min(size-1, int(math.Floor(v))))
}

// clipPlane returns the signed distance of a clip-space point to a view
// volume boundary; non-negative is inside.
type clipPlane func(math3d.Vec4) float64

var (
	nearPlane   clipPlane = func(v math3d.Vec4) float64 { return v.Z + v.W }
	leftPlane   clipPlane = func(v math3d.Vec4) float64 { return v.X + v.W }
	rightPlane  clipPlane = func(v math3d.Vec4) float64 { return v.W - v.X }
	bottomPlane clipPlane = func(v math3d.Vec4) float64 { return v.Y + v.W }
	topPlane    clipPlane = func(v math3d.Vec4) float64 { return v.W - v.Y }

	linePlanes = []clipPlane{nearPlane, leftPlane, rightPlane, bottomPlane, topPlane}
)

func lerpClip(a, b ClipVertex, t float64) ClipVertex {
	return ClipVertex{
		Pos: math3d.V4(
			a.Pos.X+(b.Pos.X-a.Pos.X)*t,
			a.Pos.Y+(b.Pos.Y-a.Pos.Y)*t,
			a.Pos.Z+(b.Pos.Z-a.Pos.Z)*t,
			a.Pos.W+(b.Pos.W-a.Pos.W)*t,
		),
		Color: lerpColor(a.Color, b.Color, t),
	}
}

// clipPolygon clips a convex polygon against one plane (Sutherland-Hodgman).
func clipPolygon(poly []ClipVertex, plane clipPlane) []ClipVertex {
	out := make([]ClipVertex, 0, len(poly)+1)
	for i := range poly {
		cur, next := poly[i], poly[(i+1)%len(poly)]
		dc, dn := plane(cur.Pos), plane(next.Pos)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, lerpClip(cur, next, dc/(dc-dn)))
		}
	}
	return out
}

// clipSegment clips a two-vertex segment against one plane, returning nil
// when nothing is left.
func clipSegment(seg []ClipVertex, plane clipPlane) []ClipVertex {
	a, b := seg[0], seg[1]
	da, db := plane(a.Pos), plane(b.Pos)
	switch {
	case da < 0 && db < 0:
		return nil
	case da < 0:
		a = lerpClip(a, b, da/(da-db))
	case db < 0:
		b = lerpClip(a, b, da/(da-db))
	}
	return []ClipVertex{a, b}
}
