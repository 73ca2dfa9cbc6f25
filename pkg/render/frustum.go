package render

import (
	"github.com/taigrr/meshview/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Planes are ordered: Left, Right, Bottom, Top, Near, Far.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a view-projection matrix
// with the Gribb/Hartmann method. Normals point inward.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum

	// For column-major m, row i element j is at m[i + j*4].
	row := func(i int) (float64, float64, float64, float64) {
		return m[i], m[i+4], m[i+8], m[i+12]
	}
	x0, y0, z0, w0 := row(0)
	x1, y1, z1, w1 := row(1)
	x2, y2, z2, w2 := row(2)
	x3, y3, z3, w3 := row(3)

	f.Planes[FrustumLeft] = Plane{Normal: math3d.V3(x3+x0, y3+y0, z3+z0), D: w3 + w0}
	f.Planes[FrustumRight] = Plane{Normal: math3d.V3(x3-x0, y3-y0, z3-z0), D: w3 - w0}
	f.Planes[FrustumBottom] = Plane{Normal: math3d.V3(x3+x1, y3+y1, z3+z1), D: w3 + w1}
	f.Planes[FrustumTop] = Plane{Normal: math3d.V3(x3-x1, y3-y1, z3-z1), D: w3 - w1}
	f.Planes[FrustumNear] = Plane{Normal: math3d.V3(x3+x2, y3+y2, z3+z2), D: w3 + w2}
	f.Planes[FrustumFar] = Plane{Normal: math3d.V3(x3-x2, y3-y2, z3-z2), D: w3 - w2}

	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB reports whether any part of the box may be inside the
// frustum. It tests the corner furthest along each plane normal.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
