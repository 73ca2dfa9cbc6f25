package models

import "github.com/taigrr/meshview/pkg/math3d"

// BoundingBox is the axis-aligned extent of a point set. The zero value is
// empty; Min and Max are only meaningful once a point has been observed.
type BoundingBox struct {
	Min math3d.Vec3
	Max math3d.Vec3

	valid bool
}

// NewBoundingBox returns the box spanning the given points.
func NewBoundingBox(points ...math3d.Vec3) BoundingBox {
	var b BoundingBox
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns the box grown to include p. The first point initializes
// both corners.
func (b BoundingBox) Extend(p math3d.Vec3) BoundingBox {
	if !b.valid {
		return BoundingBox{Min: p, Max: p, valid: true}
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
	return b
}

// Union returns the smallest box containing both boxes. An empty box is the
// identity, so partial boxes can be reduced in any order.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	switch {
	case !o.valid:
		return b
	case !b.valid:
		return o
	}
	return BoundingBox{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max), valid: true}
}

// IsEmpty reports whether no point has been observed.
func (b BoundingBox) IsEmpty() bool {
	return !b.valid
}

// Center returns (Min+Max)/2, or the origin for an empty box.
func (b BoundingBox) Center() math3d.Vec3 {
	if !b.valid {
		return math3d.Zero3()
	}
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns Max-Min.
func (b BoundingBox) Size() math3d.Vec3 {
	if !b.valid {
		return math3d.Zero3()
	}
	return b.Max.Sub(b.Min)
}

// Diagonal returns |Max-Min|. It is zero iff all observed points coincide.
func (b BoundingBox) Diagonal() float64 {
	return b.Size().Len()
}

// Contains reports whether p lies inside the box (inclusive).
func (b BoundingBox) Contains(p math3d.Vec3) bool {
	return b.valid &&
		p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
