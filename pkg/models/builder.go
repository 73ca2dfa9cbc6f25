package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyMesh is returned when a file parses but contains no triangles.
var ErrEmptyMesh = errors.New("model contains no triangles")

// Builder concatenates sub-meshes into one vertex/index buffer. Each
// sub-mesh's indices are local to its own vertex slice and are shifted by the
// running vertex count when appended.
type Builder struct {
	name      string
	vertices  []Vertex
	indices   []uint32
	subMeshes []SubMesh
	bounds    BoundingBox
}

// NewBuilder creates a builder for a mesh with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddSubMesh appends vertices and a local triangle index list. Empty
// sub-meshes are skipped.
func (b *Builder) AddSubMesh(name string, vertices []Vertex, indices []uint32) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("sub-mesh %q: index count %d is not a multiple of 3", name, len(indices))
	}
	if len(indices) == 0 || len(vertices) == 0 {
		return nil
	}

	base := len(b.vertices)
	if uint64(base)+uint64(len(vertices)) > math.MaxUint32 {
		return fmt.Errorf("sub-mesh %q: vertex count exceeds 32-bit index range", name)
	}

	// Bounds are reduced per sub-mesh and merged, so the result does not
	// depend on the order sub-meshes arrive in.
	var box BoundingBox
	for i, v := range vertices {
		if !v.Position.IsFinite() {
			return fmt.Errorf("sub-mesh %q: vertex %d has non-finite position", name, i)
		}
		box = box.Extend(v.Position)
	}

	first := len(b.indices)
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return fmt.Errorf("sub-mesh %q: index %d at position %d out of range (%d vertices)", name, idx, i, len(vertices))
		}
		b.indices = append(b.indices, idx+uint32(base))
	}

	b.vertices = append(b.vertices, vertices...)
	b.bounds = b.bounds.Union(box)
	b.subMeshes = append(b.subMeshes, SubMesh{
		Name:       name,
		BaseVertex: base,
		FirstIndex: first,
		IndexCount: len(indices),
	})
	return nil
}

// Build finalizes the mesh. Missing normals are filled in with smooth
// normals.
func (b *Builder) Build() (*Mesh, error) {
	if len(b.indices) == 0 {
		return nil, ErrEmptyMesh
	}

	fillMissingNormals(b.vertices, b.indices)

	return &Mesh{
		Name:      b.name,
		Vertices:  b.vertices,
		Indices:   b.indices,
		SubMeshes: b.subMeshes,
		Bounds:    b.bounds,
	}, nil
}
