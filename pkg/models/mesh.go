// Package models loads polygonal models into a single indexed triangle mesh.
package models

import (
	"github.com/taigrr/meshview/pkg/math3d"
)

// Mesh is a combined vertex/index buffer description of a loaded model.
// Triangles use CCW winding for front faces. A Mesh is not modified after
// Load returns it.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32 // Triangle list into Vertices
	SubMeshes []SubMesh

	// Bounds spans every vertex position.
	Bounds BoundingBox
}

// Vertex holds the attributes uploaded to the renderer.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// SubMesh records where one object/primitive of the source file ended up in
// the combined buffers.
type SubMesh struct {
	Name       string
	BaseVertex int // Offset added to the sub-mesh's own indices
	FirstIndex int
	IndexCount int
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the three vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// fillMissingNormals assigns area-weighted smooth normals to vertices whose
// normal is zero. Vertices that already carry a normal are left untouched.
func fillMissingNormals(vertices []Vertex, indices []uint32) {
	missing := false
	for _, v := range vertices {
		if v.Normal.LenSq() == 0 {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	acc := make([]math3d.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := vertices[i0].Position
		edge1 := vertices[i1].Position.Sub(p0)
		edge2 := vertices[i2].Position.Sub(p0)
		// Unnormalized cross product weights by triangle area.
		n := edge1.Cross(edge2)
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}

	for i := range vertices {
		if vertices[i].Normal.LenSq() == 0 {
			vertices[i].Normal = acc[i].Normalize()
		}
	}
}
