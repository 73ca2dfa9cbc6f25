package models

import (
	"fmt"

	"github.com/fogleman/simplify"
)

// Simplify returns a decimated copy of m with roughly factor times as many
// triangles, using quadric error metrics. Sub-mesh boundaries are not
// preserved; the result has a single sub-mesh. A factor outside (0, 1)
// returns m unchanged.
func Simplify(m *Mesh, factor float64) (*Mesh, error) {
	if factor <= 0 || factor >= 1 {
		return m, nil
	}

	tris := make([]*simplify.Triangle, 0, m.TriangleCount())
	for i := range m.TriangleCount() {
		t := m.Triangle(i)
		a, b, c := m.Vertices[t[0]].Position, m.Vertices[t[1]].Position, m.Vertices[t[2]].Position
		tris = append(tris, simplify.NewTriangle(
			simplify.Vector{X: a.X, Y: a.Y, Z: a.Z},
			simplify.Vector{X: b.X, Y: b.Y, Z: b.Z},
			simplify.Vector{X: c.X, Y: c.Y, Z: c.Z},
		))
	}

	out, err := fromSimplifyMesh(m.Name, simplify.NewMesh(tris).Simplify(factor))
	if err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}
	return out, nil
}
