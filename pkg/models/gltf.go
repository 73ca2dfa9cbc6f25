package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/meshview/pkg/math3d"
)

// LoadGLTF loads a .gltf or .glb file. Every triangle primitive of every
// mesh becomes one sub-mesh. Node transforms are not applied.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	b := NewBuilder(filepath.Base(path))
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			name := m.Name
			if name == "" {
				name = fmt.Sprintf("mesh%d", mi)
			}
			if len(m.Primitives) > 1 {
				name = fmt.Sprintf("%s.%d", name, pi)
			}

			vertices, indices, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			if err := b.AddSubMesh(name, vertices, indices); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("read normals: %w", err)
		}
		if len(normals) != len(positions) {
			normals = nil
		}
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
		if normals != nil {
			n := normals[i]
			vertices[i].Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2])).Normalize()
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions)-len(positions)%3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	// Trailing partial triangle is dropped.
	indices = indices[:len(indices)-len(indices)%3]
	return vertices, indices, nil
}
