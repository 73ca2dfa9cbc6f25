package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/pkg/math3d"
)

// writeGLB saves a document with one indexed quad and one non-indexed
// triangle.
func writeGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()

	quadPos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	quadNorm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	quadIdx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})
	triPos := modeler.WritePosition(doc, [][3]float32{{0, 0, -2}, {1, 0, -2}, {0, 1, -2}})

	doc.Meshes = []*gltf.Mesh{
		{
			Name: "quad",
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(quadIdx),
				Attributes: map[string]int{gltf.POSITION: quadPos, gltf.NORMAL: quadNorm},
			}},
		},
		{
			Name: "tri",
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]int{gltf.POSITION: triPos},
			}},
		},
	}

	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTF(t *testing.T) {
	m, err := LoadGLTF(writeGLB(t))
	require.NoError(t, err)

	assert.Equal(t, "scene.glb", m.Name)
	assert.Equal(t, 3, m.TriangleCount())
	assert.Equal(t, 7, m.VertexCount())
	require.Len(t, m.SubMeshes, 2)
	assert.Equal(t, "quad", m.SubMeshes[0].Name)
	assert.Equal(t, 4, m.SubMeshes[1].BaseVertex)
	assert.Equal(t, []uint32{4, 5, 6}, m.Indices[6:])

	assert.Equal(t, math3d.V3(0, 0, -2), m.Bounds.Min)
	assert.Equal(t, math3d.V3(1, 1, 0), m.Bounds.Max)

	// The non-indexed triangle had no normals; it is CCW seen from +Z.
	for _, v := range m.Vertices[4:] {
		assert.True(t, v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9))
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	assert.Error(t, err)
}
