package models

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/pkg/math3d"
)

// writeBinarySTL writes triangles in the 50-byte-per-facet binary layout.
func writeBinarySTL(t *testing.T, name string, tris [][3][3]float32) string {
	t.Helper()
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "solid but actually binary")
	buf.Write(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(tris))))
	for _, tri := range tris {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{}))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, tri))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

var quadTris = [][3][3]float32{
	{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
}

func TestLoadBinarySTLWeldsCorners(t *testing.T) {
	m, err := LoadSTL(writeBinarySTL(t, "quad.stl", quadTris))
	require.NoError(t, err)

	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, math3d.V3(1, 1, 0), m.Bounds.Max)
	for _, v := range m.Vertices {
		assert.True(t, v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-6))
	}
}

func TestReadASCIISTL(t *testing.T) {
	src := `solid quad
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 1 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 1 0
    vertex 0 1 0
  endloop
endfacet
endsolid quad
`
	m, err := ReadASCIISTL("quad", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, 4, m.VertexCount())
}

func TestReadASCIISTLMalformedFacet(t *testing.T) {
	src := "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\n"
	_, err := ReadASCIISTL("x", strings.NewReader(src))
	assert.ErrorContains(t, err, "facet has 2 vertices")
}
