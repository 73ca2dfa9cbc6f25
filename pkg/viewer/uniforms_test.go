package viewer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/render"
)

func f32(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func TestUniformsLayout(t *testing.T) {
	u := Uniforms{ViewProj: math3d.Translate(math3d.V3(1, 2, 3)).Float32(), Mode: 1}
	b, err := u.MarshalBinary()
	require.NoError(t, err)

	require.Len(t, b, render.UniformSize)
	assert.Equal(t, float32(1), f32(b, 0))
	assert.Equal(t, float32(1), f32(b, 12))
	assert.Equal(t, float32(3), f32(b, 14))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[render.UniformModeOffset:]))
	assert.Equal(t, make([]byte, render.UniformSize-render.UniformModeOffset-4), b[render.UniformModeOffset+4:])
}

func TestPackMesh(t *testing.T) {
	m := testMesh(t)

	vb := PackVertices(m)
	require.Len(t, vb, len(m.Vertices)*render.VertexStride)
	v := m.Vertices[2]
	off := 2 * render.VertexStride / 4
	assert.Equal(t, float32(v.Position.X), f32(vb, off))
	assert.Equal(t, float32(v.Position.Y), f32(vb, off+1))
	assert.Equal(t, float32(v.Normal.Z), f32(vb, off+5))

	ib := PackIndices(m)
	require.Len(t, ib, len(m.Indices)*render.IndexSize)
	for i, want := range m.Indices {
		assert.Equal(t, want, binary.LittleEndian.Uint32(ib[i*4:]))
	}
}
