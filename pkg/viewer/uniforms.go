package viewer

import (
	"encoding/binary"
	"math"

	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
)

// Uniforms is the per-frame uniform block.
type Uniforms struct {
	ViewProj [16]float32 // Column-major
	Mode     uint32
}

// MarshalBinary packs u in the backend's uniform layout.
func (u Uniforms) MarshalBinary() ([]byte, error) {
	b := make([]byte, render.UniformSize)
	for i, f := range u.ViewProj {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(b[render.UniformModeOffset:], u.Mode)
	return b, nil
}

// PackVertices interleaves positions and normals as little-endian float32.
func PackVertices(m *models.Mesh) []byte {
	b := make([]byte, 0, len(m.Vertices)*render.VertexStride)
	for _, v := range m.Vertices {
		for _, f := range [6]float64{v.Position.X, v.Position.Y, v.Position.Z, v.Normal.X, v.Normal.Y, v.Normal.Z} {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(f)))
		}
	}
	return b
}

// PackIndices encodes the index list as little-endian uint32.
func PackIndices(m *models.Mesh) []byte {
	b := make([]byte, 0, len(m.Indices)*render.IndexSize)
	for _, i := range m.Indices {
		b = binary.LittleEndian.AppendUint32(b, i)
	}
	return b
}
