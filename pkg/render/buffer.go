package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Buffer layouts shared with the code that fills the buffers.
const (
	// VertexStride is the size of one vertex: position then normal, each
	// three little-endian float32.
	VertexStride = 24
	// IndexSize is the size of one little-endian uint32 index.
	IndexSize = 4
	// UniformSize is the size of the uniform block: a column-major float32
	// view-projection matrix, a uint32 render mode, and padding to 16 bytes.
	UniformSize = 80
	// UniformModeOffset is the byte offset of the mode in the uniform block.
	UniformModeOffset = 64
)

var (
	// ErrInvalidBuffer is returned for unknown buffer IDs or buffers used
	// against their usage flags.
	ErrInvalidBuffer = errors.New("invalid buffer")
	// ErrOutOfRange is returned for writes or draws past the end of a buffer.
	ErrOutOfRange = errors.New("buffer access out of range")
)

// BufferUsage is a bit set of the ways a buffer may be used.
type BufferUsage uint32

const (
	UsageVertex BufferUsage = 1 << iota
	UsageIndex
	UsageUniform
	UsageCopyDst
)

func (u BufferUsage) String() string {
	s := ""
	for _, f := range []struct {
		bit  BufferUsage
		name string
	}{{UsageVertex, "vertex"}, {UsageIndex, "index"}, {UsageUniform, "uniform"}, {UsageCopyDst, "copy-dst"}} {
		if u&f.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += f.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// BufferID names a buffer created by a Context.
type BufferID int

// buffer holds raw bytes plus decoded views that are rebuilt lazily after
// writes.
type buffer struct {
	label string
	usage BufferUsage
	data  []byte

	decoded  bool
	vertices []shadedVertex
	bounds   AABB
	indices  []uint32
}

type shadedVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

func (b *buffer) write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("%w: write %d bytes at %d into %q (%d bytes)", ErrOutOfRange, len(data), offset, b.label, len(b.data))
	}
	copy(b.data[offset:], data)
	b.decoded = false
	return nil
}

func (b *buffer) vertexView() ([]shadedVertex, AABB) {
	if !b.decoded {
		b.decode()
	}
	return b.vertices, b.bounds
}

func (b *buffer) indexView() []uint32 {
	if !b.decoded {
		b.decode()
	}
	return b.indices
}

func (b *buffer) decode() {
	b.decoded = true
	if b.usage&UsageVertex != 0 {
		n := len(b.data) / VertexStride
		b.vertices = b.vertices[:0]
		for i := range n {
			off := i * VertexStride
			v := shadedVertex{
				Position: readVec3(b.data[off:]),
				Normal:   readVec3(b.data[off+12:]),
			}
			if i == 0 {
				b.bounds = AABB{Min: v.Position, Max: v.Position}
			} else {
				b.bounds.Min = b.bounds.Min.Min(v.Position)
				b.bounds.Max = b.bounds.Max.Max(v.Position)
			}
			b.vertices = append(b.vertices, v)
		}
	}
	if b.usage&UsageIndex != 0 {
		n := len(b.data) / IndexSize
		b.indices = b.indices[:0]
		for i := range n {
			b.indices = append(b.indices, binary.LittleEndian.Uint32(b.data[i*IndexSize:]))
		}
	}
}

// uniforms is the decoded uniform block.
type uniforms struct {
	viewProj math3d.Mat4
	mode     uint32
}

func (b *buffer) uniformView() (uniforms, error) {
	if len(b.data) < UniformSize {
		return uniforms{}, fmt.Errorf("%w: uniform buffer %q is %d bytes, need %d", ErrOutOfRange, b.label, len(b.data), UniformSize)
	}
	var u uniforms
	for i := range 16 {
		u.viewProj[i] = float64(readFloat32(b.data[i*4:]))
	}
	u.mode = binary.LittleEndian.Uint32(b.data[UniformModeOffset:])
	return u, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func readVec3(b []byte) math3d.Vec3 {
	return math3d.V3(float64(readFloat32(b)), float64(readFloat32(b[4:])), float64(readFloat32(b[8:])))
}
