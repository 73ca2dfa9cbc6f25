package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/simplify"
	"github.com/taigrr/meshview/pkg/math3d"
)

// LoadSTL loads a binary or ASCII STL file. STL stores unshared triangle
// corners; coincident positions are welded so smooth normals can be
// computed.
func LoadSTL(path string) (*Mesh, error) {
	name := filepath.Base(path)
	ascii, err := isASCIISTL(path)
	if err != nil {
		return nil, err
	}
	if ascii {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadASCIISTL(name, f)
	}

	sm, err := simplify.LoadBinarySTL(path)
	if err != nil {
		return nil, fmt.Errorf("read binary stl: %w", err)
	}
	return fromSimplifyMesh(name, sm)
}

// isASCIISTL reports whether the file is ASCII STL. Some exporters write
// binary files whose 80-byte header starts with "solid", so the binary size
// check takes precedence.
func isASCIISTL(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return false, err
	}
	header := make([]byte, 84)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false, err
	}
	header = header[:n]
	if n == 84 {
		count := binary.LittleEndian.Uint32(header[80:84])
		if st.Size() == 84+int64(count)*50 {
			return false, nil
		}
	}
	return bytes.HasPrefix(bytes.TrimSpace(header), []byte("solid")), nil
}

// ReadASCIISTL parses ASCII STL from r.
func ReadASCIISTL(name string, r io.Reader) (*Mesh, error) {
	w := newWelder()
	var corner []math3d.Vec3

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "vertex":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			corner = append(corner, p)
		case "endloop":
			if len(corner) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices", lineNo, len(corner))
			}
			w.triangle(corner[0], corner[1], corner[2])
			corner = corner[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return w.build(name)
}

func fromSimplifyMesh(name string, sm *simplify.Mesh) (*Mesh, error) {
	w := newWelder()
	for _, t := range sm.Triangles {
		w.triangle(fromSimplifyVector(t.V1), fromSimplifyVector(t.V2), fromSimplifyVector(t.V3))
	}
	return w.build(name)
}

func fromSimplifyVector(v simplify.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}

// welder merges triangle soup corners that share an exact position.
type welder struct {
	lookup   map[math3d.Vec3]uint32
	vertices []Vertex
	indices  []uint32
}

func newWelder() *welder {
	return &welder{lookup: make(map[math3d.Vec3]uint32)}
}

func (w *welder) triangle(a, b, c math3d.Vec3) {
	w.indices = append(w.indices, w.vertex(a), w.vertex(b), w.vertex(c))
}

func (w *welder) vertex(p math3d.Vec3) uint32 {
	if idx, ok := w.lookup[p]; ok {
		return idx
	}
	idx := uint32(len(w.vertices))
	w.vertices = append(w.vertices, Vertex{Position: p})
	w.lookup[p] = idx
	return idx
}

func (w *welder) build(name string) (*Mesh, error) {
	b := NewBuilder(name)
	if err := b.AddSubMesh(name, w.vertices, w.indices); err != nil {
		return nil, err
	}
	return b.Build()
}
