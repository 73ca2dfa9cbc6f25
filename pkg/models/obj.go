package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Each "o" or "g" statement starts a new
// sub-mesh; polygons are fan-triangulated.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadOBJ(filepath.Base(path), f)
}

type objCorner struct {
	v, n int // 0-based, n is -1 when absent
}

type objGroup struct {
	name     string
	lookup   map[objCorner]uint32
	vertices []Vertex
	indices  []uint32
}

// ReadOBJ parses OBJ data from r.
func ReadOBJ(name string, r io.Reader) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		groups    []*objGroup
	)
	current := &objGroup{name: "default", lookup: make(map[objCorner]uint32)}
	groups = append(groups, current)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, p)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "o", "g":
			groupName := strings.Join(fields[1:], " ")
			if len(current.indices) == 0 {
				current.name = groupName
				continue
			}
			current = &objGroup{name: groupName, lookup: make(map[objCorner]uint32)}
			groups = append(groups, current)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				c, err := parseCorner(ref, len(positions), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, current.vertex(c, positions, normals))
			}
			for i := 1; i+1 < len(corners); i++ {
				current.indices = append(current.indices, corners[0], corners[i], corners[i+1])
			}
		}
		// vt, mtllib, usemtl, s and friends carry nothing the viewer draws.
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	b := NewBuilder(name)
	for _, g := range groups {
		if err := b.AddSubMesh(g.name, g.vertices, g.indices); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func (g *objGroup) vertex(c objCorner, positions, normals []math3d.Vec3) uint32 {
	if idx, ok := g.lookup[c]; ok {
		return idx
	}
	v := Vertex{Position: positions[c.v]}
	if c.n >= 0 {
		v.Normal = normals[c.n].Normalize()
	}
	idx := uint32(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.lookup[c] = idx
	return idx
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var out [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse component %q: %w", fields[i], err)
		}
		out[i] = f
	}
	return math3d.V3(out[0], out[1], out[2]), nil
}

// parseCorner resolves a "v", "v/vt", "v//vn" or "v/vt/vn" reference.
// Negative indices count back from the most recent element.
func parseCorner(ref string, numPositions, numNormals int) (objCorner, error) {
	parts := strings.Split(ref, "/")
	v, err := resolveIndex(parts[0], numPositions)
	if err != nil {
		return objCorner{}, fmt.Errorf("vertex %q: %w", ref, err)
	}
	c := objCorner{v: v, n: -1}
	if len(parts) > 2 && parts[2] != "" {
		n, err := resolveIndex(parts[2], numNormals)
		if err != nil {
			return objCorner{}, fmt.Errorf("normal %q: %w", ref, err)
		}
		c.n = n
	}
	return c, nil
}

func resolveIndex(s string, length int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += length
	default:
		return 0, fmt.Errorf("index 0 is invalid")
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("index out of range (%d defined)", length)
	}
	return i, nil
}
