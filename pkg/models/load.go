package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Format identifies a supported model file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatOBJ
	FormatGLTF
	FormatGLB
	FormatSTL
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatGLTF:
		return "gltf"
	case FormatGLB:
		return "glb"
	case FormatSTL:
		return "stl"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat is returned when the file is not a model format the
// loader understands.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoadError describes a failed Load.
type LoadError struct {
	Path string
	Op   string // "detect", "read" or "simplify"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options control Load.
type Options struct {
	// Simplify in (0, 1) decimates the mesh to that fraction of its
	// triangles. Zero disables decimation.
	Simplify float64
}

var glbType = filetype.NewType("glb", "model/gltf-binary")

func init() {
	filetype.AddMatcher(glbType, func(buf []byte) bool {
		return len(buf) >= 4 && string(buf[:4]) == "glTF"
	})
}

// sniffLen covers the GLB magic and the binary STL header plus triangle
// count.
const sniffLen = 84

// DetectFormat determines the format of the file at path from its contents,
// falling back to the file extension for text formats.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	head = head[:n]

	kind, _ := filetype.Match(head)
	switch kind {
	case glbType:
		return FormatGLB, nil
	case filetype.Unknown:
	default:
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return FormatOBJ, nil
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	case ".stl":
		return FormatSTL, nil
	}

	if st, err := f.Stat(); err == nil && isBinarySTLHeader(head, st.Size()) {
		return FormatSTL, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// isBinarySTLHeader reports whether the triangle count in an 84-byte STL
// header accounts for the whole file.
func isBinarySTLHeader(head []byte, size int64) bool {
	if len(head) < sniffLen {
		return false
	}
	count := binary.LittleEndian.Uint32(head[80:84])
	return count > 0 && size == sniffLen+int64(count)*50
}

// Load reads the model at path into a single indexed triangle mesh.
func Load(path string, opts Options) (*Mesh, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "detect", Err: err}
	}

	var mesh *Mesh
	switch format {
	case FormatOBJ:
		mesh, err = LoadOBJ(path)
	case FormatGLTF, FormatGLB:
		mesh, err = LoadGLTF(path)
	case FormatSTL:
		mesh, err = LoadSTL(path)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read " + format.String(), Err: err}
	}

	if opts.Simplify > 0 {
		mesh, err = Simplify(mesh, opts.Simplify)
		if err != nil {
			return nil, &LoadError{Path: path, Op: "simplify", Err: err}
		}
	}
	return mesh, nil
}
