package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/pkg/rendermode"
)

const tetraOBJ = `o tetra
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 3 2
f 1 2 4
f 1 4 3
f 2 3 4
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tetra.obj")
	require.NoError(t, os.WriteFile(path, []byte(tetraOBJ), 0o644))
	return path
}

func TestLoadScene(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Mode = "wireframe"

	sc, err := loadScene(writeModel(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, sc.state.Mesh.TriangleCount())
	assert.Equal(t, rendermode.Wireframe, sc.state.Modes.Mode())
	assert.InDelta(t, sc.state.Mesh.Bounds.Diagonal(), sc.state.Camera.Zoom, 1e-9)
	assert.NotNil(t, sc.inertia)
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := loadScene(filepath.Join(t.TempDir(), "nope.obj"), config.Default())
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	cfg := config.Default()
	sc, err := loadScene(writeModel(t), cfg)
	require.NoError(t, err)
	opts, err := cfg.ContextOptions()
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, snapshot(sc, opts, out, "64x48"))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	assert.Error(t, snapshot(sc, opts, out, "wide"))
}

func TestHUD(t *testing.T) {
	sc, err := loadScene(writeModel(t), config.Default())
	require.NoError(t, err)

	var buf bytes.Buffer
	hud := NewHUD(&buf, "tetra.obj", 4)

	hud.Render(80, 24, sc.state)
	assert.NotContains(t, buf.String(), "tetra.obj", "hidden HUD only clears its rows")

	buf.Reset()
	sc.state.ShowHUD = true
	sc.state.Modes.Set(rendermode.Wireframe)
	hud.Render(80, 24, sc.state)
	out := buf.String()
	for _, want := range []string{"tetra.obj", "4 tris", "[✓] X-Ray", "FPS"} {
		assert.True(t, strings.Contains(out, want), "HUD missing %q", want)
	}
}
