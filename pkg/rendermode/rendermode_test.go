package rendermode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/pkg/input"
)

func TestInitialModeIsSolid(t *testing.T) {
	c := NewController(input.DefaultBindings())
	assert.Equal(t, Solid, c.Mode())
}

func TestToggleCycles(t *testing.T) {
	c := NewController(input.DefaultBindings())
	assert.Equal(t, Wireframe, c.Toggle())
	assert.Equal(t, Solid, c.Toggle())

	for i := range 7 {
		c.Toggle()
		want := Mode((i + 1) % NumModes)
		assert.Equal(t, want, c.Mode())
	}
}

func TestHandleEvent(t *testing.T) {
	c := NewController(input.DefaultBindings())

	assert.True(t, c.HandleEvent(input.KeyPress("x", false)))
	assert.Equal(t, Wireframe, c.Mode())

	// Holding the key must not flicker between modes.
	assert.True(t, c.HandleEvent(input.KeyPress("x", true)))
	assert.True(t, c.HandleEvent(input.KeyPress("x", true)))
	assert.Equal(t, Wireframe, c.Mode())

	assert.True(t, c.HandleEvent(input.KeyRelease("x")))
	assert.Equal(t, Wireframe, c.Mode())

	assert.True(t, c.HandleEvent(input.KeyPress("x", false)))
	assert.Equal(t, Solid, c.Mode())

	assert.False(t, c.HandleEvent(input.KeyPress("w", false)))
	assert.False(t, c.HandleEvent(input.MousePress(input.ButtonLeft, 0, 0)))
	assert.Equal(t, Solid, c.Mode())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"solid", Solid},
		{"", Solid},
		{"Wireframe", Wireframe},
		{"wire", Wireframe},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := Parse("points")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "solid", Solid.String())
	assert.Equal(t, "wireframe", Wireframe.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
