// Package rendermode tracks whether the mesh is drawn filled or as
// wireframe.
package rendermode

import (
	"fmt"
	"strings"

	"github.com/taigrr/meshview/pkg/input"
)

// Mode selects one of the precompiled render pipelines.
type Mode uint32

const (
	Solid Mode = iota
	Wireframe

	NumModes = 2
)

func (m Mode) String() string {
	switch m {
	case Solid:
		return "solid"
	case Wireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// Parse returns the mode with the given name.
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid", "":
		return Solid, nil
	case "wireframe", "wire":
		return Wireframe, nil
	}
	return Solid, fmt.Errorf("unknown render mode %q", s)
}

// Controller holds the current mode and cycles it on the toggle key.
type Controller struct {
	mode     Mode
	bindings input.Bindings
}

// NewController returns a controller starting in Solid.
func NewController(b input.Bindings) *Controller {
	return &Controller{bindings: b}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Set forces a mode.
func (c *Controller) Set(m Mode) {
	c.mode = m % NumModes
}

// Toggle advances to the next mode and returns it.
func (c *Controller) Toggle() Mode {
	c.mode = (c.mode + 1) % NumModes
	return c.mode
}

// HandleEvent toggles on a fresh press of the toggle key. Auto-repeat is
// ignored. It reports whether the event was consumed.
func (c *Controller) HandleEvent(ev input.Event) bool {
	if ev.Kind != input.KeyDown && ev.Kind != input.KeyUp {
		return false
	}
	if c.bindings.Action(ev.Key) != input.ActionToggleMode {
		return false
	}
	if ev.Kind == input.KeyDown && !ev.Repeat {
		c.Toggle()
	}
	return true
}
