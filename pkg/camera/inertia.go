package camera

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/meshview/pkg/math3d"
)

// stopThreshold is the look delta below which coasting ends.
const stopThreshold = 1e-3

// Inertia keeps an orbit turning after the drag button is released. The
// per-frame look delta decays to zero on a harmonica spring.
type Inertia struct {
	spring harmonica.Spring
	vel    math3d.Vec2 // look delta injected per frame
	accel  math3d.Vec2 // spring velocity of vel
}

// NewInertia creates inertia stepped at fps. A damping ratio of 1 is
// critically damped.
func NewInertia(fps int, frequency, damping float64) *Inertia {
	return &Inertia{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Step runs once per frame before Camera.Update. While dragging it samples
// the frame's look delta; after release it feeds the decaying delta back
// into the accumulator.
func (in *Inertia) Step(acc *Accumulator) {
	if acc.Dragging() {
		in.vel = acc.Look()
		in.accel = math3d.Vec2{}
		return
	}
	if in.vel.IsZero() {
		return
	}

	acc.AddLook(in.vel)
	in.vel.X, in.accel.X = in.spring.Update(in.vel.X, in.accel.X, 0)
	in.vel.Y, in.accel.Y = in.spring.Update(in.vel.Y, in.accel.Y, 0)
	if in.vel.Len() < stopThreshold {
		in.Stop()
	}
}

// Stop ends any coasting.
func (in *Inertia) Stop() {
	in.vel = math3d.Vec2{}
	in.accel = math3d.Vec2{}
}

// Coasting reports whether a released drag is still turning the camera.
func (in *Inertia) Coasting() bool {
	return !in.vel.IsZero()
}
