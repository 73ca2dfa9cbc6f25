// Package camera implements the viewer's orbit camera: a rigid
// camera-to-world transform driven by accumulated mouse and keyboard input.
package camera

import (
	"errors"
	"fmt"

	"github.com/taigrr/meshview/pkg/input"
	"github.com/taigrr/meshview/pkg/math3d"
)

// ErrDegenerateTransform is returned when the camera transform cannot be
// inverted into a view matrix.
var ErrDegenerateTransform = errors.New("camera transform is not invertible")

// MaxZoom is the largest orbit distance Update allows.
const MaxZoom = 1e9

// Options configure a Camera. Angles are in degrees.
type Options struct {
	FovY   float64
	ZNear  float64
	ZFar   float64
	Aspect float64

	// LookSensitivity is degrees of rotation per cursor unit.
	LookSensitivity         float64
	ZoomSensitivity         float64
	TrackpadZoomSensitivity float64
	// Speed is the pan distance per frame; 0 picks one from the model size
	// when framing.
	Speed   float64
	MinZoom float64

	Bindings input.Bindings
}

// DefaultOptions returns the stock camera settings.
func DefaultOptions() Options {
	return Options{
		FovY:                    70,
		ZNear:                   0.1,
		ZFar:                    100,
		Aspect:                  1,
		LookSensitivity:         2,
		ZoomSensitivity:         0.9,
		TrackpadZoomSensitivity: 0.8,
		MinZoom:                 1e-6,
		Bindings:                input.DefaultBindings(),
	}
}

// Camera is a perspective camera orbiting a pivot Zoom units in front of
// it.
type Camera struct {
	// Transform is camera-to-world. Its rotation block stays orthonormal.
	Transform math3d.Mat4

	FovY   float64
	Aspect float64
	ZNear  float64
	ZFar   float64
	Zoom   float64

	LookSensitivity float64
	Speed           float64
	MinZoom         float64

	Input    Accumulator
	Bindings input.Bindings

	home     math3d.Mat4
	homeZoom float64
}

// NewCamera validates opts and returns a camera at transform, orbiting a
// pivot zoom units in front of it.
func NewCamera(transform math3d.Mat4, zoom float64, opts Options) (*Camera, error) {
	switch {
	case !(zoom > 0):
		return nil, fmt.Errorf("zoom must be positive, got %g", zoom)
	case !(opts.Aspect > 0):
		return nil, fmt.Errorf("aspect must be positive, got %g", opts.Aspect)
	case !(opts.FovY > 0 && opts.FovY < 180):
		return nil, fmt.Errorf("fovy must be in (0, 180), got %g", opts.FovY)
	case !(opts.ZNear > 0):
		return nil, fmt.Errorf("znear must be positive, got %g", opts.ZNear)
	case !(opts.ZFar > opts.ZNear):
		return nil, fmt.Errorf("zfar must exceed znear, got %g <= %g", opts.ZFar, opts.ZNear)
	case !transform.IsOrthonormal(1e-6):
		return nil, fmt.Errorf("transform rotation is not orthonormal")
	}
	if opts.MinZoom <= 0 {
		opts.MinZoom = DefaultOptions().MinZoom
	}

	return &Camera{
		Transform:       transform,
		FovY:            opts.FovY,
		Aspect:          opts.Aspect,
		ZNear:           opts.ZNear,
		ZFar:            opts.ZFar,
		Zoom:            zoom,
		LookSensitivity: opts.LookSensitivity,
		Speed:           opts.Speed,
		MinZoom:         opts.MinZoom,
		Input:           NewAccumulator(opts.ZoomSensitivity, opts.TrackpadZoomSensitivity),
		Bindings:        opts.Bindings,
		home:            transform,
		homeZoom:        zoom,
	}, nil
}

// Position returns the camera position in world space.
func (c *Camera) Position() math3d.Vec3 {
	return c.Transform.Translation()
}

// Pivot returns the point the camera orbits.
func (c *Camera) Pivot() math3d.Vec3 {
	return c.Position().Sub(c.Transform.Column(2).Scale(c.Zoom))
}

// Update applies and clears the accumulated input. It runs once per frame.
//
// Orbit yaws about the world Y axis first and then tilts about the camera's
// own X axis. Panning moves the camera but not the stored zoom distance, so
// the pivot drifts with it.
func (c *Camera) Update() {
	look, zoomFactor := c.Input.take()

	rot := c.Transform.Rotation()
	pivot := c.Transform.Translation().Sub(rot.Column(2).Scale(c.Zoom))

	ls := math3d.Radians(c.LookSensitivity)
	rot = math3d.RotateY(-look.X * ls).
		Mul(rot).
		Mul(math3d.RotateX(-look.Y * ls)).
		Orthonormalize()

	zoom := c.Zoom * zoomFactor
	if !(zoom >= c.MinZoom) {
		zoom = c.MinZoom
	} else if zoom > MaxZoom {
		zoom = MaxZoom
	}

	pan := rot.MulVec3Dir(c.Input.Pan()).Scale(c.Speed)
	pos := pivot.Add(rot.Column(2).Scale(zoom)).Add(pan)

	c.Transform = math3d.Translate(pos).Mul(rot)
	c.Zoom = zoom
}

// View returns the world-to-camera matrix.
func (c *Camera) View() (math3d.Mat4, error) {
	inv, ok := c.Transform.Invert()
	if !ok {
		return math3d.Mat4{}, ErrDegenerateTransform
	}
	return inv, nil
}

// Projection returns the perspective projection.
func (c *Camera) Projection() math3d.Mat4 {
	return math3d.Perspective(math3d.Radians(c.FovY), c.Aspect, c.ZNear, c.ZFar)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() (math3d.Mat4, error) {
	view, err := c.View()
	if err != nil {
		return math3d.Mat4{}, err
	}
	return c.Projection().Mul(view), nil
}

// SetAspect sets the aspect ratio from a surface size. Zero-area sizes are
// ignored.
func (c *Camera) SetAspect(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float64(width) / float64(height)
	return true
}

// Reset returns the camera to where it was created and drops pending input.
func (c *Camera) Reset() {
	c.Transform = c.home
	c.Zoom = c.homeZoom
	c.Input.take()
}

// HandleEvent feeds an input event to the accumulator through the
// bindings. It reports whether the camera consumed the event.
func (c *Camera) HandleEvent(ev input.Event) bool {
	switch ev.Kind {
	case input.KeyDown, input.KeyUp:
		action := c.Bindings.Action(ev.Key)
		if action == input.ActionReset {
			if ev.Kind == input.KeyDown && !ev.Repeat {
				c.Reset()
			}
			return true
		}
		if !action.IsPan() {
			return false
		}
		c.Input.SetPan(Axis(action-input.ActionForward), ev.Kind == input.KeyDown)
		return true

	case input.MouseDown, input.MouseUp:
		if ev.Button != c.Bindings.Orbit {
			return false
		}
		c.Input.MoveCursor(float64(ev.X), float64(ev.Y))
		c.Input.SetDragging(ev.Kind == input.MouseDown)
		return true

	case input.MouseMove:
		c.Input.MoveCursor(float64(ev.X), float64(ev.Y))
		return true

	case input.Scroll:
		c.Input.Scroll(ev.Delta)
		return true

	case input.Magnify:
		c.Input.Magnify(ev.Delta)
		return true
	}
	return false
}
