package camera

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Axis is one of the six pan directions.
type Axis int

const (
	AxisForward Axis = iota
	AxisBack
	AxisLeft
	AxisRight
	AxisUp
	AxisDown
	numAxes
)

// Accumulator collects input between frames. Pan axes are level-triggered
// and persist across frames; the look delta and zoom factor are consumed by
// Camera.Update.
type Accumulator struct {
	ZoomSensitivity         float64
	TrackpadZoomSensitivity float64

	pan        [numAxes]bool
	look       math3d.Vec2
	zoomFactor float64
	dragging   bool
	cursor     math3d.Vec2
	hasCursor  bool
}

// NewAccumulator returns an accumulator with a neutral zoom factor.
func NewAccumulator(zoomSensitivity, trackpadZoomSensitivity float64) Accumulator {
	return Accumulator{
		ZoomSensitivity:         zoomSensitivity,
		TrackpadZoomSensitivity: trackpadZoomSensitivity,
		zoomFactor:              1,
	}
}

// SetPan marks a pan axis as held or released.
func (a *Accumulator) SetPan(axis Axis, pressed bool) {
	if axis >= 0 && axis < numAxes {
		a.pan[axis] = pressed
	}
}

// Panning reports whether a pan axis is held.
func (a *Accumulator) Panning(axis Axis) bool {
	return axis >= 0 && axis < numAxes && a.pan[axis]
}

// Pan returns the camera-local pan direction
// ((right-left), (up-down), (back-forward)).
func (a *Accumulator) Pan() math3d.Vec3 {
	return math3d.V3(
		b2f(a.pan[AxisRight])-b2f(a.pan[AxisLeft]),
		b2f(a.pan[AxisUp])-b2f(a.pan[AxisDown]),
		b2f(a.pan[AxisBack])-b2f(a.pan[AxisForward]),
	)
}

// SetDragging starts or stops an orbit drag.
func (a *Accumulator) SetDragging(dragging bool) {
	a.dragging = dragging
}

// Dragging reports whether the orbit button is held.
func (a *Accumulator) Dragging() bool {
	return a.dragging
}

// MoveCursor records the cursor position. While dragging, the movement
// since the previous position is added to the look delta.
func (a *Accumulator) MoveCursor(x, y float64) {
	p := math3d.V2(x, y)
	if a.dragging && a.hasCursor {
		a.look = a.look.Add(p.Sub(a.cursor))
	}
	a.cursor = p
	a.hasCursor = true
}

// AddLook adds to the pending look delta directly.
func (a *Accumulator) AddLook(d math3d.Vec2) {
	a.look = a.look.Add(d)
}

// Scroll zooms by ZoomSensitivity per line; positive lines zoom in.
func (a *Accumulator) Scroll(lines float64) {
	a.zoomFactor *= math.Pow(a.ZoomSensitivity, lines)
}

// Magnify zooms by TrackpadZoomSensitivity per unit; positive amounts zoom
// in.
func (a *Accumulator) Magnify(amount float64) {
	a.zoomFactor *= math.Pow(a.TrackpadZoomSensitivity, amount)
}

// Look returns the pending look delta.
func (a *Accumulator) Look() math3d.Vec2 {
	return a.look
}

// ZoomFactor returns the pending zoom factor.
func (a *Accumulator) ZoomFactor() float64 {
	return a.zoomFactor
}

// take returns and clears the per-frame state.
func (a *Accumulator) take() (look math3d.Vec2, zoomFactor float64) {
	look, zoomFactor = a.look, a.zoomFactor
	a.look = math3d.Vec2{}
	a.zoomFactor = 1
	return look, zoomFactor
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
