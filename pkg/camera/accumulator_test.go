package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/meshview/pkg/math3d"
)

func TestAccumulatorZoomFactor(t *testing.T) {
	a := NewAccumulator(0.9, 0.8)
	assert.Equal(t, 1.0, a.ZoomFactor())

	a.Scroll(1)
	a.Scroll(1)
	assert.InDelta(t, 0.81, a.ZoomFactor(), 1e-12)

	a.Magnify(1)
	assert.InDelta(t, 0.648, a.ZoomFactor(), 1e-12)

	look, zf := a.take()
	assert.InDelta(t, 0.648, zf, 1e-12)
	assert.Equal(t, math3d.Vec2{}, look)
	assert.Equal(t, 1.0, a.ZoomFactor())
}

func TestAccumulatorLookOnlyWhileDragging(t *testing.T) {
	a := NewAccumulator(0.9, 0.8)

	a.MoveCursor(10, 10)
	a.MoveCursor(20, 30)
	assert.Equal(t, math3d.Vec2{}, a.Look())

	a.SetDragging(true)
	a.MoveCursor(25, 28)
	a.MoveCursor(26, 28)
	assert.Equal(t, math3d.V2(6, -2), a.Look())

	a.take()
	assert.Equal(t, math3d.Vec2{}, a.Look())
	assert.True(t, a.Dragging(), "drag state survives a frame")
}

func TestAccumulatorFirstCursorHasNoDelta(t *testing.T) {
	a := NewAccumulator(0.9, 0.8)
	a.SetDragging(true)
	a.MoveCursor(100, 100)
	assert.Equal(t, math3d.Vec2{}, a.Look())
}

func TestAccumulatorPan(t *testing.T) {
	a := NewAccumulator(0.9, 0.8)
	assert.Equal(t, math3d.Zero3(), a.Pan())

	a.SetPan(AxisLeft, true)
	a.SetPan(AxisRight, true)
	assert.Equal(t, math3d.Zero3(), a.Pan(), "opposite axes cancel")

	a.SetPan(AxisRight, false)
	a.SetPan(AxisUp, true)
	a.SetPan(AxisForward, true)
	assert.Equal(t, math3d.V3(-1, 1, -1), a.Pan())

	a.SetPan(Axis(42), true)
	assert.False(t, a.Panning(Axis(42)))
}

func TestInertiaCoastsAndStops(t *testing.T) {
	a := NewAccumulator(0.9, 0.8)
	in := NewInertia(60, 4, 1)

	a.SetDragging(true)
	a.MoveCursor(0, 0)
	a.MoveCursor(10, 0)
	in.Step(&a)
	a.take()
	assert.True(t, in.Coasting())

	a.SetDragging(false)
	var total float64
	prev := 10.0
	for range 600 {
		in.Step(&a)
		look, _ := a.take()
		assert.LessOrEqual(t, look.X, prev+1e-9)
		assert.GreaterOrEqual(t, look.X, 0.0)
		prev = look.X
		total += look.X
		if !in.Coasting() {
			break
		}
	}
	assert.False(t, in.Coasting())
	assert.Greater(t, total, 10.0)
}

func TestInertiaIdleWithoutDrag(t *testing.T) {
	a := NewAccumulator(0.9, 0.8)
	in := NewInertia(60, 4, 1)
	in.Step(&a)
	assert.Equal(t, math3d.Vec2{}, a.Look())
	assert.False(t, in.Coasting())
}
