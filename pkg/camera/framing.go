package camera

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// minFar is the smallest far plane Frame picks.
const minFar = 100

// Frame returns a camera that looks down -Z at the center of box from one
// diagonal away, orbiting the box center. The far plane grows with the
// model; the near plane shrinks for tiny models. A zero Speed in opts is
// replaced by one hundredth of the diagonal.
func Frame(box models.BoundingBox, opts Options) (*Camera, error) {
	diag := box.Diagonal()
	zoom := diag
	if zoom == 0 {
		zoom = 1
	}

	opts.ZFar = math.Max(math.Max(minFar, opts.ZFar), 2*diag)
	if diag > 0 {
		opts.ZNear = math.Min(opts.ZNear, diag/100)
	}
	if opts.Speed == 0 {
		opts.Speed = zoom / 100
	}

	pos := box.Center().Add(math3d.Back().Scale(zoom))
	return NewCamera(math3d.Translate(pos), zoom, opts)
}
