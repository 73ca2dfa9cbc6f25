// Package viewer runs the frame loop: it routes input to the camera and
// render mode, and drives an injected rendering backend once per tick.
package viewer

import (
	"github.com/taigrr/meshview/pkg/camera"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/rendermode"
)

// State is everything the loop mutates apart from the backend.
type State struct {
	Camera  *camera.Camera
	Mesh    *models.Mesh
	Modes   *rendermode.Controller
	ShowHUD bool
}
