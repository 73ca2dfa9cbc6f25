package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/meshview/pkg/camera"
	"github.com/taigrr/meshview/pkg/input"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/rendermode"
)

// Status is the lifecycle state of a Loop.
type Status int

const (
	Running Status = iota
	// Exiting is terminal; a Loop never leaves it.
	Exiting
)

func (s Status) String() string {
	if s == Exiting {
		return "exiting"
	}
	return "running"
}

// Options configure a Loop. All fields are optional.
type Options struct {
	Logger   *zap.Logger
	Bindings input.Bindings
	// Inertia keeps the orbit turning after a drag ends.
	Inertia *camera.Inertia
	// AfterPresent runs after every presented frame, for overlays.
	AfterPresent func(*State)
}

// Loop owns the viewer state and the GPU resources of the mesh. It is
// driven from a single goroutine.
type Loop struct {
	State *State

	backend  Backend
	log      *zap.Logger
	bindings input.Bindings
	inertia  *camera.Inertia
	after    func(*State)

	status     Status
	vertices   render.BufferID
	indices    render.BufferID
	uniforms   render.BufferID
	indexCount int

	frames  int
	skipped int
}

// NewLoop uploads the mesh and configures the backend at its current size.
func NewLoop(state *State, backend Backend, opts Options) (*Loop, error) {
	l := &Loop{
		State:    state,
		backend:  backend,
		log:      opts.Logger,
		bindings: opts.Bindings,
		inertia:  opts.Inertia,
		after:    opts.AfterPresent,
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	if l.bindings.Keys == nil {
		l.bindings = input.DefaultBindings()
	}

	var err error
	mesh := state.Mesh
	if l.vertices, err = backend.CreateBuffer(mesh.Name+" vertices", render.UsageVertex, PackVertices(mesh)); err != nil {
		return nil, fmt.Errorf("upload vertices: %w", err)
	}
	if l.indices, err = backend.CreateBuffer(mesh.Name+" indices", render.UsageIndex, PackIndices(mesh)); err != nil {
		return nil, fmt.Errorf("upload indices: %w", err)
	}
	if l.uniforms, err = backend.CreateBuffer("uniforms", render.UsageUniform|render.UsageCopyDst, make([]byte, render.UniformSize)); err != nil {
		return nil, fmt.Errorf("create uniforms: %w", err)
	}
	l.indexCount = len(mesh.Indices)

	if w, h := backend.Size(); w > 0 && h > 0 {
		if err := l.configure(w, h); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Status returns the loop state.
func (l *Loop) Status() Status {
	return l.status
}

// Frames returns how many frames were presented.
func (l *Loop) Frames() int {
	return l.frames
}

// Skipped returns how many redraws ended without a presented frame.
func (l *Loop) Skipped() int {
	return l.skipped
}

// configure resizes the surface and the camera aspect. Only running out of
// memory is returned; other failures are logged and retried on the next
// lost surface.
func (l *Loop) configure(width, height int) error {
	l.State.Camera.SetAspect(width, height)
	err := l.backend.Configure(width, height)
	switch {
	case err == nil:
		l.log.Debug("surface configured", zap.Int("width", width), zap.Int("height", height))
		return nil
	case errors.Is(err, render.ErrOutOfMemory):
		return err
	default:
		l.log.Warn("configure surface", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		return nil
	}
}

// HandleEvent applies one input event. It returns an error only when the
// backend runs out of memory on resize.
func (l *Loop) HandleEvent(ev input.Event) error {
	if l.status != Running {
		return nil
	}

	switch ev.Kind {
	case input.CloseRequested:
		l.exit("close requested")
		return nil

	case input.Resize:
		if ev.Width <= 0 || ev.Height <= 0 {
			return nil
		}
		l.log.Debug("resize", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
		return l.configure(ev.Width, ev.Height)

	case input.KeyDown:
		switch l.bindings.Action(ev.Key) {
		case input.ActionExit:
			l.exit("exit key")
			return nil
		case input.ActionToggleHUD:
			if !ev.Repeat {
				l.State.ShowHUD = !l.State.ShowHUD
			}
			return nil
		}
	}

	before := l.State.Modes.Mode()
	if l.State.Modes.HandleEvent(ev) {
		if m := l.State.Modes.Mode(); m != before {
			l.log.Debug("render mode", zap.Stringer("mode", m))
		}
		return nil
	}
	if ev.Kind == input.KeyDown && l.bindings.Action(ev.Key) == input.ActionReset && l.inertia != nil {
		l.inertia.Stop()
	}
	l.State.Camera.HandleEvent(ev)
	return nil
}

func (l *Loop) exit(reason string) {
	l.log.Debug("exiting", zap.String("reason", reason))
	l.status = Exiting
}

// Redraw advances the camera by one frame and draws the mesh. Out of
// memory and a degenerate camera are returned; other backend failures skip
// the frame.
func (l *Loop) Redraw() error {
	if l.status != Running {
		return nil
	}
	st := l.State
	cam := st.Camera

	if l.inertia != nil {
		l.inertia.Step(&cam.Input)
	}
	cam.Update()

	viewProj, err := cam.ViewProjection()
	if err != nil {
		return fmt.Errorf("redraw: %w", err)
	}
	mode := st.Modes.Mode()
	u, err := Uniforms{ViewProj: viewProj.Float32(), Mode: uint32(mode)}.MarshalBinary()
	if err != nil {
		return fmt.Errorf("redraw: %w", err)
	}
	if err := l.backend.WriteBuffer(l.uniforms, 0, u); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}

	frame, err := l.backend.AcquireFrame()
	switch {
	case errors.Is(err, render.ErrSurfaceLost):
		l.skipped++
		w, h := l.backend.Size()
		l.log.Warn("surface lost, reconfiguring", zap.Int("width", w), zap.Int("height", h))
		if w <= 0 || h <= 0 {
			return nil
		}
		return l.configure(w, h)
	case errors.Is(err, render.ErrOutOfMemory):
		return fmt.Errorf("acquire frame: %w", err)
	case err != nil:
		l.skipped++
		l.log.Warn("frame skipped", zap.Error(err))
		return nil
	}

	if err := l.draw(frame, mode); err != nil {
		l.skipped++
		l.log.Warn("frame skipped", zap.Error(err))
		return nil
	}
	l.frames++
	if l.after != nil {
		l.after(st)
	}
	return nil
}

func (l *Loop) draw(frame render.Frame, mode rendermode.Mode) error {
	if err := frame.SetPipeline(render.PipelineID(mode)); err != nil {
		return err
	}
	if err := frame.SetUniforms(l.uniforms); err != nil {
		return err
	}
	if err := frame.DrawIndexed(l.vertices, l.indices, l.indexCount); err != nil {
		return err
	}
	return frame.Present()
}

// Run handles events and redraws on every tick until the loop exits, the
// event channel closes, or ctx is done. Events already queued when a tick
// arrives are handled before the redraw.
func (l *Loop) Run(ctx context.Context, events <-chan input.Event, ticks <-chan time.Time) error {
	for l.status == Running {
		select {
		case <-ctx.Done():
			l.exit("context done")
		case ev, ok := <-events:
			if !ok {
				l.exit("event source closed")
				break
			}
			if err := l.HandleEvent(ev); err != nil {
				return err
			}
		case <-ticks:
			if err := l.drain(events); err != nil {
				return err
			}
			if err := l.Redraw(); err != nil {
				return err
			}
		}
	}
	return nil
}

// drain handles every event that is ready without blocking.
func (l *Loop) drain(events <-chan input.Event) error {
	for l.status == Running {
		select {
		case ev, ok := <-events:
			if !ok {
				l.exit("event source closed")
				return nil
			}
			if err := l.HandleEvent(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}
