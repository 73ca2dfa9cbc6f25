// meshview - Terminal 3D Model Viewer
// View OBJ, glTF/GLB and STL files in your terminal with an orbit camera.
//
// Controls:
//
//	Mouse drag  - Orbit around the model
//	Scroll      - Zoom in/out (ctrl+scroll for trackpad zoom)
//	W/S         - Move forward/back
//	A/D         - Move left/right
//	E/Q         - Move up/down
//	R           - Reset view
//	X           - Toggle wireframe mode (x-ray)
//	?           - Toggle HUD overlay (FPS, filename, triangle count, mode)
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/meshview/internal/config"
	"github.com/taigrr/meshview/internal/logger"
	"github.com/taigrr/meshview/pkg/camera"
	"github.com/taigrr/meshview/pkg/input"
	"github.com/taigrr/meshview/pkg/models"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/rendermode"
	"github.com/taigrr/meshview/pkg/viewer"
)

var (
	snapshotPath = flag.String("snapshot", "", "Render one frame to this PNG file instead of opening the viewer")
	snapshotSize = flag.String("snapshot-size", "320x180", "Snapshot size in pixels (WxH)")
	writeConfig  = flag.String("write-config", "", "Write the effective config to this file (.yaml or .toml) and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "meshview - Terminal 3D Model Viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: meshview [options] <model.obj|model.gltf|model.glb|model.stl>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move forward/back/left/right\n")
		fmt.Fprintf(os.Stderr, "  E/Q         - Move up/down\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := cfg.SaveTo(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(flag.Arg(0), cfg); err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// scene is everything built from the model before a surface exists.
type scene struct {
	state    *viewer.State
	bindings input.Bindings
	inertia  *camera.Inertia
}

func loadScene(modelPath string, cfg *config.Config) (*scene, error) {
	start := time.Now()
	mesh, err := models.Load(modelPath, models.Options{Simplify: cfg.Loader.Simplify})
	if err != nil {
		return nil, err
	}
	format, _ := models.DetectFormat(modelPath)
	logger.Info("model loaded",
		zap.String("path", modelPath),
		zap.Stringer("format", format),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("submeshes", len(mesh.SubMeshes)),
		zap.Any("min", mesh.Bounds.Min),
		zap.Any("max", mesh.Bounds.Max),
		zap.Duration("elapsed", time.Since(start)),
	)

	camOpts, err := cfg.CameraOptions()
	if err != nil {
		return nil, err
	}
	cam, err := camera.Frame(mesh.Bounds, camOpts)
	if err != nil {
		return nil, fmt.Errorf("frame model: %w", err)
	}
	logger.Debug("camera framed",
		zap.Float64("diagonal", mesh.Bounds.Diagonal()),
		zap.Float64("zoom", cam.Zoom),
		zap.Float64("znear", cam.ZNear),
		zap.Float64("zfar", cam.ZFar),
		zap.Float64("speed", cam.Speed),
	)

	modes := rendermode.NewController(camOpts.Bindings)
	modes.Set(cfg.Mode())

	s := &scene{
		state: &viewer.State{
			Camera:  cam,
			Mesh:    mesh,
			Modes:   modes,
			ShowHUD: cfg.Render.ShowHUD,
		},
		bindings: camOpts.Bindings,
	}
	if cfg.Render.Inertia {
		s.inertia = camera.NewInertia(cfg.Render.FPS, cfg.Render.InertiaFrequency, cfg.Render.InertiaDamping)
	}
	return s, nil
}

func run(modelPath string, cfg *config.Config) error {
	// Load before touching the terminal so errors print normally.
	sc, err := loadScene(modelPath, cfg)
	if err != nil {
		return err
	}
	ctxOpts, err := cfg.ContextOptions()
	if err != nil {
		return err
	}

	if *snapshotPath != "" {
		return snapshot(sc, ctxOpts, *snapshotPath, *snapshotSize)
	}

	term := uv.DefaultTerminal()
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	if err := logger.DetachConsole(); err != nil {
		return err
	}

	term.EnterAltScreen()
	term.HideCursor()

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	backend := render.NewContext(render.NewTerminalSurface(term), ctxOpts)
	hud := NewHUD(os.Stdout, filepath.Base(modelPath), sc.state.Mesh.TriangleCount())

	loop, err := viewer.NewLoop(sc.state, backend, viewer.Options{
		Logger:   logger.Log,
		Bindings: sc.bindings,
		Inertia:  sc.inertia,
		AfterPresent: func(st *viewer.State) {
			hud.UpdateFPS()
			if cols, rows, err := term.GetSize(); err == nil {
				hud.Render(cols, rows, st)
			}
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan input.Event, 64)
	send := func(evs []input.Event) {
		for _, ev := range evs {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}

	// Terminal reader: the translator is owned by this goroutine.
	go func() {
		tr := input.NewTranslator(sc.bindings, cfg.ReleaseTimeout())
		expire := time.NewTicker(tr.ReleaseTimeout / 4)
		defer expire.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-term.Events():
				if !ok {
					return
				}
				send(tr.Translate(ev, time.Now()))
			case now := <-expire.C:
				send(tr.Expire(now))
			}
		}
	}()

	// Signals become close requests.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case <-sigs:
			send([]input.Event{input.Close()})
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Render.FPS))
	defer ticker.Stop()

	logger.Info("viewer started", zap.Int("fps", cfg.Render.FPS), zap.Stringer("mode", sc.state.Modes.Mode()))
	err = loop.Run(ctx, events, ticker.C)
	logger.Info("viewer stopped", zap.Int("frames", loop.Frames()), zap.Int("skipped", loop.Skipped()))
	return err
}

// snapshot renders one frame offscreen and saves it as a PNG.
func snapshot(sc *scene, opts render.ContextOptions, path, size string) error {
	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return fmt.Errorf("snapshot size %q: want WxH", size)
	}

	surface := render.NewOffscreenSurface(w, h)
	loop, err := viewer.NewLoop(sc.state, render.NewContext(surface, opts), viewer.Options{
		Logger:   logger.Log,
		Bindings: sc.bindings,
	})
	if err != nil {
		return err
	}
	if err := loop.Redraw(); err != nil {
		return err
	}
	fb := surface.Last()
	if fb == nil {
		return fmt.Errorf("snapshot: no frame rendered")
	}
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	logger.Info("snapshot saved", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
	return nil
}
