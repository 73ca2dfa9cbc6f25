// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/meshview/pkg/camera"
	"github.com/taigrr/meshview/pkg/input"
	"github.com/taigrr/meshview/pkg/render"
	"github.com/taigrr/meshview/pkg/rendermode"
)

// Config holds all viewer settings.
type Config struct {
	Camera  CameraConfig  `yaml:"camera" toml:"camera"`
	Input   InputConfig   `yaml:"input" toml:"input"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Loader  LoaderConfig  `yaml:"loader" toml:"loader"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// CameraConfig holds projection and navigation settings. Angles are in
// degrees.
type CameraConfig struct {
	FovY                    float64 `yaml:"fovy" toml:"fovy"`
	ZNear                   float64 `yaml:"znear" toml:"znear"`
	ZFar                    float64 `yaml:"zfar" toml:"zfar"`
	LookSensitivity         float64 `yaml:"look_sensitivity" toml:"look_sensitivity"`
	ZoomSensitivity         float64 `yaml:"zoom_sensitivity" toml:"zoom_sensitivity"`
	TrackpadZoomSensitivity float64 `yaml:"trackpad_zoom_sensitivity" toml:"trackpad_zoom_sensitivity"`
	Speed                   float64 `yaml:"speed" toml:"speed"` // 0 = derived from model size
	MinZoom                 float64 `yaml:"min_zoom" toml:"min_zoom"`
}

// InputConfig holds key bindings.
type InputConfig struct {
	// Bindings maps action names to keys and replaces the defaults of the
	// actions it names.
	Bindings         map[string][]string `yaml:"bindings" toml:"bindings"`
	OrbitButton      string              `yaml:"orbit_button" toml:"orbit_button"`
	ReleaseTimeoutMS int                 `yaml:"release_timeout_ms" toml:"release_timeout_ms"`
}

// RenderConfig holds frame loop and appearance settings.
type RenderConfig struct {
	FPS              int     `yaml:"fps" toml:"fps"`
	Mode             string  `yaml:"mode" toml:"mode"`
	Background       string  `yaml:"background" toml:"background"`
	SolidColor       string  `yaml:"solid_color" toml:"solid_color"`
	WireColor        string  `yaml:"wire_color" toml:"wire_color"`
	MaxPixels        int     `yaml:"max_pixels" toml:"max_pixels"`
	Inertia          bool    `yaml:"inertia" toml:"inertia"`
	InertiaFrequency float64 `yaml:"inertia_frequency" toml:"inertia_frequency"`
	InertiaDamping   float64 `yaml:"inertia_damping" toml:"inertia_damping"`
	ShowHUD          bool    `yaml:"show_hud" toml:"show_hud"`
}

// LoaderConfig holds model loading settings.
type LoaderConfig struct {
	// Simplify keeps this fraction of triangles; 0 disables decimation.
	Simplify float64 `yaml:"simplify" toml:"simplify"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	cam := camera.DefaultOptions()
	ctx := render.DefaultContextOptions()
	return &Config{
		Camera: CameraConfig{
			FovY:                    cam.FovY,
			ZNear:                   cam.ZNear,
			ZFar:                    cam.ZFar,
			LookSensitivity:         cam.LookSensitivity,
			ZoomSensitivity:         cam.ZoomSensitivity,
			TrackpadZoomSensitivity: cam.TrackpadZoomSensitivity,
			MinZoom:                 cam.MinZoom,
		},
		Input: InputConfig{
			OrbitButton:      "left",
			ReleaseTimeoutMS: int(input.DefaultReleaseTimeout / time.Millisecond),
		},
		Render: RenderConfig{
			FPS:              60,
			Mode:             rendermode.Solid.String(),
			Background:       formatRGB(ctx.Background),
			SolidColor:       formatRGB(ctx.SolidColor),
			WireColor:        formatRGB(ctx.WireColor),
			MaxPixels:        ctx.MaxPixels,
			Inertia:          true,
			InertiaFrequency: 4,
			InertiaDamping:   1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func formatRGB(c render.Color) string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, v))
		}
	}

	cc := c.Camera
	if !(cc.FovY > 0 && cc.FovY < 180) {
		errs = append(errs, fmt.Errorf("camera.fovy must be in (0, 180), got %g", cc.FovY))
	}
	positive("camera.znear", cc.ZNear)
	if !(cc.ZFar > cc.ZNear) {
		errs = append(errs, fmt.Errorf("camera.zfar (%g) must exceed camera.znear (%g)", cc.ZFar, cc.ZNear))
	}
	positive("camera.look_sensitivity", cc.LookSensitivity)
	positive("camera.zoom_sensitivity", cc.ZoomSensitivity)
	positive("camera.trackpad_zoom_sensitivity", cc.TrackpadZoomSensitivity)
	positive("camera.min_zoom", cc.MinZoom)
	if cc.Speed < 0 {
		errs = append(errs, fmt.Errorf("camera.speed must not be negative, got %g", cc.Speed))
	}

	if c.Render.FPS <= 0 {
		errs = append(errs, fmt.Errorf("render.fps must be positive, got %d", c.Render.FPS))
	}
	if c.Render.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("render.max_pixels must be positive, got %d", c.Render.MaxPixels))
	}
	if c.Render.Inertia {
		positive("render.inertia_frequency", c.Render.InertiaFrequency)
		positive("render.inertia_damping", c.Render.InertiaDamping)
	}
	if _, err := rendermode.Parse(c.Render.Mode); err != nil {
		errs = append(errs, fmt.Errorf("render.mode: %w", err))
	}
	if _, err := c.ContextOptions(); err != nil {
		errs = append(errs, err)
	}

	if c.Input.ReleaseTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("input.release_timeout_ms must not be negative, got %d", c.Input.ReleaseTimeoutMS))
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}

	if s := c.Loader.Simplify; !(s >= 0 && s < 1) {
		errs = append(errs, fmt.Errorf("loader.simplify must be in [0, 1), got %g", s))
	}
	return errors.Join(errs...)
}

// Bindings returns the default bindings with the configured overrides.
func (c *Config) Bindings() (input.Bindings, error) {
	b := input.DefaultBindings()
	for name, keys := range c.Input.Bindings {
		a, err := input.ParseAction(name)
		if err != nil {
			return b, fmt.Errorf("input.bindings: %w", err)
		}
		b.Rebind(a, keys...)
	}
	switch c.Input.OrbitButton {
	case "", "left":
		b.Orbit = input.ButtonLeft
	case "middle":
		b.Orbit = input.ButtonMiddle
	case "right":
		b.Orbit = input.ButtonRight
	default:
		return b, fmt.Errorf("input.orbit_button: unknown button %q", c.Input.OrbitButton)
	}
	return b, nil
}

// ReleaseTimeout returns the synthesized key release delay.
func (c *Config) ReleaseTimeout() time.Duration {
	return time.Duration(c.Input.ReleaseTimeoutMS) * time.Millisecond
}

// CameraOptions returns the camera settings. Speed 0 is left for framing
// to derive.
func (c *Config) CameraOptions() (camera.Options, error) {
	b, err := c.Bindings()
	if err != nil {
		return camera.Options{}, err
	}
	opts := camera.DefaultOptions()
	opts.FovY = c.Camera.FovY
	opts.ZNear = c.Camera.ZNear
	opts.ZFar = c.Camera.ZFar
	opts.LookSensitivity = c.Camera.LookSensitivity
	opts.ZoomSensitivity = c.Camera.ZoomSensitivity
	opts.TrackpadZoomSensitivity = c.Camera.TrackpadZoomSensitivity
	opts.Speed = c.Camera.Speed
	opts.MinZoom = c.Camera.MinZoom
	opts.Bindings = b
	return opts, nil
}

// ContextOptions returns the rendering backend settings.
func (c *Config) ContextOptions() (render.ContextOptions, error) {
	opts := render.ContextOptions{MaxPixels: c.Render.MaxPixels}
	for _, f := range []struct {
		name string
		in   string
		out  *render.Color
	}{
		{"render.background", c.Render.Background, &opts.Background},
		{"render.solid_color", c.Render.SolidColor, &opts.SolidColor},
		{"render.wire_color", c.Render.WireColor, &opts.WireColor},
	} {
		col, err := render.ParseRGB(f.in)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.out = col
	}
	return opts, nil
}

// Mode returns the initial render mode, Solid when unparsable.
func (c *Config) Mode() rendermode.Mode {
	m, _ := rendermode.Parse(c.Render.Mode)
	return m
}
