package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Write logs to this file")
	flagFPS       = flag.Int("fps", 0, "Target FPS (default 60)")
	flagWireframe = flag.Bool("wireframe", false, "Start in wireframe mode")
	flagSimplify  = flag.Float64("simplify", 0, "Keep this fraction of triangles (0 < f < 1)")
	flagBg        = flag.String("bg", "", "Background color (R,G,B)")
	flagInertia   = flag.Bool("inertia", true, "Keep orbiting after a drag is released")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Boolean flags that
// default to true only override when given explicitly.
func applyFlags(cfg *Config) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFPS > 0 {
		cfg.Render.FPS = *flagFPS
	}
	if *flagWireframe {
		cfg.Render.Mode = "wireframe"
	}
	if set["simplify"] {
		cfg.Loader.Simplify = *flagSimplify
	}
	if *flagBg != "" {
		cfg.Render.Background = *flagBg
	}
	if set["inertia"] {
		cfg.Render.Inertia = *flagInertia
	}
}
