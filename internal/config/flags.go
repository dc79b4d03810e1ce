package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWireframe  = flag.Bool("wireframe", false, "Draw every payload in wireframe")
	flagShowBounds = flag.Bool("show-bounds", false, "Draw payload world bounds")
	flagBackend    = flag.String("backend", "", "Render backend: record or gl")
	flagFrames     = flag.Int("frames", 0, "Number of frames to run")
	flagModels     = flag.Int("models", 0, "Number of model instances")
	flagClusters   = flag.Int("clusters", -1, "Clusters per skinned mesh")
	flagDualQuat   = flag.Bool("dual-quat", false, "Use dual-quaternion skinning")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWireframe {
		cfg.Render.Wireframe = true
	}
	if *flagShowBounds {
		cfg.Render.ShowBounds = true
	}
	if *flagBackend != "" {
		cfg.Render.Backend = *flagBackend
	}
	if *flagFrames > 0 {
		cfg.Bench.Frames = *flagFrames
	}
	if *flagModels > 0 {
		cfg.Bench.Models = *flagModels
	}
	if *flagClusters >= 0 {
		cfg.Bench.Clusters = *flagClusters
	}
	if *flagDualQuat {
		cfg.Skinning.Mode = SkinningDualQuaternion
	}
}
