// Package config handles benchmark and renderer configuration loading.
package config

import "fmt"

// Config holds all settings.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Skinning SkinningConfig `yaml:"skinning"`
	Bench    BenchConfig    `yaml:"bench"`
	Window   WindowConfig   `yaml:"window"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Render backends.
const (
	BackendRecord = "record"
	BackendGL     = "gl"
)

// Skinning modes.
const (
	SkinningMatrix         = "matrix"
	SkinningDualQuaternion = "dual_quaternion"
)

// RenderConfig holds draw submission settings.
type RenderConfig struct {
	EnableTexturing bool   `yaml:"enable_texturing"`
	Wireframe       bool   `yaml:"wireframe"`
	ShowBounds      bool   `yaml:"show_bounds"`
	Backend         string `yaml:"backend"` // record or gl
}

// SkinningConfig selects how cluster transforms reach the GPU.
type SkinningConfig struct {
	Mode string `yaml:"mode"` // matrix or dual_quaternion
}

// BenchConfig sizes the synthetic workload.
type BenchConfig struct {
	Frames      int `yaml:"frames"`
	Models      int `yaml:"models"`
	Clusters    int `yaml:"clusters"`
	BlendShapes int `yaml:"blend_shapes"`
}

// WindowConfig holds the GL replay context settings.
type WindowConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
	Hidden bool `yaml:"hidden"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// MaxClusters is the largest cluster count the skinning shaders accept.
const MaxClusters = 128

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			EnableTexturing: true,
			Backend:         BackendRecord,
		},
		Skinning: SkinningConfig{
			Mode: SkinningMatrix,
		},
		Bench: BenchConfig{
			Frames:      600,
			Models:      64,
			Clusters:    24,
			BlendShapes: 2,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  false,
			Hidden: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports the first setting outside its allowed range.
func (c *Config) Validate() error {
	switch c.Render.Backend {
	case BackendRecord, BackendGL:
	default:
		return fmt.Errorf("render.backend: unknown backend %q", c.Render.Backend)
	}
	switch c.Skinning.Mode {
	case SkinningMatrix, SkinningDualQuaternion:
	default:
		return fmt.Errorf("skinning.mode: unknown mode %q", c.Skinning.Mode)
	}
	if c.Bench.Frames < 1 {
		return fmt.Errorf("bench.frames: must be positive, got %d", c.Bench.Frames)
	}
	if c.Bench.Models < 1 {
		return fmt.Errorf("bench.models: must be positive, got %d", c.Bench.Models)
	}
	if c.Bench.Clusters < 0 || c.Bench.BlendShapes < 0 {
		return fmt.Errorf("bench: clusters and blend_shapes must not be negative")
	}
	if c.Bench.Clusters > MaxClusters {
		return fmt.Errorf("bench.clusters: at most %d, got %d", MaxClusters, c.Bench.Clusters)
	}
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
