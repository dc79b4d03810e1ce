package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test render defaults
	if !cfg.Render.EnableTexturing {
		t.Error("expected texturing to be enabled by default")
	}
	if cfg.Render.Wireframe {
		t.Error("expected wireframe to be false by default")
	}
	if cfg.Render.Backend != BackendRecord {
		t.Errorf("expected backend %q, got %q", BackendRecord, cfg.Render.Backend)
	}

	// Test skinning defaults
	if cfg.Skinning.Mode != SkinningMatrix {
		t.Errorf("expected skinning mode %q, got %q", SkinningMatrix, cfg.Skinning.Mode)
	}

	// Test bench defaults
	if cfg.Bench.Frames != 600 {
		t.Errorf("expected 600 frames, got %d", cfg.Bench.Frames)
	}
	if cfg.Bench.Clusters != 24 {
		t.Errorf("expected 24 clusters, got %d", cfg.Bench.Clusters)
	}

	// Test window defaults
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Hidden {
		t.Error("expected hidden window by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
render:
  enable_texturing: false
  wireframe: true
  show_bounds: true
  backend: gl

skinning:
  mode: dual_quaternion

bench:
  frames: 10
  models: 3
  clusters: 2
  blend_shapes: 1

window:
  width: 640
  height: 480
  vsync: true

logging:
  level: "debug"
  log_file: "bench.log"
  max_size_mb: 5
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Render.EnableTexturing {
		t.Error("expected texturing to be disabled")
	}
	if !cfg.Render.Wireframe || !cfg.Render.ShowBounds {
		t.Error("expected wireframe and show_bounds to be true")
	}
	if cfg.Render.Backend != BackendGL {
		t.Errorf("expected backend gl, got %s", cfg.Render.Backend)
	}
	if cfg.Skinning.Mode != SkinningDualQuaternion {
		t.Errorf("expected dual_quaternion, got %s", cfg.Skinning.Mode)
	}
	if cfg.Bench.Frames != 10 || cfg.Bench.Models != 3 || cfg.Bench.Clusters != 2 || cfg.Bench.BlendShapes != 1 {
		t.Errorf("unexpected bench config %+v", cfg.Bench)
	}
	if cfg.Window.Width != 640 || !cfg.Window.VSync {
		t.Errorf("unexpected window config %+v", cfg.Window)
	}
	// Unset keys keep their defaults.
	if !cfg.Window.Hidden {
		t.Error("expected hidden to keep its default")
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("expected max_backups to keep its default, got %d", cfg.Logging.MaxBackups)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "bench.log" {
		t.Errorf("expected log file 'bench.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
bench:
  frames: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"gl backend", func(c *Config) { c.Render.Backend = BackendGL }, false},
		{"unknown backend", func(c *Config) { c.Render.Backend = "vulkan" }, true},
		{"unknown skinning", func(c *Config) { c.Skinning.Mode = "linear" }, true},
		{"zero frames", func(c *Config) { c.Bench.Frames = 0 }, true},
		{"zero models", func(c *Config) { c.Bench.Models = 0 }, true},
		{"zero clusters", func(c *Config) { c.Bench.Clusters = 0 }, false},
		{"too many clusters", func(c *Config) { c.Bench.Clusters = MaxClusters + 1 }, true},
		{"negative blend shapes", func(c *Config) { c.Bench.BlendShapes = -1 }, true},
		{"empty window", func(c *Config) { c.Window.Width = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("bench:\n  frames: 5\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "render flags",
			setup: func() {
				*flagWireframe = true
				*flagShowBounds = true
				*flagBackend = BackendGL
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Render.Wireframe || !cfg.Render.ShowBounds {
					t.Error("expected wireframe and show-bounds to be enabled")
				}
				if cfg.Render.Backend != BackendGL {
					t.Errorf("expected backend gl, got %s", cfg.Render.Backend)
				}
			},
			teardown: func() {
				*flagWireframe = false
				*flagShowBounds = false
				*flagBackend = ""
			},
		},
		{
			name: "bench flags",
			setup: func() {
				*flagFrames = 42
				*flagModels = 7
				*flagClusters = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Bench.Frames != 42 || cfg.Bench.Models != 7 {
					t.Errorf("unexpected bench config %+v", cfg.Bench)
				}
				if cfg.Bench.Clusters != 0 {
					t.Errorf("expected explicit zero clusters, got %d", cfg.Bench.Clusters)
				}
			},
			teardown: func() {
				*flagFrames = 0
				*flagModels = 0
				*flagClusters = -1
			},
		},
		{
			name:  "dual-quat flag",
			setup: func() { *flagDualQuat = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Skinning.Mode != SkinningDualQuaternion {
					t.Errorf("expected dual_quaternion, got %s", cfg.Skinning.Mode)
				}
			},
			teardown: func() { *flagDualQuat = false },
		},
		{
			name:  "unset flags keep defaults",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Bench.Clusters != 24 {
					t.Errorf("expected default clusters, got %d", cfg.Bench.Clusters)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
bench:
  frames: 100
  models: 9
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagFrames = 5
	defer func() {
		*flagConfig = ""
		*flagFrames = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Frames should be from flag (5), not file (100)
	if cfg.Bench.Frames != 5 {
		t.Errorf("expected 5 frames from flag, got %d", cfg.Bench.Frames)
	}

	// Models should be from file (9) since no flag override
	if cfg.Bench.Models != 9 {
		t.Errorf("expected 9 models from file, got %d", cfg.Bench.Models)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  backend: dx12\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an unknown backend")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Skinning.Mode = SkinningDualQuaternion
	cfg.Bench.Models = 11
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Skinning.Mode != SkinningDualQuaternion || loaded.Bench.Models != 11 {
		t.Errorf("saved config did not round-trip: %+v", loaded)
	}
}
