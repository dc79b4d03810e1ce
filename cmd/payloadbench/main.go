// Package main runs the mesh part payload benchmark.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/bench"
	"github.com/Faultbox/meshpart/internal/config"
	"github.com/Faultbox/meshpart/internal/engine/perf"
	"github.com/Faultbox/meshpart/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Mesh part payload bench ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	b, err := bench.New(cfg)
	if err != nil {
		logger.Error("failed to create bench", zap.Error(err))
		os.Exit(1)
	}
	defer b.Close()

	res, err := b.Run()
	if err != nil {
		logger.Error("bench error", zap.Error(err))
		os.Exit(1)
	}

	perf.Report()
	logger.Info("bench finished",
		zap.Int("frames", res.Frames),
		zap.Int("drawn", res.Drawn),
		zap.Int("triangles", res.Triangles),
		zap.Int("materialSwitches", res.MaterialSwitches),
		zap.Int("commands", res.Commands),
		zap.Duration("elapsed", res.Elapsed),
	)
}
