package perf

import (
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/logger"
)

// FrameCounter tracks frame rate and heap usage, logging at a fixed interval.
type FrameCounter struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
	now            func() time.Time
}

// NewFrameCounter creates a counter that logs every interval.
func NewFrameCounter(interval time.Duration) *FrameCounter {
	return &FrameCounter{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame. It returns true when stats were logged.
func (f *FrameCounter) Tick() bool {
	f.frameCount++
	current := f.now()
	elapsed := current.Sub(f.lastTime)
	if elapsed < f.updateInterval {
		return false
	}

	runtime.ReadMemStats(&f.memStats)
	allocDelta := f.memStats.TotalAlloc - f.lastTotalAlloc

	logger.Named("perf").Info("frame stats",
		zap.Float64("fps", float64(f.frameCount)/elapsed.Seconds()),
		zap.Float64("heapMB", float64(f.memStats.Alloc)/1024/1024),
		zap.Float64("allocRateMB", float64(allocDelta)/1024/1024/elapsed.Seconds()),
		zap.Uint32("gc", f.memStats.NumGC))

	f.frameCount = 0
	f.lastTime = current
	f.lastTotalAlloc = f.memStats.TotalAlloc
	return true
}
