// Package perf accumulates named scoped timings for hot render paths.
package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshpart/internal/logger"
)

// Stat is the accumulated timing of one name.
type Stat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

// Mean returns the average duration per call.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

var (
	enabled atomic.Bool
	mu      sync.Mutex
	stats   = map[string]*Stat{}
)

func init() {
	enabled.Store(true)
}

// SetEnabled turns timing on or off. Timers started while disabled record nothing.
func SetEnabled(on bool) { enabled.Store(on) }

// Enabled reports whether timing is on.
func Enabled() bool { return enabled.Load() }

// Timer measures one scope. The zero Timer is inert.
type Timer struct {
	name  string
	start time.Time
}

// Start begins timing name.
func Start(name string) Timer {
	if !enabled.Load() {
		return Timer{}
	}
	return Timer{name: name, start: time.Now()}
}

// Stop records the elapsed time and returns it.
func (t Timer) Stop() time.Duration {
	if t.name == "" {
		return 0
	}
	d := time.Since(t.start)
	record(t.name, d)
	return d
}

func record(name string, d time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := stats[name]
	if !ok {
		s = &Stat{Name: name}
		stats[name] = s
	}
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// Stats returns a snapshot of every name, sorted by name.
func Stats() []Stat {
	mu.Lock()
	out := make([]Stat, 0, len(stats))
	for _, s := range stats {
		out = append(out, *s)
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the stat for name.
func Lookup(name string) (Stat, bool) {
	mu.Lock()
	defer mu.Unlock()
	s, ok := stats[name]
	if !ok {
		return Stat{}, false
	}
	return *s, true
}

// Reset clears every stat.
func Reset() {
	mu.Lock()
	stats = map[string]*Stat{}
	mu.Unlock()
}

// Report logs every stat at info level.
func Report() {
	log := logger.Named("perf")
	for _, s := range Stats() {
		log.Info(s.Name,
			zap.Int("count", s.Count),
			zap.Duration("total", s.Total),
			zap.Duration("mean", s.Mean()),
			zap.Duration("max", s.Max))
	}
}
