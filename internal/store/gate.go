package store

import (
	"math"
	"sync"
	"time"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

// DefaultWindow is the cache window used when none is configured.
const DefaultWindow = 60 * time.Second

// NeverFetched is the last-fetch epoch of a gate that has not recorded a
// fetch yet.
const NeverFetched int64 = math.MinInt64

var _ weather.Cache = (*Gate)(nil)

// Gate is a fixed-window cache holding the most recent forecast. Only the
// latest fetch epoch is tracked; it is safe for concurrent use.
type Gate struct {
	mu sync.RWMutex

	window    int64 // seconds
	lastFetch int64
	last      *weather.Forecast
}

// NewGate creates a Gate with the given window, truncated to whole seconds.
// Negative windows are treated as zero, which disables caching.
func NewGate(window time.Duration) *Gate {
	if window < 0 {
		window = 0
	}
	return &Gate{
		window:    int64(window / time.Second),
		lastFetch: NeverFetched,
	}
}

// Window returns the configured cache window.
func (g *Gate) Window() time.Duration {
	return time.Duration(g.window) * time.Second
}

// ShouldFetch reports whether a new fetch is allowed at now.
func (g *Gate) ShouldFetch(now int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.shouldFetch(now)
}

// Remaining returns the seconds left in the window at now. It is zero or
// negative once a fetch is allowed.
func (g *Gate) Remaining(now int64) int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.remaining(now)
}

// RecordFetch marks now as the time of the latest fetch. It must be called
// when the fetch starts, not when it completes.
func (g *Gate) RecordFetch(now int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.recordFetch(now)
}

// TryAcquire runs ShouldFetch and RecordFetch under a single lock. When the
// window is still open it returns the seconds left and false.
func (g *Gate) TryAcquire(now int64) (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.shouldFetch(now) {
		return g.remaining(now), false
	}
	g.recordFetch(now)
	return 0, true
}

// LastFetch returns the epoch of the latest recorded fetch.
func (g *Gate) LastFetch() (int64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.lastFetch == NeverFetched {
		return 0, false
	}
	return g.lastFetch, true
}

// Cached returns the most recently stored forecast.
func (g *Gate) Cached() (*weather.Forecast, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.last, g.last != nil
}

// Store replaces the cached forecast.
func (g *Gate) Store(f *weather.Forecast) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.last = f
}

// shouldFetch, recordFetch and remaining must be called with the lock held.
func (g *Gate) shouldFetch(now int64) bool {
	return g.remaining(now) <= 0
}

func (g *Gate) recordFetch(now int64) {
	g.lastFetch = now
}

func (g *Gate) remaining(now int64) int64 {
	if g.lastFetch == NeverFetched {
		return 0
	}
	return g.lastFetch + g.window - now
}
