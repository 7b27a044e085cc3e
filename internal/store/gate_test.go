package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

func TestNewGate(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   time.Duration
	}{
		{name: "default", window: DefaultWindow, want: 60 * time.Second},
		{name: "truncated to seconds", window: 1500 * time.Millisecond, want: time.Second},
		{name: "negative disables caching", window: -time.Second, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(tt.window)
			assert.Equal(t, tt.want, g.Window())

			_, fetched := g.LastFetch()
			assert.False(t, fetched)
			_, cached := g.Cached()
			assert.False(t, cached)
		})
	}
}

func TestGateShouldFetch(t *testing.T) {
	g := NewGate(60 * time.Second)
	const start int64 = 1_700_000_000

	assert.True(t, g.ShouldFetch(start), "never fetched")
	assert.True(t, g.ShouldFetch(0), "never fetched, any time")

	g.RecordFetch(start)
	tests := []struct {
		now           int64
		want          bool
		wantRemaining int64
	}{
		{now: start, want: false, wantRemaining: 60},
		{now: start + 1, want: false, wantRemaining: 59},
		{now: start + 59, want: false, wantRemaining: 1},
		{now: start + 60, want: true, wantRemaining: 0},
		{now: start + 3600, want: true, wantRemaining: -3540},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, g.ShouldFetch(tt.now), "now=start+%d", tt.now-start)
		assert.Equal(t, tt.wantRemaining, g.Remaining(tt.now), "now=start+%d", tt.now-start)
	}
}

func TestGateZeroWindowAlwaysFetches(t *testing.T) {
	g := NewGate(0)
	g.RecordFetch(100)
	assert.True(t, g.ShouldFetch(100))
}

func TestGateTryAcquire(t *testing.T) {
	g := NewGate(60 * time.Second)

	remaining, ok := g.TryAcquire(1000)
	require.True(t, ok)
	assert.Zero(t, remaining)

	last, fetched := g.LastFetch()
	require.True(t, fetched)
	assert.Equal(t, int64(1000), last)

	remaining, ok = g.TryAcquire(1030)
	assert.False(t, ok)
	assert.Equal(t, int64(30), remaining)

	// A refused acquire does not move the window.
	last, _ = g.LastFetch()
	assert.Equal(t, int64(1000), last)

	_, ok = g.TryAcquire(1060)
	assert.True(t, ok)
	last, _ = g.LastFetch()
	assert.Equal(t, int64(1060), last)
}

func TestGateTryAcquireConcurrent(t *testing.T) {
	g := NewGate(60 * time.Second)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := g.TryAcquire(5000); ok {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired)
}

func TestGateStore(t *testing.T) {
	g := NewGate(DefaultWindow)

	first := &weather.Forecast{LastUpdated: 1}
	g.Store(first)
	got, ok := g.Cached()
	require.True(t, ok)
	assert.Same(t, first, got)

	second := &weather.Forecast{LastUpdated: 2}
	g.Store(second)
	got, _ = g.Cached()
	assert.Same(t, second, got)
}

func TestGateTryAcquireMatchesShouldFetch(t *testing.T) {
	const start int64 = 2_000_000

	for _, offset := range []int64{0, 1, 30, 59, 60, 61, 600} {
		ref := NewGate(60 * time.Second)
		ref.RecordFetch(start)
		wantFetch := ref.ShouldFetch(start + offset)
		wantRemaining := ref.Remaining(start + offset)

		g := NewGate(60 * time.Second)
		g.RecordFetch(start)
		remaining, acquired := g.TryAcquire(start + offset)

		assert.Equal(t, wantFetch, acquired, "offset=%d", offset)
		if acquired {
			assert.Zero(t, remaining)
			assert.False(t, g.ShouldFetch(start+offset), "acquire records the fetch")
		} else {
			assert.Equal(t, wantRemaining, remaining, "offset=%d", offset)
		}
	}
}
