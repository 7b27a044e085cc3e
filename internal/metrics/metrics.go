package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector tracks cache gate decisions and provider fetches.
type Collector struct {
	registry *prometheus.Registry

	hits          prometheus.Counter
	misses        prometheus.Counter
	hitRatio      prometheus.Gauge
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	mu    sync.Mutex
	hitN  int64
	total int64
}

// New creates a Collector registered on its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecast_cache_hits_total",
			Help: "The total number of requests served from the cache window",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecast_cache_misses_total",
			Help: "The total number of requests that started a provider fetch",
		}),
		hitRatio: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forecast_cache_hit_ratio",
			Help: "Cache hit ratio (hits/total requests)",
		}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_fetches_total",
			Help: "Provider fetches by outcome",
		}, []string{"outcome"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecast_fetch_duration_seconds",
			Help:    "Provider fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

func (c *Collector) RecordHit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hitN++
	c.total++
	c.hits.Inc()
	c.updateHitRatio()
}

func (c *Collector) RecordMiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	c.misses.Inc()
	c.updateHitRatio()
}

func (c *Collector) ObserveFetch(outcome string, d time.Duration) {
	c.fetches.WithLabelValues(outcome).Inc()
	c.fetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Must be called while holding the mutex.
func (c *Collector) updateHitRatio() {
	if c.total > 0 {
		c.hitRatio.Set(float64(c.hitN) / float64(c.total))
	}
}

// Stats returns the hit/miss counters as a plain map.
func (c *Collector) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ratio float64
	if c.total > 0 {
		ratio = float64(c.hitN) / float64(c.total)
	}
	return map[string]interface{}{
		"hits":      c.hitN,
		"misses":    c.total - c.hitN,
		"total":     c.total,
		"hit_ratio": ratio,
	}
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
