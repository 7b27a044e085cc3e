package weather

import (
	"context"
	"time"
)

// Transport retrieves a raw provider document. Implementations deliver the
// whole body once; they do not retry.
type Transport interface {
	Request(ctx context.Context, uri string) ([]byte, error)
}

// Cache is the fixed-window gate deciding between a fresh fetch and the last
// stored forecast.
type Cache interface {
	// TryAcquire records a fetch at now and returns true when the window has
	// elapsed. Otherwise it returns the seconds left in the window.
	TryAcquire(now int64) (remaining int64, acquired bool)
	Cached() (*Forecast, bool)
	Store(f *Forecast)
	LastFetch() (int64, bool)
}

// Metrics receives cache and fetch observations.
type Metrics interface {
	RecordHit()
	RecordMiss()
	ObserveFetch(outcome string, d time.Duration)
}

// Fetch outcomes reported to Metrics.
const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeParseError     = "parse_error"
	OutcomeSchemaError    = "schema_error"
)

type noopMetrics struct{}

func (noopMetrics) RecordHit()                             {}
func (noopMetrics) RecordMiss()                            {}
func (noopMetrics) ObserveFetch(_ string, _ time.Duration) {}
