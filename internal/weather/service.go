package weather

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FinishFunc receives the outcome of a GetWeatherData call. It is invoked
// exactly once per call.
type FinishFunc func(forecast *Forecast, err error)

// SourceInfo describes the provider behind a Service.
type SourceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	NeedsAPIKey bool   `json:"needs_api_key"`
	SourceSite  string `json:"source_site"`
	LastCall    *int64 `json:"last_call,omitempty"`
}

// Service fetches Forecast.io documents, normalizes them and gates provider
// calls through a Cache.
type Service struct {
	source    Source
	transport Transport
	cache     Cache
	metrics   Metrics
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for the cache window and for
// LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics reports cache and fetch observations to m.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a new Service.
func NewService(source Source, transport Transport, cache Cache, opts ...Option) *Service {
	s := &Service{
		source:    source,
		transport: transport,
		cache:     cache,
		metrics:   noopMetrics{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetWeatherData resolves the forecast for loc and hands it to onFinish.
//
// While the cache window is open onFinish runs synchronously with the stored
// forecast, or with ErrNotYetFetched if none was stored. Otherwise the fetch
// is recorded immediately, the provider is called in a new goroutine and
// onFinish runs there once the document is normalized and stored. A failed
// fetch still consumes the window. The fetch keeps ctx's values but not its
// cancellation, so a caller that stops waiting does not abort it.
func (s *Service) GetWeatherData(ctx context.Context, loc Location, onFinish FinishFunc) {
	remaining, acquired := s.cache.TryAcquire(s.now().Unix())
	if !acquired {
		s.metrics.RecordHit()
		log.Info().Int64("remaining_seconds", remaining).Str("location", loc.Key()).
			Msg("using cached results")

		cached, ok := s.cache.Cached()
		if !ok {
			onFinish(nil, ErrNotYetFetched)
			return
		}
		onFinish(cached, nil)
		return
	}

	s.metrics.RecordMiss()
	uri := s.source.PrepareURI(loc)

	fetchCtx := context.WithoutCancel(ctx)
	go func() {
		onFinish(s.fetch(fetchCtx, loc, uri))
	}()
}

// Forecast is the blocking form of GetWeatherData. It gives up waiting when
// ctx is done; an accepted fetch still runs to completion and fills the cache.
func (s *Service) Forecast(ctx context.Context, loc Location) (*Forecast, error) {
	type result struct {
		forecast *Forecast
		err      error
	}

	results := make(chan result, 1)
	s.GetWeatherData(ctx, loc, func(forecast *Forecast, err error) {
		results <- result{forecast: forecast, err: err}
	})

	select {
	case r := <-results:
		return r.forecast, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Info describes the provider, including the time of the last accepted fetch.
func (s *Service) Info() SourceInfo {
	info := SourceInfo{
		ID:          "forecast_io",
		Name:        "Forecast.io",
		Enabled:     true,
		NeedsAPIKey: true,
		SourceSite:  "http://forecast.io/",
	}
	if last, ok := s.cache.LastFetch(); ok {
		info.LastCall = &last
	}
	return info
}

func (s *Service) fetch(ctx context.Context, loc Location, uri string) (*Forecast, error) {
	fetchID := uuid.NewString()
	redacted := s.source.Redact(uri)
	logger := log.With().Str("fetch_id", fetchID).Str("location", loc.Key()).Logger()

	logger.Debug().Str("uri", redacted).Msg("fetching forecast")
	start := time.Now()

	body, err := s.transport.Request(ctx, uri)
	if err != nil {
		s.metrics.ObserveFetch(OutcomeTransportError, time.Since(start))
		logger.Error().Err(err).Str("uri", redacted).Msg("forecast request failed")
		return nil, &TransportError{URI: redacted, Err: err}
	}

	forecast, err := NormalizeBody(body, s.now())
	if err != nil {
		s.metrics.ObserveFetch(outcomeOf(err), time.Since(start))
		logger.Error().Err(err).Msg("forecast normalization failed")
		return nil, err
	}

	s.cache.Store(forecast)
	s.metrics.ObserveFetch(OutcomeOK, time.Since(start))
	logger.Info().Int("alert_count", forecast.AlertCount).Dur("took", time.Since(start)).
		Msg("forecast refreshed")

	return forecast, nil
}

func outcomeOf(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return OutcomeParseError
	}
	return OutcomeSchemaError
}
