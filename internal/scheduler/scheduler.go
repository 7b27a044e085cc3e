package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

const (
	defaultInterval = 15 * time.Minute

	// refreshTimeout bounds how long a pass waits on each location. A fetch
	// outliving it still completes and fills the cache.
	refreshTimeout = 30 * time.Second
)

// Forecaster is the part of weather.Service the scheduler drives.
type Forecaster interface {
	Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error)
}

// Scheduler periodically requests forecasts for configured locations so the
// cache is warm when clients ask.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Forecaster
	locations []weather.Location
	interval  time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, service Forecaster) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Info().Msg("scheduler: no locations configured; nothing to schedule")
		return nil
	}
	if len(s.locations) > 1 {
		log.Warn().Int("locations", len(s.locations)).
			Msg("scheduler: forecasts share one cache slot; only the first location is fetched per window")
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.refresh); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// refresh walks the locations one at a time; the service is not built for
// parallel callers. The cache is shared by all locations, so only the first
// location in a window reaches the provider.
func (s *Scheduler) refresh() {
	log.Debug().Int("locations", len(s.locations)).Msg("scheduler: running forecast refresh")

	for _, loc := range s.locations {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		if _, err := s.service.Forecast(ctx, loc); err != nil {
			log.Warn().Err(err).Str("location", loc.Key()).Msg("scheduler: refresh failed")
		}
		cancel()
	}

	log.Debug().Msg("scheduler: completed forecast refresh")
}
