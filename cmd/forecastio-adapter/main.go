package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	httpapi "github.com/i474232898/forecastio-adapter/internal/api/http"
	"github.com/i474232898/forecastio-adapter/internal/config"
	"github.com/i474232898/forecastio-adapter/internal/geo"
	"github.com/i474232898/forecastio-adapter/internal/metrics"
	"github.com/i474232898/forecastio-adapter/internal/scheduler"
	"github.com/i474232898/forecastio-adapter/internal/store"
	"github.com/i474232898/forecastio-adapter/internal/transport"
	"github.com/i474232898/forecastio-adapter/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	cfg.InitializeLogging()

	source, err := cfg.Source()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build forecast source")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	collector := metrics.New()
	gate := store.NewGate(cfg.CacheWindow)

	service := weather.NewService(source, transport.New(httpClient), gate, weather.WithMetrics(collector))

	var geocoder httpapi.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geocoder = geo.NewResolver(cfg.GeocoderAPIKey)
	}

	// Scheduler that keeps the cache warm for configured locations.
	sched := scheduler.New(cfg.Locations, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "forecastio-adapter",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "forecastio-adapter",
			"cache":   collector.Stats(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	httpapi.RegisterRoutes(app, service, geocoder)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Bool("testing", cfg.Testing).
			Dur("cache_window", gate.Window()).
			Msg("starting forecast adapter")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
