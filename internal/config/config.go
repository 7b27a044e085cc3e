package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

// ErrMissingAPIKey is returned when the live endpoint is selected without a key.
var ErrMissingAPIKey = errors.New("FORECAST_API_KEY is required unless FORECAST_TESTING is enabled")

var validate = validator.New()

type AppConfig struct {
	Environment string `envconfig:"ENV" default:"production" validate:"oneof=production development local test"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Port        string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	// Forecast.io access. Testing selects the fixture instead of the live API.
	APIKey      string `envconfig:"FORECAST_API_KEY"`
	Testing     bool   `envconfig:"FORECAST_TESTING" default:"false"`
	FixturePath string `envconfig:"FORECAST_FIXTURE_PATH" default:"testdata/forecast_io.json"`
	BaseURL     string `envconfig:"FORECAST_BASE_URL" default:"https://api.forecast.io/forecast" validate:"required,url"`

	// CacheWindow is how long a fetched forecast is reused.
	CacheWindow time.Duration `envconfig:"FORECAST_CACHE_WINDOW" default:"60s"`

	// HTTPTimeout bounds provider calls; zero waits indefinitely.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`

	// RefreshInterval controls how often configured locations are warmed.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"15m"`

	// Locations lists warm-up coordinates. The cache holds one forecast for
	// every location, so within a cache window only the first entry reaches
	// the provider; later entries are served that same forecast.
	Locations LocationList `envconfig:"WEATHER_LOCATIONS"`

	GeocoderAPIKey string `envconfig:"GEOCODER_API_KEY"`
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !c.Testing && c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.CacheWindow < 0 {
		return fmt.Errorf("invalid FORECAST_CACHE_WINDOW: %s must not be negative", c.CacheWindow)
	}
	return nil
}

// Source builds the Forecast.io source described by the configuration.
func (c *AppConfig) Source() (weather.Source, error) {
	fixture, err := filepath.Abs(c.FixturePath)
	if err != nil {
		return weather.Source{}, fmt.Errorf("resolving fixture path: %w", err)
	}

	template := strings.TrimRight(c.BaseURL, "/") + weather.ForecastURIPath
	testingURI := (&url.URL{Scheme: "file", Path: filepath.ToSlash(fixture)}).String()
	return weather.NewSource(template, testingURI, c.APIKey, c.Testing), nil
}

// InitializeLogging sets up logging based on the configuration
func (c *AppConfig) InitializeLogging() {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LocationList is a list of locations decoded from "lat,lon;lat,lon".
type LocationList []weather.Location

// Decode implements envconfig.Decoder.
func (l *LocationList) Decode(value string) error {
	*l = nil
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, pair := range strings.Split(value, ";") {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return fmt.Errorf("location %q must be \"lat,lon\"", pair)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return fmt.Errorf("invalid latitude in %q: %w", pair, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return fmt.Errorf("invalid longitude in %q: %w", pair, err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return fmt.Errorf("location %q is out of range", pair)
		}

		*l = append(*l, weather.Location{Latitude: lat, Longitude: lon})
	}

	return nil
}
