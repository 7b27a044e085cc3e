package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

var validate = validator.New()

// Forecaster is the part of weather.Service exposed over HTTP.
type Forecaster interface {
	Forecast(ctx context.Context, loc weather.Location) (*weather.Forecast, error)
	Info() weather.SourceInfo
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, city, country string) (weather.Location, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. geocoder may be
// nil, in which case only coordinate queries are accepted.
func RegisterRoutes(app *fiber.App, service Forecaster, geocoder Geocoder) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		loc, err := resolveLocation(c, geocoder)
		if err != nil {
			return err
		}

		forecast, err := service.Forecast(c.UserContext(), loc)
		if err != nil {
			return fetchError(err)
		}

		return c.JSON(forecast)
	})

	v1.Get("/source", func(c *fiber.Ctx) error {
		return c.JSON(service.Info())
	})
}

// ErrorHandler renders every error as a JSON body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// coordinateQuery holds query parameters for a coordinate lookup.
type coordinateQuery struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`
}

// placeQuery holds query parameters for a geocoded lookup.
type placeQuery struct {
	City    string `validate:"required"`
	Country string `validate:"required"`
}

func resolveLocation(c *fiber.Ctx, geocoder Geocoder) (weather.Location, error) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		q, err := parseCoordinateQuery(latStr, lonStr)
		if err != nil {
			return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return weather.Location{Latitude: q.Lat, Longitude: q.Lon}, nil
	}

	place := placeQuery{City: c.Query("city"), Country: c.Query("country")}
	if place.City == "" && place.Country == "" {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
	}
	if err := validate.Struct(place); err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if geocoder == nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, "geocoding is not configured; use lat and lon")
	}

	loc, err := geocoder.Resolve(c.UserContext(), place.City, place.Country)
	if err != nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadGateway, "failed to geocode location")
	}
	return loc, nil
}

func parseCoordinateQuery(latStr, lonStr string) (coordinateQuery, error) {
	if latStr == "" || lonStr == "" {
		return coordinateQuery{}, errors.New("lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return coordinateQuery{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return coordinateQuery{}, errors.New("lon must be a number")
	}

	q := coordinateQuery{Lat: lat, Lon: lon}
	if err := validate.Struct(q); err != nil {
		return coordinateQuery{}, err
	}
	return q, nil
}

// fetchError maps service failures onto HTTP status codes.
func fetchError(err error) error {
	var (
		transportErr *weather.TransportError
		parseErr     *weather.ParseError
		schemaErr    *weather.SchemaError
	)

	switch {
	case errors.Is(err, weather.ErrNotYetFetched):
		return fiber.NewError(fiber.StatusServiceUnavailable, "forecast is not available yet; retry shortly")
	case errors.As(err, &transportErr):
		return fiber.NewError(fiber.StatusBadGateway, "failed to reach forecast provider")
	case errors.As(err, &parseErr), errors.As(err, &schemaErr):
		return fiber.NewError(fiber.StatusBadGateway, "forecast provider returned an invalid document")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusGatewayTimeout, "forecast request timed out")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
	}
}
