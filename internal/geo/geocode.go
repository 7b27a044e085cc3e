package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

// ErrEmptyPlace is returned when neither city nor country is given.
var ErrEmptyPlace = errors.New("city and country are required")

// Resolver turns a city/country pair into coordinates using the Google
// geocoding API.
type Resolver struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewResolver configures the geocoder with apiKey. The geocoder keeps its key
// in a package variable, so only one key is in effect per process.
func NewResolver(apiKey string) *Resolver {
	geocoder.ApiKey = apiKey
	return &Resolver{lookup: geocoder.Geocoding}
}

// Resolve returns the coordinates of city in country. The geocoder client does
// not accept a context; ctx is only checked before the call.
func (r *Resolver) Resolve(ctx context.Context, city, country string) (weather.Location, error) {
	if city == "" || country == "" {
		return weather.Location{}, ErrEmptyPlace
	}
	if err := ctx.Err(); err != nil {
		return weather.Location{}, err
	}

	loc, err := r.lookup(geocoder.Address{
		City:    city,
		Country: country,
	})
	if err != nil {
		return weather.Location{}, fmt.Errorf("geocoding %s, %s: %w", city, country, err)
	}

	return weather.Location{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}, nil
}
