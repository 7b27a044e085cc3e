package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/forecastio-adapter/internal/weather"
)

type fakeForecaster struct {
	forecast *weather.Forecast
	err      error
	got      []weather.Location
}

func (f *fakeForecaster) Forecast(_ context.Context, loc weather.Location) (*weather.Forecast, error) {
	f.got = append(f.got, loc)
	return f.forecast, f.err
}

func (f *fakeForecaster) Info() weather.SourceInfo {
	last := int64(1404860400)
	return weather.SourceInfo{
		ID:          "forecast_io",
		Name:        "Forecast.io",
		Enabled:     true,
		NeedsAPIKey: true,
		SourceSite:  "http://forecast.io/",
		LastCall:    &last,
	}
}

type fakeGeocoder struct {
	loc weather.Location
	err error
}

func (g *fakeGeocoder) Resolve(_ context.Context, _, _ string) (weather.Location, error) {
	return g.loc, g.err
}

func newTestApp(svc Forecaster, geocoder Geocoder) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc, geocoder)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return resp.StatusCode, body
}

func TestForecastQueryValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "no location", target: "/api/v1/forecast"},
		{name: "lat without lon", target: "/api/v1/forecast?lat=47.6"},
		{name: "non numeric lat", target: "/api/v1/forecast?lat=north&lon=-122.3"},
		{name: "lat out of range", target: "/api/v1/forecast?lat=91&lon=0"},
		{name: "lon out of range", target: "/api/v1/forecast?lat=0&lon=181"},
		{name: "city without country", target: "/api/v1/forecast?city=Seattle"},
		{name: "geocoding disabled", target: "/api/v1/forecast?city=Seattle&country=US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeForecaster{forecast: &weather.Forecast{}}
			app := newTestApp(svc, nil)

			status, body := doGet(t, app, tt.target)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, true, body["error"])
			assert.Empty(t, svc.got)
		})
	}
}

func TestForecastByCoordinates(t *testing.T) {
	svc := &fakeForecaster{forecast: &weather.Forecast{
		LastUpdated: 1404860400,
		Now:         weather.Conditions{Temp: 64, Icon: "day-cloudy"},
		Units:       weather.ImperialUnits,
	}}
	app := newTestApp(svc, nil)

	status, body := doGet(t, app, "/api/v1/forecast?lat=47.6&lon=-122.3")
	require.Equal(t, http.StatusOK, status)

	require.Len(t, svc.got, 1)
	assert.Equal(t, weather.Location{Latitude: 47.6, Longitude: -122.3}, svc.got[0])

	now, ok := body["now"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(64), now["temp"])
	assert.Equal(t, "day-cloudy", now["icon"])

	units, ok := body["units"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "F", units["temp"])
}

func TestForecastByPlace(t *testing.T) {
	svc := &fakeForecaster{forecast: &weather.Forecast{}}
	geocoder := &fakeGeocoder{loc: weather.Location{Latitude: 48.8566, Longitude: 2.3522}}
	app := newTestApp(svc, geocoder)

	status, _ := doGet(t, app, "/api/v1/forecast?city=Paris&country=FR")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, svc.got, 1)
	assert.Equal(t, geocoder.loc, svc.got[0])

	geocoder.err = errors.New("ZERO_RESULTS")
	status, _ = doGet(t, app, "/api/v1/forecast?city=Atlantis&country=GR")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Len(t, svc.got, 1)
}

func TestForecastErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not yet fetched", err: weather.ErrNotYetFetched, want: http.StatusServiceUnavailable},
		{name: "transport", err: &weather.TransportError{URI: "https://api.forecast.io/forecast/REDACTED/1,2", Err: errors.New("refused")}, want: http.StatusBadGateway},
		{name: "parse", err: &weather.ParseError{Err: errors.New("unexpected EOF")}, want: http.StatusBadGateway},
		{name: "schema", err: &weather.SchemaError{Field: "daily"}, want: http.StatusBadGateway},
		{name: "timeout", err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeForecaster{err: tt.err}, nil)

			status, body := doGet(t, app, "/api/v1/forecast?lat=1&lon=2")
			assert.Equal(t, tt.want, status)
			assert.Equal(t, true, body["error"])
			assert.NotContains(t, body["message"], "REDACTED")
		})
	}
}

func TestSourceInfo(t *testing.T) {
	app := newTestApp(&fakeForecaster{}, nil)

	status, body := doGet(t, app, "/api/v1/source")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "forecast_io", body["id"])
	assert.Equal(t, "Forecast.io", body["name"])
	assert.Equal(t, true, body["needs_api_key"])
	assert.Equal(t, "http://forecast.io/", body["source_site"])
	assert.Equal(t, float64(1404860400), body["last_call"])
}
