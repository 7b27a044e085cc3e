package weather

import (
	"strconv"
	"strings"

	"github.com/i474232898/forecastio-adapter/internal/common"
)

const (
	// ForecastBaseURL is the live Forecast.io forecast endpoint.
	ForecastBaseURL = "https://api.forecast.io/forecast"

	// ForecastURIPath is appended to a base URL to address one forecast.
	ForecastURIPath = "/${api_key}/${latitude},${longitude}"

	// ForecastURITemplate is the live forecast URI.
	ForecastURITemplate = ForecastBaseURL + ForecastURIPath

	// StormsURITemplate is the wide-area storm endpoint. No operation uses it yet.
	StormsURITemplate = "https://api.darkskyapp.com/v1/interesting/${api_key}"
)

const redactedKey = "REDACTED"

// Source describes where raw forecast documents come from: a live endpoint
// and a fixture used in testing mode.
type Source struct {
	URI        string
	TestingURI string
	Testing    bool

	apiKey string
}

// NewSource builds a Source from URI templates, filling in the API key. The
// latitude and longitude tokens are resolved per request by PrepareURI.
func NewSource(uriTemplate, testingURI, apiKey string, testing bool) Source {
	return Source{
		URI:        common.ExpandTokens(uriTemplate, map[string]string{"api_key": apiKey}),
		TestingURI: testingURI,
		Testing:    testing,
		apiKey:     apiKey,
	}
}

// PrepareURI returns the URI to request for loc, picking the fixture URI in
// testing mode.
func (s Source) PrepareURI(loc Location) string {
	uri := s.URI
	if s.Testing {
		uri = s.TestingURI
	}
	return common.ExpandTokens(uri, map[string]string{
		"latitude":  strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
		"longitude": strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
	})
}

// Redact masks the API key in uri so it can be logged or returned in errors.
func (s Source) Redact(uri string) string {
	if s.apiKey == "" {
		return uri
	}
	return strings.ReplaceAll(uri, s.apiKey, redactedKey)
}

