package weather

import "encoding/json"

// RawForecast mirrors the subset of the Forecast.io response document that the
// normalizer reads. Blocks are pointers so a missing block can be told apart
// from an empty one.
type RawForecast struct {
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Currently *RawDataPoint     `json:"currently"`
	Hourly    *RawDataBlock     `json:"hourly"`
	Daily     *RawDataBlock     `json:"daily"`
	Alerts    []json.RawMessage `json:"alerts"`
}

// RawDataBlock is a summarized series of data points.
type RawDataBlock struct {
	Summary string         `json:"summary"`
	Icon    string         `json:"icon"`
	Data    []RawDataPoint `json:"data"`
}

// RawDataPoint is a single provider observation or prediction. Fields that
// only exist for some granularities are left nil when absent.
type RawDataPoint struct {
	Time                 int64    `json:"time"`
	Summary              string   `json:"summary"`
	Icon                 string   `json:"icon"`
	Temperature          float64  `json:"temperature"`
	ApparentTemperature  float64  `json:"apparentTemperature"`
	TemperatureMax       float64  `json:"temperatureMax"`
	TemperatureMin       float64  `json:"temperatureMin"`
	PrecipIntensity      float64  `json:"precipIntensity"`
	PrecipProbability    float64  `json:"precipProbability"`
	PrecipType           *string  `json:"precipType"`
	WindSpeed            float64  `json:"windSpeed"`
	WindBearing          *float64 `json:"windBearing"`
	SunriseTime          *int64   `json:"sunriseTime"`
	SunsetTime           *int64   `json:"sunsetTime"`
	NearestStormBearing  *float64 `json:"nearestStormBearing"`
	NearestStormDistance *float64 `json:"nearestStormDistance"`
}
