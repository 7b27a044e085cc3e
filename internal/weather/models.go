package weather

import (
	"encoding/json"
	"strconv"
)

// Location is a point on the globe for which a forecast is requested.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Key returns a canonical string key for this location, used in logs.
func (l Location) Key() string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// Forecast is the provider-agnostic canonical forecast handed to callers.
type Forecast struct {
	LastUpdated  int64             `json:"last_updated"`
	Location     Location          `json:"location"`
	NearestStorm NearestStorm      `json:"nearest_storm"`
	Now          Conditions        `json:"now"`
	Today        Today             `json:"today"`
	Week         Week              `json:"week"`
	Alerts       []json.RawMessage `json:"alerts,omitempty"`
	AlertCount   int               `json:"alert_count"`
	Units        Units             `json:"units"`
}

// NearestStorm locates the closest storm relative to the requested location.
// Both fields are zero when the provider reports nothing.
type NearestStorm struct {
	Bearing  float64 `json:"bearing"`
	Distance float64 `json:"distance"`
}

// Conditions describes the weather right now.
type Conditions struct {
	Temp          int           `json:"temp"`
	TempApparent  int           `json:"temp_apparent"`
	Conditions    string        `json:"conditions"`
	Icon          string        `json:"icon"`
	Precipitation Precipitation `json:"precipitation"`
	Wind          Wind          `json:"wind"`
}

// Today summarizes the current day. Temperatures and sun times come from the
// first daily entry while Summary and Icon come from the hourly block.
type Today struct {
	Temp    TempRange   `json:"temp"`
	Sun     Sun         `json:"sun"`
	Summary string      `json:"summary"`
	Icon    string      `json:"icon"`
	Hourly  []HourEntry `json:"hourly"`
}

// Week holds the daily outlook.
type Week struct {
	Daily []DayEntry `json:"daily"`
}

// HourEntry is one hour of the hourly series.
type HourEntry struct {
	Temp          int           `json:"temp"`
	Precipitation Precipitation `json:"precipitation"`
	Sun           Sun           `json:"sun"`
	Wind          Wind          `json:"wind"`
	Summary       string        `json:"summary"`
	Icon          string        `json:"icon"`
	Time          int64         `json:"time"`
}

// DayEntry is one day of the weekly series.
type DayEntry struct {
	Temp          TempRange     `json:"temp"`
	Precipitation Precipitation `json:"precipitation"`
	Sun           Sun           `json:"sun"`
	Wind          Wind          `json:"wind"`
	Summary       string        `json:"summary"`
	Icon          string        `json:"icon"`
	Time          int64         `json:"time"`
}

type TempRange struct {
	High int `json:"high"`
	Low  int `json:"low"`
}

// Precipitation carries intensity as reported and probability as an integer
// percentage in [0, 100].
type Precipitation struct {
	Intensity   float64 `json:"intensity"`
	Probability int     `json:"probability"`
	Type        *string `json:"type,omitempty"`
}

type Sun struct {
	RiseTime *int64 `json:"rise_time,omitempty"`
	SetTime  *int64 `json:"set_time,omitempty"`
}

type Wind struct {
	Speed   int      `json:"speed"`
	Bearing *float64 `json:"bearing,omitempty"`
}

// Units names the units every numeric field is expressed in.
type Units struct {
	Temp     string `json:"temp"`
	Distance string `json:"distance"`
	Speed    string `json:"speed"`
}

// ImperialUnits is the only unit set the provider is queried in.
var ImperialUnits = Units{Temp: "F", Distance: "mi", Speed: "mph"}
