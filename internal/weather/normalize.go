package weather

import (
	"encoding/json"
	"math"
	"time"
)

// Decode parses a raw provider response body.
func Decode(body []byte) (*RawForecast, error) {
	var raw RawForecast
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &raw, nil
}

// NormalizeBody decodes body and normalizes it in one step.
func NormalizeBody(body []byte, now time.Time) (*Forecast, error) {
	raw, err := Decode(body)
	if err != nil {
		return nil, err
	}
	return Normalize(raw, now)
}

// Normalize converts a raw provider document into the canonical forecast.
// now is stamped into LastUpdated.
func Normalize(raw *RawForecast, now time.Time) (*Forecast, error) {
	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	current := raw.Currently
	first := raw.Daily.Data[0]

	forecast := &Forecast{
		LastUpdated: now.Unix(),
		Location: Location{
			Latitude:  raw.Latitude,
			Longitude: raw.Longitude,
		},
		NearestStorm: NearestStorm{
			Bearing:  orZero(current.NearestStormBearing),
			Distance: orZero(current.NearestStormDistance),
		},
		Now: Conditions{
			Temp:          round(current.Temperature),
			TempApparent:  round(current.ApparentTemperature),
			Conditions:    current.Summary,
			Icon:          MapIcon(current.Icon),
			Precipitation: precipitation(*current),
			Wind:          wind(*current),
		},
		Today: Today{
			Temp: TempRange{
				High: round(first.TemperatureMax),
				Low:  round(first.TemperatureMin),
			},
			Sun:     sun(first),
			Summary: raw.Hourly.Summary,
			Icon:    MapIcon(raw.Hourly.Icon),
			Hourly:  hourEntries(raw.Hourly.Data),
		},
		Week: Week{
			Daily: dayEntries(raw.Daily.Data),
		},
		Alerts:     raw.Alerts,
		AlertCount: len(raw.Alerts),
		Units:      ImperialUnits,
	}

	return forecast, nil
}

func checkSchema(raw *RawForecast) error {
	switch {
	case raw == nil:
		return &SchemaError{Field: "document"}
	case raw.Currently == nil:
		return &SchemaError{Field: "currently"}
	case raw.Hourly == nil:
		return &SchemaError{Field: "hourly"}
	case raw.Daily == nil:
		return &SchemaError{Field: "daily"}
	case len(raw.Daily.Data) == 0:
		return &SchemaError{Field: "daily.data"}
	}
	return nil
}

func hourEntries(points []RawDataPoint) []HourEntry {
	entries := make([]HourEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, HourEntry{
			Temp:          round(p.Temperature),
			Precipitation: precipitation(p),
			Sun:           sun(p),
			Wind:          wind(p),
			Summary:       p.Summary,
			Icon:          MapIcon(p.Icon),
			Time:          p.Time,
		})
	}
	return entries
}

func dayEntries(points []RawDataPoint) []DayEntry {
	entries := make([]DayEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, DayEntry{
			Temp: TempRange{
				High: round(p.TemperatureMax),
				Low:  round(p.TemperatureMin),
			},
			Precipitation: precipitation(p),
			Sun:           sun(p),
			Wind:          wind(p),
			Summary:       p.Summary,
			Icon:          MapIcon(p.Icon),
			Time:          p.Time,
		})
	}
	return entries
}

func precipitation(p RawDataPoint) Precipitation {
	return Precipitation{
		Intensity:   p.PrecipIntensity,
		Probability: percent(p.PrecipProbability),
		Type:        p.PrecipType,
	}
}

func sun(p RawDataPoint) Sun {
	return Sun{
		RiseTime: p.SunriseTime,
		SetTime:  p.SunsetTime,
	}
}

func wind(p RawDataPoint) Wind {
	return Wind{
		Speed:   round(p.WindSpeed),
		Bearing: p.WindBearing,
	}
}

// round rounds half away from zero.
func round(v float64) int {
	return int(math.Round(v))
}

// percent turns a 0..1 fraction into a whole percentage.
func percent(fraction float64) int {
	return round(fraction * 100)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
