package weather

// iconTable maps Forecast.io icon names onto the canonical icon vocabulary.
var iconTable = map[string]string{
	"partly-cloudy-day":   "day-cloudy",
	"partly-cloudy-night": "night-alt-cloudy",
	"cloudy":              "cloudy",
	"wind":                "strong-wind",
	"sleet":               "rain-mix",
	"snow":                "snow",
	"rain":                "rain",
	"clear-night":         "night-clear",
	"clear-day":           "day-sunny",
}

// MapIcon translates a provider icon into the canonical vocabulary. Icons
// without a mapping are returned unchanged.
func MapIcon(providerIcon string) string {
	if icon, ok := iconTable[providerIcon]; ok {
		return icon
	}
	return providerIcon
}
