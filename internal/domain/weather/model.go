package weather

import "github.com/yanqian/trip-planner/internal/domain/geo"

// Forecast day limits accepted by Open-Meteo.
const (
	DefaultDays = 7
	MaxDays     = 16
)

// SourceOpenMeteo tags live forecasts.
const SourceOpenMeteo = "open_meteo"

// Day is one day of a daily forecast.
type Day struct {
	Date                     string  `json:"date"`
	TempMax                  float64 `json:"tempMax"`
	TempMin                  float64 `json:"tempMin"`
	PrecipitationProbability int     `json:"precipitationProbability"`
	WeatherCode              int     `json:"weatherCode"`
	Condition                string  `json:"condition"`
}

// Forecast is a daily series for one location.
type Forecast struct {
	Location geo.Coordinates `json:"location"`
	Timezone string          `json:"timezone,omitempty"`
	Units    string          `json:"units"`
	Days     []Day           `json:"days"`
}

// Condition maps a WMO weather interpretation code to a short label.
func Condition(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code <= 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}
