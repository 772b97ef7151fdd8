package weather

import "time"

// Condition is the coarse weather condition group reported by the provider
type Condition string

const (
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionRain         Condition = "Rain"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
)

// Reading is the normalized environmental snapshot consumed by the
// classification engine. All numeric fields default to zero when the
// corresponding source failed, so the engine never sees "missing" data,
// only an absent signal.
type Reading struct {
	Temperature       float64   `json:"temperature"` // °C
	FeelsLike         float64   `json:"feels_like"`  // °C
	PM10              float64   `json:"pm10"`        // µg/m³
	PM25              float64   `json:"pm25"`        // µg/m³
	Ozone             float64   `json:"ozone"`       // ppm
	UVIndex           float64   `json:"uv_index"`
	PollenIndex       float64   `json:"pollen_index"`
	PrecipitationRate float64   `json:"precipitation_rate"` // mm/h
	Condition         Condition `json:"condition"`
	CloudCoverPercent float64   `json:"cloud_cover_percent"`
	HumidityPercent   float64   `json:"humidity_percent"`
	FetchedAt         time.Time `json:"fetched_at"`
}

// AirQuality holds the particulate readings from the air pollution provider
type AirQuality struct {
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
}

// PollenObservation is the dominant pollen type for the requested day
type PollenObservation struct {
	Type       string    `json:"type"`      // provider code: "GRASS", "TREE", "WEED", ...
	Value      int       `json:"value"`     // 0-5 UPI severity
	Category   string    `json:"category"`  // "None" ... "Very high"
	InSeason   bool      `json:"in_season"`
	ObservedAt time.Time `json:"observed_at"`
}

// Current holds the base weather snapshot from the one-call endpoint
type Current struct {
	Temperature       float64
	FeelsLike         float64
	HumidityPercent   float64
	UVIndex           float64
	CloudCoverPercent float64
	Condition         Condition
	RainRate          float64 // mm/h over the last hour
}

// AirLevel maps a PM2.5 concentration to the product's display band
func AirLevel(pm25 float64) string {
	switch {
	case pm25 <= 15:
		return "Good"
	case pm25 <= 35:
		return "Moderate"
	case pm25 <= 75:
		return "Poor"
	default:
		return "Very Poor"
	}
}
