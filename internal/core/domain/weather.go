package domain

import "time"

// WeatherCondition is the current weather at a location.
type WeatherCondition struct {
	Location        GeoPoint  `json:"location"`
	Place           string    `json:"place,omitempty"`
	TemperatureC    float64   `json:"temperature_c"`
	FeelsLikeC      float64   `json:"feels_like_c"`
	PressureHPa     float64   `json:"pressure_hpa"`
	HumidityPct     float64   `json:"humidity_pct"`
	WindSpeedMS     float64   `json:"wind_speed_ms"`
	WindDeg         float64   `json:"wind_deg"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	Summary         string    `json:"summary,omitempty"`
	Icon            string    `json:"icon,omitempty"`
	ObservedAt      time.Time `json:"observed_at"`
}
