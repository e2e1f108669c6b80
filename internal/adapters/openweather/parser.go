package openweather

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// ErrMalformedResponse is returned when a body is not a current-weather document.
var ErrMalformedResponse = errors.New("malformed weather response")

// currentResponse mirrors the /data/2.5/weather JSON document.
type currentResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Rain map[string]float64 `json:"rain"`
	Snow map[string]float64 `json:"snow"`
	Dt   int64              `json:"dt"`
	Name string             `json:"name"`
}

// Parser implements ports.WeatherParser for OpenWeatherMap responses in metric units.
type Parser struct{}

// Parse maps a current-weather document to a condition. Precipitation is the
// last hour of rain plus snow.
func (Parser) Parse(data []byte) (*domain.WeatherCondition, error) {
	var r currentResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if r.Main == nil {
		return nil, fmt.Errorf("%w: missing main block", ErrMalformedResponse)
	}

	wc := &domain.WeatherCondition{
		Location:        domain.GeoPoint{Lat: r.Coord.Lat, Lon: r.Coord.Lon},
		Place:           r.Name,
		TemperatureC:    r.Main.Temp,
		FeelsLikeC:      r.Main.FeelsLike,
		PressureHPa:     r.Main.Pressure,
		HumidityPct:     r.Main.Humidity,
		WindSpeedMS:     r.Wind.Speed,
		WindDeg:         r.Wind.Deg,
		PrecipitationMM: r.Rain["1h"] + r.Snow["1h"],
	}
	if len(r.Weather) > 0 {
		parts := make([]string, 0, len(r.Weather))
		for _, w := range r.Weather {
			if w.Description != "" {
				parts = append(parts, w.Description)
			} else if w.Main != "" {
				parts = append(parts, w.Main)
			}
		}
		wc.Summary = strings.Join(parts, ", ")
		wc.Icon = r.Weather[0].Icon
	}
	if r.Dt > 0 {
		wc.ObservedAt = time.Unix(r.Dt, 0).UTC()
	}
	return wc, nil
}
