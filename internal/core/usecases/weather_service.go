package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
	"github.com/samirrijal/solarmap/internal/pkg/metrics"
)

// WeatherService returns current weather, cached per ~1 km cell.
type WeatherService struct {
	provider ports.WeatherProvider
	cache    ports.CacheService
	ttl      int
}

// NewWeatherService creates a new WeatherService. cache may be nil.
func NewWeatherService(provider ports.WeatherProvider, cache ports.CacheService, ttlSeconds int) *WeatherService {
	return &WeatherService{provider: provider, cache: cache, ttl: ttlSeconds}
}

// Current returns the weather at p.
func (s *WeatherService) Current(ctx context.Context, p domain.GeoPoint) (*domain.WeatherCondition, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "WeatherService.Current")
	defer span.End()

	cacheKey := fmt.Sprintf("weather:%.2f:%.2f", p.Lat, p.Lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var wc domain.WeatherCondition
			if err := json.Unmarshal(data, &wc); err == nil {
				metrics.CacheHits.WithLabelValues("weather").Inc()
				return &wc, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("weather").Inc()
	}

	wc, err := s.provider.CurrentWeather(ctx, p.Lat, p.Lon)
	if err != nil {
		metrics.WeatherErrors.Inc()
		return nil, fmt.Errorf("current weather: %w", err)
	}

	if s.cache != nil && s.ttl > 0 {
		if data, err := json.Marshal(wc); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.ttl)
		}
	}
	return wc, nil
}
