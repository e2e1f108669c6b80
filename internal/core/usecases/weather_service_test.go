package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/usecases"
)

func TestWeatherService_CachesPerCell(t *testing.T) {
	provider := &mockWeather{}
	cache := newCache()
	svc := usecases.NewWeatherService(provider, cache, 600)
	ctx := context.Background()

	first, err := svc.Current(ctx, domain.GeoPoint{Lat: 49.8293, Lon: 24.0222})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TemperatureC != 20 {
		t.Errorf("unexpected weather %+v", first)
	}
	if cache.ttls["weather:49.83:24.02"] != 600 {
		t.Errorf("expected weather:49.83:24.02 cached for 600s, got %v", cache.ttls)
	}

	// Same ~1 km cell
	if _, err := svc.Current(ctx, domain.GeoPoint{Lat: 49.8321, Lon: 24.0198}); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}

	if _, err := svc.Current(ctx, domain.GeoPoint{Lat: 50.45, Lon: 30.52}); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.calls)
	}
}

func TestWeatherService_Errors(t *testing.T) {
	provider := &mockWeather{
		currentFn: func(ctx context.Context, lat, lon float64) (*domain.WeatherCondition, error) {
			return nil, fmt.Errorf("%w: status 503", domain.ErrUpstream)
		},
	}
	cache := newCache()
	svc := usecases.NewWeatherService(provider, cache, 600)

	if _, err := svc.Current(context.Background(), domain.GeoPoint{Lat: 1, Lon: 1}); !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
	if len(cache.data) != 0 {
		t.Error("failure was cached")
	}

	if _, err := svc.Current(context.Background(), domain.GeoPoint{Lat: -91}); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("invalid coordinate reached the provider")
	}
}
