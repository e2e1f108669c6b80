package ports

import (
	"context"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// EventPublisher publishes map events to a message broker.
type EventPublisher interface {
	PublishOverlayChange(ctx context.Context, change *domain.OverlayChange) error
	PublishLocation(ctx context.Context, sessionID string, p domain.GeoPoint) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// WeatherParser turns a weather server response into a condition.
type WeatherParser interface {
	Parse(data []byte) (*domain.WeatherCondition, error)
}

// WeatherProvider fetches current weather for a position.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (*domain.WeatherCondition, error)
}

// TileFetcher downloads a single tile from an expanded URL.
type TileFetcher interface {
	FetchTile(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// TileWarmer schedules background pre-fetching of tiles for an area.
type TileWarmer interface {
	Warm(ctx context.Context, req domain.WarmRequest) (runID string, err error)
}
