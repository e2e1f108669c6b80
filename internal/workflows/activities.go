package workflows

import (
	"context"
	"fmt"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/pkg/geospatial"
	"github.com/samirrijal/solarmap/internal/pkg/metrics"
)

// MaxWarmTiles caps the number of tiles a single warm run fetches.
const MaxWarmTiles = 512

// TileWarmer is the part of the tile service the activities need.
type TileWarmer interface {
	Warm(ctx context.Context, option domain.MapOption, coord domain.TileCoord) error
}

// TileWarmActivities holds the activity implementations for the tile warm workflow.
type TileWarmActivities struct {
	Tiles TileWarmer
}

// ListTiles returns the tiles covering req.Bounds, capped at MaxWarmTiles.
func (a *TileWarmActivities) ListTiles(ctx context.Context, req domain.WarmRequest) ([]domain.TileCoord, error) {
	if req.MaxZoom > domain.MaxZoom || req.MinZoom > req.MaxZoom {
		return nil, fmt.Errorf("%w: zoom range %d..%d", domain.ErrInvalidTile, req.MinZoom, req.MaxZoom)
	}
	b := req.Bounds
	cover := geospatial.TileCover(b.MinLat, b.MinLon, b.MaxLat, b.MaxLon, req.MinZoom, req.MaxZoom, MaxWarmTiles)

	tiles := make([]domain.TileCoord, 0, len(cover))
	for _, t := range cover {
		tiles = append(tiles, domain.TileCoord{Z: uint32(t.Z), X: t.X, Y: t.Y})
	}
	return tiles, nil
}

// WarmTile fetches one tile into the cache.
func (a *TileWarmActivities) WarmTile(ctx context.Context, option domain.MapOption, coord domain.TileCoord) error {
	if err := a.Tiles.Warm(ctx, option, coord); err != nil {
		return fmt.Errorf("warm %s %s: %w", option, coord, err)
	}
	metrics.TilesWarmed.WithLabelValues(string(option)).Inc()
	return nil
}
